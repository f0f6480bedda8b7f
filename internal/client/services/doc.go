// Package services contains the application services behind the mailcal
// REPL. Each service owns one area of the dashboard (events, todos,
// candidates, email analysis, settings, account) and performs mutations as a
// round trip: await the backend call, then refetch the owning resources and
// notify the caller. There is no optimistic update; a failed call is logged
// and returned, and resource state stays as it was.
package services
