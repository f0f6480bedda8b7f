// Package resource keeps fetched backend data together with its loading and
// error state.
//
// A Resource wraps a producer (one backend call) and exposes the latest
// State: Data, Loading and Err. Fetch and Refetch re-run the producer;
// every run is tagged with a sequence number and only the newest run may
// write state, so a slow response can never overwrite a fresher one. After
// Close, late results are dropped and further fetches fail with ErrClosed.
//
// Bindings such as NewEvents and NewEmails tie a Resource to one Client
// method. Views read State, or Subscribe to every transition.
package resource
