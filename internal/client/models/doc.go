// Package models defines the entities exchanged with the dashboard backend:
// emails, calendar events, todos, their unconfirmed candidates, analysis
// history and user settings.
//
// Every timestamp decodes into Timestamp, which normalizes the two shapes the
// backend emits (RFC 3339 and zone-less values, the latter read as UTC) into a
// single instant. Projection into a viewer's zone happens later, in the
// calendar package.
package models
