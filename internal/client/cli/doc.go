// Package cli provides the interactive mailcal terminal dashboard.
//
// It wires configuration, the backend client, the local cache and the
// per-collection resources, then runs a REPL over them. Two background
// loops run alongside the prompt: an online-status watcher that pings the
// backend's health endpoint and a cron-scheduled refresh of every resource.
//
// Key features:
//   - Dashboard, month grid and per-day agenda in the configured time zone
//   - Inbox, email analysis and local analysis history
//   - Approve or reject extracted event and todo candidates
//   - Edit confirmed events and todos
//   - Settings, identity token and backend poller control
//   - Export to an iCalendar file
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
