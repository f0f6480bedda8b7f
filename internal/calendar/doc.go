// Package calendar derives the dashboard's views from fetched events and
// todos: the upcoming window, per-day lists and the month grid.
//
// All functions are pure. Day membership is decided by projecting each
// instant into the viewer's zone and comparing civil dates, so an event at
// 2024-03-15T23:59Z belongs to 2024-03-16 for a viewer in Asia/Tokyo and to
// 2024-03-15 for a viewer in UTC.
package calendar
