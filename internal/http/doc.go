// Package http provides HTTP handlers and middleware for the study scheduler API.
//
// The router exposes the following endpoints:
//   - GET /scheduler/free-slots?user_id=...&date=YYYY-MM-DD: computes the free
//     study slots for a single day from preferences and calendar busy data. An
//     optional min_minutes parameter overrides the preferred minimum session
//     length for the query.
//   - POST /scheduler/proposals: generates study session proposals over an
//     inclusive date range. Body: {"user_id","from","to","daily_target_minutes"}.
//     Proposals are returned to the caller and not persisted.
//   - POST /scheduler/sessions: commits approved proposals to the calendar and
//     records them in history. Body: {"user_id","provider","sessions":[...]}.
//   - POST /scheduler/conflicts/resolve: scans the next week of tracked
//     sessions and moves or cancels those that collide with calendar events.
//     Body: {"user_id"}.
//   - GET /preferences/{userID}, PUT /preferences/{userID}: read and replace a
//     user's scheduling preferences exchanging the `preferencesDTO` payload
//     defined in preference_handler.go.
//   - GET /history/{userID}, POST /history/{userID}: list session history and
//     record sessions directly. GET accepts `from`, `to` and `status` query
//     parameters.
//   - GET /history/{userID}/statistics?period=week|month|year|all: aggregates
//     completed sessions.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
