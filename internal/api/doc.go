// Package api contains the HTTP handlers, request validation, and response
// shaping for the task-tracking service. It translates HTTP concerns into
// calls against the store, auth, and notification layers.
package api
