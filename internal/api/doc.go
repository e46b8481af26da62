// Package api implements the HTTP handlers of the flashdeck API. Handlers
// decode and validate requests, call the service layer and translate
// service errors into status codes with sanitized messages.
package api
