// Package api implements the HTTP surface of the task management service:
// request decoding and validation, route handlers, and the mapping of
// service errors onto status codes and safe response messages.
package api
