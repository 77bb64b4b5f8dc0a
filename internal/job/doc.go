// Package job implements the asynchronous notification dispatcher: a
// durable, at-least-once background job runner with a worker pool, the
// email job type it executes, the event handler that turns job-request
// events into queued jobs, and the scheduler for daily task reminders.
//
// Enqueuing is decoupled from the request path: Submit persists the job
// and returns immediately; delivery happens on the worker pool, and a
// failed job never propagates an error to the operation that enqueued it.
package job
