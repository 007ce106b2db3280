// Package pkgroutine runs background scan jobs on a bounded pool.
//
// TryGo refuses work when the pool is full so callers can answer "busy"
// instead of queueing. Job errors are counted and only the first few are
// kept for Wait; panics are logged and swallowed.
package pkgroutine
