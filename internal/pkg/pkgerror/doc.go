// Package pkgerror carries the error kinds the HTTP edge understands.
//
// An *Error pairs a client-facing message with a kind that maps to a status
// code, plus optional string details such as the entry and line of a
// malformed scan. Use errors.As to recover it from a wrapped chain.
package pkgerror
