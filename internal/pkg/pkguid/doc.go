// Package pkguid generates identifiers: time-ordered UUID strings for scans
// and Snowflake numbers for review events.
package pkguid
