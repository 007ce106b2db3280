package pkglog

import "context"

type ctxKey uint8

const (
	correlationIDKey ctxKey = iota + 1
	scanIDKey
)

// GetCorrelationID returns the request correlation ID, or "" when the
// context did not pass through the correlation middleware.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey).(string)
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey, cid)
}

// GetScanID returns the scan being processed, or "" outside of a scan job.
func GetScanID(ctx context.Context) string {
	id, _ := ctx.Value(scanIDKey).(string)
	return id
}

// SetScanID tags ctx with a scan ID so every record logged under it carries
// a scan_id attribute.
func SetScanID(ctx context.Context, scanID string) context.Context {
	return context.WithValue(ctx, scanIDKey, scanID)
}
