package bootstrap

import "context"

// AuditLog is an operational audit entry, separate from the per-report
// approval trail stored on the report rows.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
