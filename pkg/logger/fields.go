package logger

// Shared log field names so entries can be queried consistently
const (
	FieldTraceID  = "traceId"
	FieldUID      = "uid"
	FieldEmail    = "email"
	FieldAction   = "action"
	FieldIndex    = "index"
	FieldCount    = "count"
	FieldDuration = "duration"
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
)
