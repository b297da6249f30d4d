package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldJobID is the background job ID
	FieldJobID = "job_id"

	// FieldTask is the background task name
	FieldTask = "task"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldProvider is the data provider identifier (NETFLIX, YOUTUBE, ...)
	FieldProvider = "provider"

	// FieldUserID is the user ID
	FieldUserID = "user_id"

	// FieldItemID is the catalog item ID
	FieldItemID = "item_id"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is a terminal status string
	FieldStatus = "status"

	// FieldProgress is a job progress percentage
	FieldProgress = "progress"
)
