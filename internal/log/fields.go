package log

// Field names shared by every component.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldErrorType  = "error_type"
	FieldOperation  = "operation"
	FieldDate       = "date"
	FieldActivityID = "activity_id"
	FieldCategoryID = "category_id"
	FieldStart      = "start_time"
	FieldEnd        = "end_time"
	FieldMinutes    = "minutes"
	FieldRating     = "rating"
	FieldWeekStart  = "week_start"
	FieldCacheKey   = "cache_key"
)

const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentActivity  = "activity"
	ComponentRating    = "rating"
	ComponentCategory  = "category"
	ComponentAnalytics = "analytics"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentRollup    = "rollup"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentRateLimit = "rate_limit"
	ComponentBackend   = "backend"
)

const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpRollup   = "rollup"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields is a builder for structured log attributes.
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithRequestID(requestID string) LogFields {
	f[FieldRequestID] = requestID
	return f
}

func (f LogFields) WithClientIP(ip string) LogFields {
	f[FieldClientIP] = ip
	return f
}

// WithError records err and its category; a nil err is ignored.
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

func (f LogFields) WithDate(date string) LogFields {
	f[FieldDate] = date
	return f
}

// WithActivity adds the identifying fields of a logged activity.
func (f LogFields) WithActivity(id, date, categoryID, start, end string, minutes int) LogFields {
	f[FieldActivityID] = id
	f[FieldDate] = date
	f[FieldCategoryID] = categoryID
	f[FieldStart] = start
	f[FieldEnd] = end
	f[FieldMinutes] = minutes
	return f
}

func (f LogFields) WithRating(date, rating string) LogFields {
	f[FieldDate] = date
	f[FieldRating] = rating
	return f
}

func (f LogFields) WithHTTPRequest(method, path, query, userAgent string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	if query != "" {
		f[FieldQuery] = query
	}
	if userAgent != "" {
		f[FieldUserAgent] = userAgent
	}
	return f
}

func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	f[FieldSuccess] = statusCode < 400
	return f
}

// ToSlice converts the fields to slog key/value arguments.
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
