package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig ErrorCode = "invalid_configuration"
	ErrReadConfig    ErrorCode = "read_config_failed"
	ErrBindFlags     ErrorCode = "bind_flags_failed"
	ErrParseFlags    ErrorCode = "parse_flags_failed"
	ErrInvalidFormat ErrorCode = "invalid_format"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	// Lifecycle errors
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Operation errors
	ErrTimeout ErrorCode = "operation_timeout"

	// Application errors
	ErrInitApp        ErrorCode = "init_app_failed"
	ErrAlreadyRunning ErrorCode = "already_running"
	ErrFeedReadings   ErrorCode = "feed_readings_failed"
	ErrWriteReport    ErrorCode = "write_report_failed"
	ErrServeMetrics   ErrorCode = "serve_metrics_failed"
	ErrInitJournal    ErrorCode = "init_journal_failed"
	ErrRecordJournal  ErrorCode = "record_journal_failed"
	ErrCloseJournal   ErrorCode = "close_journal_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrInvalidConfig:   "Invalid configuration",
	ErrReadConfig:      "Failed to read configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrParseFlags:      "Failed to parse flags",
	ErrInvalidFormat:   "Invalid output format",
	ErrInvalidLogLevel: "Invalid log level",
	ErrShutdownFailed:  "Shutdown failed",
	ErrTimeout:         "Operation timed out",
	ErrInitApp:         "Failed to initialize application",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrFeedReadings:    "Failed to feed readings",
	ErrWriteReport:     "Failed to write report",
	ErrServeMetrics:    "Failed to serve metrics",
	ErrInitJournal:     "Failed to initialize journal",
	ErrRecordJournal:   "Failed to record notification",
	ErrCloseJournal:    "Failed to close journal",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
