package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidRuntime  ErrorCode = "invalid_runtime"

	// Logging errors
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrInitLogger      ErrorCode = "init_logger_failed"

	// Initialization errors
	ErrNoSensors      ErrorCode = "no_sensors"
	ErrDaemonize      ErrorCode = "daemonize_failed"
	ErrAlreadyRunning ErrorCode = "already_running"

	// Runtime errors
	ErrMainLoop      ErrorCode = "main_loop_failed"
	ErrWriteSnapshot ErrorCode = "write_snapshot_failed"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidArgument: "Invalid argument provided",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read config file",
	ErrInvalidInterval: "Invalid poll interval, min 100 msec, max 9223372036854 msec",
	ErrInvalidRuntime:  "Invalid run time, min 1 sec, max 9223372036 sec",
	ErrInvalidLogLevel: "Invalid log level",
	ErrInitLogger:      "Failed to initialize logger",
	ErrNoSensors:       "Need at least one temp sensor to start",
	ErrDaemonize:       "Failed daemonizing",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrMainLoop:        "Error in main loop",
	ErrWriteSnapshot:   "Failed writing snapshot",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
