package monitor

import "github.com/troglobit/temp/internal/errors"

const (
	ErrInvalidConfig   = errors.ErrInvalidConfig
	ErrInvalidInterval = errors.ErrInvalidInterval
	ErrInvalidRuntime  = errors.ErrInvalidRuntime
	ErrNoSensors       = errors.ErrNoSensors
	ErrAlreadyStarted  = errors.ErrorCode("monitor_already_started")
	ErrMainLoop        = errors.ErrMainLoop
)
