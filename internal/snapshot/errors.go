package snapshot

import "github.com/troglobit/temp/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig   = errors.ErrInvalidConfig
	ErrInvalidPath     = errors.ErrorCode("snapshot_invalid_path")
	ErrInvalidInterval = errors.ErrInvalidInterval

	// Write Errors
	ErrEncode        = errors.ErrorCode("snapshot_encode_failed")
	ErrWrite         = errors.ErrWriteSnapshot
	ErrWriteCanceled = errors.ErrorCode("snapshot_write_canceled")
	ErrNoRegistry    = errors.ErrorCode("snapshot_no_registry")
)
