// Package pid guards against a second instance with a PID lock file.
package pid

import (
	"github.com/nightlyone/lockfile"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
)

// File is a held PID lock.
type File struct {
	lock lockfile.Lockfile
}

// Acquire writes the current process ID to path. A stale file left by
// a dead process is replaced, a live owner makes it fail with
// ErrAlreadyRunning. path must be absolute.
func Acquire(path string) (*File, error) {
	errFactory := errors.New()

	lock, err := lockfile.New(path)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidArgument, err)
	}

	if err := lock.TryLock(); err != nil {
		if errors.Is(err, lockfile.ErrBusy) {
			owner, _ := lock.GetOwner()
			if owner != nil {
				return nil, errFactory.WithData(errors.ErrAlreadyRunning, owner.Pid)
			}
			return nil, errFactory.New(errors.ErrAlreadyRunning)
		}
		return nil, errFactory.Wrap(errors.ErrInternal, err)
	}

	logger.Debug().Str("path", path).Msg("PID file created")

	return &File{lock: lock}, nil
}

// Path returns the lock file name.
func (f *File) Path() string {
	return string(f.lock)
}

// Release removes the PID file.
func (f *File) Release() error {
	if err := f.lock.Unlock(); err != nil {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}
