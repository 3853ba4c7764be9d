// Package daemon detaches the process from its controlling terminal and
// talks to the service manager.
package daemon

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
)

// EnvDetached marks the re-executed background copy of the process.
const EnvDetached = "TEMPD_DETACHED"

// IsDetached reports whether this process is the background copy
// started by Detach.
func IsDetached() bool {
	if os.Getenv(EnvDetached) != "1" {
		return false
	}
	sid, err := unix.Getsid(0)

	return err == nil && sid == unix.Getpid()
}

// Detach starts a copy of the running program in a new session, with
// its working directory at / and stdio on /dev/null. The caller is the
// parent and should exit once Detach returns without error.
func Detach() error {
	errFactory := errors.New()

	exe, err := os.Executable()
	if err != nil {
		return errFactory.Wrap(errors.ErrDaemonize, err)
	}

	cmd := Command(exe, os.Args[1:], os.Environ())
	if err := cmd.Start(); err != nil {
		return errFactory.Wrap(errors.ErrDaemonize, err)
	}

	logger.Debug().Int("pid", cmd.Process.Pid).Msg("Detached")

	return cmd.Process.Release()
}

// Command returns the command Detach runs.
func Command(exe string, args, env []string) *exec.Cmd {
	cmd := exec.Command(exe, args...)
	cmd.Env = append(append([]string{}, env...), EnvDetached+"=1")
	cmd.Dir = "/"
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	return cmd
}
