package daemon

import (
	sd "github.com/coreos/go-systemd/v22/daemon"

	"github.com/troglobit/temp/internal/logger"
)

// Systemd reports lifecycle changes over $NOTIFY_SOCKET. It does
// nothing when not started by systemd.
type Systemd struct{}

func (Systemd) Ready() error {
	return notify(sd.SdNotifyReady)
}

func (Systemd) Stopping() error {
	return notify(sd.SdNotifyStopping)
}

func notify(state string) error {
	sent, err := sd.SdNotify(false, state)
	if err != nil {
		return err
	}
	if sent {
		logger.Debug().Str("state", state).Msg("Notified service manager")
	}

	return nil
}
