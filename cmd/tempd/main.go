package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/troglobit/temp/internal/config"
	"github.com/troglobit/temp/internal/daemon"
	"github.com/troglobit/temp/internal/errors"
	"github.com/troglobit/temp/internal/logger"
	"github.com/troglobit/temp/internal/monitor"
	"github.com/troglobit/temp/internal/pid"
	"github.com/troglobit/temp/internal/sensor"
)

const ident = "tempd"

// logged marks errors already sent to the log.
type logged struct {
	error
}

func (e logged) Unwrap() error {
	return e.error
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		if _, ok := err.(logged); !ok {
			fmt.Fprintf(os.Stderr, "%s: %v\n", ident, err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   ident,
		Short: "Monitor hwmon and thermal zone temperature sensors",
		Example: "  tempd -n -t /sys/class/hwmon/hwmon1/temp1_input -l debug -i 100\n" +
			"  tempd -q -f /run/tempd.json",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		_ = c.Usage()
		return err
	})
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	// Startup errors go to the terminal, syslog takes over once the
	// registry is populated.
	opts := logger.Options{
		Level:   cfg.GetLogLevel(),
		Service: logger.IsService(),
		Ident:   ident,
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
	}
	if err := logger.Init(opts); err != nil {
		return err
	}
	logger.Debug().Str("sysfs", cfg.GetSysfs()).Msg("Config loaded")

	reg := sensor.NewRegistry()
	classifier := sensor.NewClassifier(afero.NewOsFs(), cfg.GetSysfs(),
		sensor.WithThresholds(cfg.GetThresholds()...))
	if err := classifier.Populate(reg, cfg.GetSensors()); err != nil {
		return report(err)
	}

	if cfg.UseSyslog() {
		opts.Syslog = true
		if err := logger.Init(opts); err != nil {
			return err
		}
	}

	if !cfg.IsForeground() && !daemon.IsDetached() {
		if err := daemon.Detach(); err != nil {
			return report(err)
		}
		return nil
	}

	if path := cfg.GetPidFile(); path != "" {
		lock, err := pid.Acquire(path)
		if err != nil {
			return report(err)
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn().Err(err).Str("path", lock.Path()).Msg("Failed removing PID file")
			}
		}()
	}

	m, err := monitor.New(cfg.Monitor(), reg, monitor.WithNotifier(daemon.Systemd{}))
	if err != nil {
		return report(err)
	}
	if err := m.Run(cmd.Context()); err != nil {
		return report(err)
	}

	logger.Info().Str("state", m.State().String()).Msg("Exiting ...")

	return nil
}

// report logs err once the logger is up. Errors only sent to syslog are
// also printed on stderr by main.
func report(err error) error {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Send()
	} else {
		logger.Error().Err(err).Send()
	}
	if logger.ToSyslog() {
		return err
	}

	return logged{err}
}
