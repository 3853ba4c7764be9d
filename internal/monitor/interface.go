package monitor

// State is the lifecycle phase of a Monitor.
type State int

const (
	StateConfiguring State = iota
	StateRunning
	StateShuttingDown
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateTerminated:
		return "terminated"
	}

	return "unknown"
}

// Notifier tells a service manager about lifecycle changes.
type Notifier interface {
	Ready() error
	Stopping() error
}

type noopNotifier struct{}

func (noopNotifier) Ready() error    { return nil }
func (noopNotifier) Stopping() error { return nil }
