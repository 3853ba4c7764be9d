package snapshot

import (
	"context"

	"github.com/troglobit/temp/internal/sensor"
)

// Collector persists the current state of every sensor.
type Collector interface {
	Write(ctx context.Context, reg *sensor.Registry) error
	Enabled() bool
	Close() error
}

// Record is one element of the snapshot array.
type Record struct {
	Name        string   `json:"name"`
	File        string   `json:"file"`
	Critical    string   `json:"critical,omitempty"`
	Temperature []string `json:"temperature"`
	Interval    int64    `json:"interval"`
}
