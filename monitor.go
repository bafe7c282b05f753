package aio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ConnectionEvent reports a change in the attachment state of the AIO unit.
type ConnectionEvent struct {
	Connected bool
	At        time.Time
}

// Monitor polls the unit's attachment state and reports transitions.
// The vendor library exposes no waitable handle, so the state is sampled
// on a fixed interval.
type Monitor struct {
	dev      *Device
	interval time.Duration
}

// defaultMonitorInterval is used when no polling interval is given.
const defaultMonitorInterval = time.Second

// NewMonitor creates a monitor polling dev every interval.
// A non-positive interval selects the default of one second.
func NewMonitor(dev *Device, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = defaultMonitorInterval
	}

	return &Monitor{dev: dev, interval: interval}
}

// Run polls until ctx is canceled, sending the initial state and every
// transition to events. A communication failure counts as disconnected;
// a closed device ends the run with an error.
func (m *Monitor) Run(ctx context.Context, events chan<- ConnectionEvent) error {
	if m == nil || m.dev == nil {
		return fmt.Errorf("monitor has no device")
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	var last, have bool

	for {
		connected, err := m.dev.Connected()
		if err != nil {
			if errors.Is(err, AIO_ERROR_NOT_INITIALIZED) {
				return err
			}

			connected = false
		}

		if !have || connected != last {
			have, last = true, connected

			select {
			case events <- ConnectionEvent{Connected: connected, At: time.Now()}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
