package aio

import "fmt"

// OutputChannel is the control handle for a single output channel.
type OutputChannel struct {
	dev     *Device
	index   int
	gainMin int
	gainMax int
}

// Index returns the 0-based channel index.
func (c *OutputChannel) Index() int {
	if c == nil {
		return -1
	}

	return c.index
}

// GainRange returns the minimum and maximum gain accepted by the channel,
// in device steps, as reported by the library at open time.
func (c *OutputChannel) GainRange() (min, max int) {
	if c == nil {
		return 0, 0
	}

	return c.gainMin, c.gainMax
}

// Gain returns the current output gain in device steps.
func (c *OutputChannel) Gain() (int, error) {
	if c == nil {
		return 0, fmt.Errorf("output channel is nil")
	}

	var gain int
	err := c.dev.call(func(lib binding) error {
		var gerr error
		gain, gerr = lib.outputGain(c.index)

		return gerr
	})
	if err != nil {
		return 0, fmt.Errorf("AIO_getOutputGain failed for channel %d: %w", c.index, err)
	}

	return gain, nil
}

// SetGain sets the output gain in device steps. The value must fall within
// GainRange.
func (c *OutputChannel) SetGain(gain int) error {
	if c == nil {
		return fmt.Errorf("output channel is nil")
	}

	if gain < c.gainMin || gain > c.gainMax {
		return fmt.Errorf("gain %d out of range [%d, %d] for output channel %d: %w",
			gain, c.gainMin, c.gainMax, c.index, AIO_ERROR_INVALID_VALUE)
	}

	err := c.dev.call(func(lib binding) error {
		return lib.setOutputGain(c.index, gain)
	})
	if err != nil {
		return fmt.Errorf("AIO_setOutputGain failed for channel %d: %w", c.index, err)
	}

	return nil
}

// GainPercent returns the current gain mapped onto 0-100 over GainRange.
func (c *OutputChannel) GainPercent() (int, error) {
	gain, err := c.Gain()
	if err != nil {
		return 0, err
	}

	return valueToPercent(gain, c.gainMin, c.gainMax), nil
}

// SetGainPercent sets the gain from a 0-100 percentage of GainRange.
func (c *OutputChannel) SetGainPercent(percent int) error {
	if c == nil {
		return fmt.Errorf("output channel is nil")
	}

	if percent < 0 || percent > 100 {
		return fmt.Errorf("percentage %d out of range [0, 100]: %w", percent, AIO_ERROR_INVALID_VALUE)
	}

	return c.SetGain(percentToValue(percent, c.gainMin, c.gainMax))
}
