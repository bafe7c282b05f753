package aio

import "fmt"

// InputChannel is the control handle for a single input channel.
// Channel handles stay valid for the lifetime of the Device that
// produced them.
type InputChannel struct {
	dev     *Device
	index   int
	module  ModuleType
	gainMin int
	gainMax int
}

// Index returns the 0-based channel index.
func (c *InputChannel) Index() int {
	if c == nil {
		return -1
	}

	return c.index
}

// Module returns the type of the module the channel belongs to.
func (c *InputChannel) Module() ModuleType {
	if c == nil {
		return AIO_MODULE_NONE
	}

	return c.module
}

// GainRange returns the minimum and maximum gain accepted by the channel,
// in device steps, as reported by the library at open time.
func (c *InputChannel) GainRange() (min, max int) {
	if c == nil {
		return 0, 0
	}

	return c.gainMin, c.gainMax
}

// Gain returns the current input gain in device steps.
func (c *InputChannel) Gain() (int, error) {
	if c == nil {
		return 0, fmt.Errorf("input channel is nil")
	}

	var gain int
	err := c.dev.call(func(lib binding) error {
		var gerr error
		gain, gerr = lib.inputGain(c.index)

		return gerr
	})
	if err != nil {
		return 0, fmt.Errorf("AIO_getInputGain failed for channel %d: %w", c.index, err)
	}

	return gain, nil
}

// SetGain sets the input gain in device steps. The value must fall within
// GainRange.
func (c *InputChannel) SetGain(gain int) error {
	if c == nil {
		return fmt.Errorf("input channel is nil")
	}

	if gain < c.gainMin || gain > c.gainMax {
		return fmt.Errorf("gain %d out of range [%d, %d] for input channel %d: %w",
			gain, c.gainMin, c.gainMax, c.index, AIO_ERROR_INVALID_VALUE)
	}

	err := c.dev.call(func(lib binding) error {
		return lib.setInputGain(c.index, gain)
	})
	if err != nil {
		return fmt.Errorf("AIO_setInputGain failed for channel %d: %w", c.index, err)
	}

	return nil
}

// GainPercent returns the current gain mapped onto 0-100 over GainRange.
func (c *InputChannel) GainPercent() (int, error) {
	gain, err := c.Gain()
	if err != nil {
		return 0, err
	}

	return valueToPercent(gain, c.gainMin, c.gainMax), nil
}

// SetGainPercent sets the gain from a 0-100 percentage of GainRange.
func (c *InputChannel) SetGainPercent(percent int) error {
	if c == nil {
		return fmt.Errorf("input channel is nil")
	}

	if percent < 0 || percent > 100 {
		return fmt.Errorf("percentage %d out of range [0, 100]: %w", percent, AIO_ERROR_INVALID_VALUE)
	}

	return c.SetGain(percentToValue(percent, c.gainMin, c.gainMax))
}

// ConstantCurrent reports whether constant-current power is enabled on the
// channel.
func (c *InputChannel) ConstantCurrent() (bool, error) {
	if c == nil {
		return false, fmt.Errorf("input channel is nil")
	}

	if !c.module.SupportsConstantCurrent() {
		return false, fmt.Errorf("input channel %d (%s) has no constant-current power: %w",
			c.index, c.module, AIO_ERROR_NOT_SUPPORTED)
	}

	var enabled bool
	err := c.dev.call(func(lib binding) error {
		var cerr error
		enabled, cerr = lib.constantCurrent(c.index)

		return cerr
	})
	if err != nil {
		return false, fmt.Errorf("AIO_getConstantCurrentState failed for channel %d: %w", c.index, err)
	}

	return enabled, nil
}

// SetConstantCurrent enables or disables constant-current power on the
// channel.
func (c *InputChannel) SetConstantCurrent(enabled bool) error {
	if c == nil {
		return fmt.Errorf("input channel is nil")
	}

	if !c.module.SupportsConstantCurrent() {
		return fmt.Errorf("input channel %d (%s) has no constant-current power: %w",
			c.index, c.module, AIO_ERROR_NOT_SUPPORTED)
	}

	err := c.dev.call(func(lib binding) error {
		return lib.setConstantCurrent(c.index, enabled)
	})
	if err != nil {
		return fmt.Errorf("AIO_setConstantCurrentState failed for channel %d: %w", c.index, err)
	}

	return nil
}

// TEDSPresent reports whether a TEDS transducer is attached to the channel.
func (c *InputChannel) TEDSPresent() (bool, error) {
	if c == nil {
		return false, fmt.Errorf("input channel is nil")
	}

	if !c.module.SupportsTEDS() {
		return false, nil
	}

	var present bool
	err := c.dev.call(func(lib binding) error {
		var perr error
		present, perr = lib.tedsPresent(c.index)

		return perr
	})
	if err != nil {
		return false, fmt.Errorf("AIO_isTEDSPresent failed for channel %d: %w", c.index, err)
	}

	return present, nil
}

// maxTEDSSize is the largest TEDS block the hardware returns.
const maxTEDSSize = 128

// ReadTEDSData returns the raw TEDS block read from the transducer on the
// channel.
func (c *InputChannel) ReadTEDSData() ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("input channel is nil")
	}

	if !c.module.SupportsTEDS() {
		return nil, fmt.Errorf("input channel %d (%s) cannot read TEDS: %w",
			c.index, c.module, AIO_ERROR_NOT_SUPPORTED)
	}

	buf := make([]byte, maxTEDSSize)

	var read int
	err := c.dev.call(func(lib binding) error {
		var rerr error
		read, rerr = lib.readTEDS(c.index, buf)

		return rerr
	})
	if err != nil {
		return nil, fmt.Errorf("AIO_readTEDSData failed for channel %d: %w", c.index, err)
	}

	return buf[:read], nil
}

// TEDS reads and parses the basic TEDS block of the transducer on the
// channel.
func (c *InputChannel) TEDS() (*TEDSInfo, error) {
	data, err := c.ReadTEDSData()
	if err != nil {
		return nil, err
	}

	return ParseBasicTEDS(data)
}

// valueToPercent maps a value within [min, max] onto 0-100.
func valueToPercent(value, min, max int) int {
	if max <= min {
		return 0
	}

	return 100 * (value - min) / (max - min)
}

// percentToValue maps a 0-100 percentage onto [min, max].
func percentToValue(percent, min, max int) int {
	return min + (max-min)*percent/100
}
