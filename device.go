package aio

import (
	"fmt"
	"sync"
)

// Device represents an open session with an Echo AIO unit.
//
// The vendor library documents no thread-safety guarantees, so every call
// made through a Device is serialized behind one lock. The lifecycle is
// strictly load, initialize, call, shutdown, unload; Close performs the
// last two steps and is safe to call more than once.
type Device struct {
	mu     sync.Mutex
	lib    binding
	closed bool

	product ProductID
	serial  string
	fwMajor int
	fwMinor int

	inputs  []*InputChannel
	outputs []*OutputChannel
}

// Open loads the vendor shared library from its default location,
// initializes it and queries the unit's identity and channel layout.
func Open() (*Device, error) {
	return OpenPath("")
}

// OpenPath is like Open but loads the vendor shared library from the
// given path instead of the system search path.
func OpenPath(path string) (*Device, error) {
	lib, err := loadBinding(path)
	if err != nil {
		return nil, err
	}

	return open(lib)
}

// open initializes the loaded library and builds the device handle.
func open(lib binding) (*Device, error) {
	if err := lib.initialize(); err != nil {
		_ = lib.unload()

		return nil, fmt.Errorf("AIO_initialize failed: %w", err)
	}

	dev := &Device{lib: lib}
	if err := dev.describe(); err != nil {
		_ = dev.Close()

		return nil, err
	}

	return dev, nil
}

// describe queries the unit identity and enumerates its channels.
func (d *Device) describe() error {
	var err error

	d.product, err = d.lib.productID()
	if err != nil {
		return fmt.Errorf("AIO_getProductID failed: %w", err)
	}

	d.serial, err = d.lib.serialNumber()
	if err != nil {
		return fmt.Errorf("AIO_getSerialNumber failed: %w", err)
	}

	d.fwMajor, d.fwMinor, err = d.lib.firmwareVersion()
	if err != nil {
		return fmt.Errorf("AIO_getFirmwareVersion failed: %w", err)
	}

	numInputs, err := d.lib.inputChannelCount()
	if err != nil {
		return fmt.Errorf("AIO_getInputChannelCount failed: %w", err)
	}

	numOutputs, err := d.lib.outputChannelCount()
	if err != nil {
		return fmt.Errorf("AIO_getOutputChannelCount failed: %w", err)
	}

	d.inputs = make([]*InputChannel, 0, numInputs)
	for i := 0; i < numInputs; i++ {
		module, err := d.lib.inputModuleType(i / channelsPerSlot)
		if err != nil {
			return fmt.Errorf("AIO_getInputModuleType failed for slot %d: %w", i/channelsPerSlot, err)
		}

		gainMin, gainMax, err := d.lib.inputGainRange(i)
		if err != nil {
			return fmt.Errorf("AIO_getInputGainRange failed for channel %d: %w", i, err)
		}

		d.inputs = append(d.inputs, &InputChannel{
			dev:     d,
			index:   i,
			module:  module,
			gainMin: gainMin,
			gainMax: gainMax,
		})
	}

	d.outputs = make([]*OutputChannel, 0, numOutputs)
	for i := 0; i < numOutputs; i++ {
		gainMin, gainMax, err := d.lib.outputGainRange(i)
		if err != nil {
			return fmt.Errorf("AIO_getOutputGainRange failed for channel %d: %w", i, err)
		}

		d.outputs = append(d.outputs, &OutputChannel{
			dev:     d,
			index:   i,
			gainMin: gainMin,
			gainMax: gainMax,
		})
	}

	return nil
}

// Close shuts the vendor library down and unloads it. It is safe to call
// on a nil device and after a previous Close.
func (d *Device) Close() error {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.lib == nil {
		return nil
	}

	d.closed = true

	var firstErr error
	if err := d.lib.shutdown(); err != nil {
		firstErr = fmt.Errorf("AIO_shutdown failed: %w", err)
	}

	if err := d.lib.unload(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to unload library: %w", err)
	}

	d.lib = nil

	return firstErr
}

// call runs f against the library while holding the device lock.
func (d *Device) call(f func(binding) error) error {
	if d == nil {
		return fmt.Errorf("device is nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || d.lib == nil {
		return AIO_ERROR_NOT_INITIALIZED
	}

	return f(d.lib)
}

// Connected reports whether the AIO hardware is currently attached.
func (d *Device) Connected() (bool, error) {
	var connected bool

	err := d.call(func(lib binding) error {
		var cerr error
		connected, cerr = lib.isConnected()

		return cerr
	})
	if err != nil {
		return false, fmt.Errorf("AIO_isAIOConnected failed: %w", err)
	}

	return connected, nil
}

// Product returns the unit model reported by the library.
func (d *Device) Product() ProductID {
	if d == nil {
		return AIO_PRODUCT_UNKNOWN
	}

	return d.product
}

// SerialNumber returns the unit serial number reported by the library.
func (d *Device) SerialNumber() string {
	if d == nil {
		return ""
	}

	return d.serial
}

// FirmwareVersion returns the unit firmware version as "major.minor".
func (d *Device) FirmwareVersion() string {
	if d == nil {
		return ""
	}

	return fmt.Sprintf("%d.%d", d.fwMajor, d.fwMinor)
}

// NumInputs returns the number of input channels on the unit.
func (d *Device) NumInputs() int {
	if d == nil {
		return 0
	}

	return len(d.inputs)
}

// NumOutputs returns the number of output channels on the unit.
func (d *Device) NumOutputs() int {
	if d == nil {
		return 0
	}

	return len(d.outputs)
}

// Input returns the input channel handle for a 0-based channel index.
func (d *Device) Input(channel int) (*InputChannel, error) {
	if d == nil {
		return nil, fmt.Errorf("device is nil")
	}

	if channel < 0 || channel >= len(d.inputs) {
		return nil, fmt.Errorf("input channel %d out of bounds (number of inputs: %d): %w",
			channel, len(d.inputs), AIO_ERROR_INVALID_CHANNEL)
	}

	return d.inputs[channel], nil
}

// Output returns the output channel handle for a 0-based channel index.
func (d *Device) Output(channel int) (*OutputChannel, error) {
	if d == nil {
		return nil, fmt.Errorf("device is nil")
	}

	if channel < 0 || channel >= len(d.outputs) {
		return nil, fmt.Errorf("output channel %d out of bounds (number of outputs: %d): %w",
			channel, len(d.outputs), AIO_ERROR_INVALID_CHANNEL)
	}

	return d.outputs[channel], nil
}

// Inputs returns all input channel handles in channel order.
func (d *Device) Inputs() []*InputChannel {
	if d == nil {
		return nil
	}

	return d.inputs
}

// Outputs returns all output channel handles in channel order.
func (d *Device) Outputs() []*OutputChannel {
	if d == nil {
		return nil
	}

	return d.outputs
}
