package aio

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeBinding simulates the vendor library so the public API can be tested
// without the hardware or the vendor binary.
type fakeBinding struct {
	mu          sync.Mutex
	initialized bool
	connected   bool
	unloaded    bool

	initErr StatusCode // returned by initialize when nonzero
	callErr StatusCode // returned by every hardware call when nonzero

	product ProductID
	serial  string
	fwMajor int
	fwMinor int

	inputs  []fakeInput
	outputs []fakeOutput

	shutdownCalls int
}

type fakeInput struct {
	gain    int
	gainMin int
	gainMax int
	ccp     bool
	module  ModuleType
	teds    []byte
}

type fakeOutput struct {
	gain    int
	gainMin int
	gainMax int
}

// newFakeBinding builds a unit with two mic channels (module C, TEDS on
// channel 0), two line channels (module B) and two outputs.
func newFakeBinding() *fakeBinding {
	return &fakeBinding{
		connected: true,
		product:   AIO_PRODUCT_AIO,
		serial:    "AIO-0042317",
		fwMajor:   2,
		fwMinor:   14,
		inputs: []fakeInput{
			{gainMin: 0, gainMax: 70, module: AIO_MODULE_C, teds: encodeBasicTEDS(17, 1234, 'A', 2, 56789)},
			{gainMin: 0, gainMax: 70, module: AIO_MODULE_C},
			{gainMin: 0, gainMax: 40, module: AIO_MODULE_B},
			{gainMin: 0, gainMax: 40, module: AIO_MODULE_B},
		},
		outputs: []fakeOutput{
			{gain: -20, gainMin: -95, gainMax: 0},
			{gain: -20, gainMin: -95, gainMax: 0},
		},
	}
}

// openFake opens a Device over a fresh fake binding.
func openFake(t *testing.T) (*Device, *fakeBinding) {
	t.Helper()

	fake := newFakeBinding()

	dev, err := open(fake)
	require.NoError(t, err)

	t.Cleanup(func() { _ = dev.Close() })

	return dev, fake
}

// setConnected flips the simulated attachment state.
func (f *fakeBinding) setConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.connected = connected
}

// inputGainValue reads a channel gain under the lock, for assertions that
// race with a watcher goroutine.
func (f *fakeBinding) inputGainValue(channel int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.inputs[channel].gain
}

// up gates every hardware call on library and device state.
func (f *fakeBinding) up() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return AIO_ERROR_NOT_INITIALIZED
	}

	if f.callErr != AIO_SUCCESS {
		return f.callErr
	}

	if !f.connected {
		return AIO_ERROR_NOT_CONNECTED
	}

	return nil
}

func (f *fakeBinding) initialize() error {
	if f.initErr != AIO_SUCCESS {
		return f.initErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.initialized = true

	return nil
}

func (f *fakeBinding) shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.shutdownCalls++
	f.initialized = false

	return nil
}

func (f *fakeBinding) isConnected() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.initialized {
		return false, AIO_ERROR_NOT_INITIALIZED
	}

	return f.connected, nil
}

func (f *fakeBinding) productID() (ProductID, error) {
	if err := f.up(); err != nil {
		return AIO_PRODUCT_UNKNOWN, err
	}

	return f.product, nil
}

func (f *fakeBinding) serialNumber() (string, error) {
	if err := f.up(); err != nil {
		return "", err
	}

	return f.serial, nil
}

func (f *fakeBinding) firmwareVersion() (int, int, error) {
	if err := f.up(); err != nil {
		return 0, 0, err
	}

	return f.fwMajor, f.fwMinor, nil
}

func (f *fakeBinding) inputChannelCount() (int, error) {
	if err := f.up(); err != nil {
		return 0, err
	}

	return len(f.inputs), nil
}

func (f *fakeBinding) outputChannelCount() (int, error) {
	if err := f.up(); err != nil {
		return 0, err
	}

	return len(f.outputs), nil
}

func (f *fakeBinding) inputModuleType(slot int) (ModuleType, error) {
	if err := f.up(); err != nil {
		return AIO_MODULE_NONE, err
	}

	channel := slot * channelsPerSlot
	if channel < 0 || channel >= len(f.inputs) {
		return AIO_MODULE_NONE, AIO_ERROR_INVALID_CHANNEL
	}

	return f.inputs[channel].module, nil
}

func (f *fakeBinding) inputGain(channel int) (int, error) {
	if err := f.up(); err != nil {
		return 0, err
	}

	if channel < 0 || channel >= len(f.inputs) {
		return 0, AIO_ERROR_INVALID_CHANNEL
	}

	return f.inputs[channel].gain, nil
}

func (f *fakeBinding) setInputGain(channel, gain int) error {
	if err := f.up(); err != nil {
		return err
	}

	if channel < 0 || channel >= len(f.inputs) {
		return AIO_ERROR_INVALID_CHANNEL
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	in := &f.inputs[channel]
	if gain < in.gainMin || gain > in.gainMax {
		return AIO_ERROR_INVALID_VALUE
	}

	in.gain = gain

	return nil
}

func (f *fakeBinding) inputGainRange(channel int) (int, int, error) {
	if err := f.up(); err != nil {
		return 0, 0, err
	}

	if channel < 0 || channel >= len(f.inputs) {
		return 0, 0, AIO_ERROR_INVALID_CHANNEL
	}

	return f.inputs[channel].gainMin, f.inputs[channel].gainMax, nil
}

func (f *fakeBinding) outputGain(channel int) (int, error) {
	if err := f.up(); err != nil {
		return 0, err
	}

	if channel < 0 || channel >= len(f.outputs) {
		return 0, AIO_ERROR_INVALID_CHANNEL
	}

	return f.outputs[channel].gain, nil
}

func (f *fakeBinding) setOutputGain(channel, gain int) error {
	if err := f.up(); err != nil {
		return err
	}

	if channel < 0 || channel >= len(f.outputs) {
		return AIO_ERROR_INVALID_CHANNEL
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	out := &f.outputs[channel]
	if gain < out.gainMin || gain > out.gainMax {
		return AIO_ERROR_INVALID_VALUE
	}

	out.gain = gain

	return nil
}

func (f *fakeBinding) outputGainRange(channel int) (int, int, error) {
	if err := f.up(); err != nil {
		return 0, 0, err
	}

	if channel < 0 || channel >= len(f.outputs) {
		return 0, 0, AIO_ERROR_INVALID_CHANNEL
	}

	return f.outputs[channel].gainMin, f.outputs[channel].gainMax, nil
}

func (f *fakeBinding) constantCurrent(channel int) (bool, error) {
	if err := f.up(); err != nil {
		return false, err
	}

	if channel < 0 || channel >= len(f.inputs) {
		return false, AIO_ERROR_INVALID_CHANNEL
	}

	if !f.inputs[channel].module.SupportsConstantCurrent() {
		return false, AIO_ERROR_NOT_SUPPORTED
	}

	return f.inputs[channel].ccp, nil
}

func (f *fakeBinding) setConstantCurrent(channel int, enabled bool) error {
	if err := f.up(); err != nil {
		return err
	}

	if channel < 0 || channel >= len(f.inputs) {
		return AIO_ERROR_INVALID_CHANNEL
	}

	if !f.inputs[channel].module.SupportsConstantCurrent() {
		return AIO_ERROR_NOT_SUPPORTED
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.inputs[channel].ccp = enabled

	return nil
}

func (f *fakeBinding) tedsPresent(channel int) (bool, error) {
	if err := f.up(); err != nil {
		return false, err
	}

	if channel < 0 || channel >= len(f.inputs) {
		return false, AIO_ERROR_INVALID_CHANNEL
	}

	return len(f.inputs[channel].teds) > 0, nil
}

func (f *fakeBinding) readTEDS(channel int, buf []byte) (int, error) {
	if err := f.up(); err != nil {
		return 0, err
	}

	if channel < 0 || channel >= len(f.inputs) {
		return 0, AIO_ERROR_INVALID_CHANNEL
	}

	teds := f.inputs[channel].teds
	if len(teds) == 0 {
		return 0, AIO_ERROR_TEDS_NOT_PRESENT
	}

	if len(buf) < len(teds) {
		return 0, AIO_ERROR_BUFFER_TOO_SMALL
	}

	return copy(buf, teds), nil
}

func (f *fakeBinding) unload() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.unloaded = true

	return nil
}

// encodeBasicTEDS packs the basic TEDS fields into the LSB-first 64-bit
// layout that ParseBasicTEDS decodes.
func encodeBasicTEDS(manufacturer, model uint32, letter byte, version uint8, serial uint32) []byte {
	data := make([]byte, BasicTEDSSize)
	bit := uint(0)

	put := func(v uint32, n uint) {
		for i := uint(0); i < n; i++ {
			if (v>>i)&1 != 0 {
				data[bit>>3] |= 1 << (bit & 7)
			}

			bit++
		}
	}

	put(manufacturer, 14)
	put(model, 15)
	put(uint32(letter-'A'), 5)
	put(uint32(version), 6)
	put(serial, 24)

	return data
}
