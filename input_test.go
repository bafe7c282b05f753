package aio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputGain(t *testing.T) {
	dev, _ := openFake(t)

	in, err := dev.Input(0)
	require.NoError(t, err)

	gain, err := in.Gain()
	require.NoError(t, err)
	assert.Equal(t, 0, gain)

	require.NoError(t, in.SetGain(30))

	gain, err = in.Gain()
	require.NoError(t, err)
	assert.Equal(t, 30, gain)

	err = in.SetGain(71)
	assert.ErrorIs(t, err, AIO_ERROR_INVALID_VALUE)

	err = in.SetGain(-1)
	assert.ErrorIs(t, err, AIO_ERROR_INVALID_VALUE)
}

func TestInputGainPercent(t *testing.T) {
	dev, _ := openFake(t)

	in, err := dev.Input(0)
	require.NoError(t, err)

	// Range is 0-70, so 50% lands on 35.
	require.NoError(t, in.SetGainPercent(50))

	gain, err := in.Gain()
	require.NoError(t, err)
	assert.Equal(t, 35, gain)

	pct, err := in.GainPercent()
	require.NoError(t, err)
	assert.Equal(t, 50, pct)

	require.NoError(t, in.SetGainPercent(0))
	require.NoError(t, in.SetGainPercent(100))

	gain, err = in.Gain()
	require.NoError(t, err)
	assert.Equal(t, 70, gain)

	err = in.SetGainPercent(101)
	assert.ErrorIs(t, err, AIO_ERROR_INVALID_VALUE)

	err = in.SetGainPercent(-1)
	assert.ErrorIs(t, err, AIO_ERROR_INVALID_VALUE)
}

func TestConstantCurrent(t *testing.T) {
	dev, _ := openFake(t)

	mic, err := dev.Input(0)
	require.NoError(t, err)

	enabled, err := mic.ConstantCurrent()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, mic.SetConstantCurrent(true))

	enabled, err = mic.ConstantCurrent()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, mic.SetConstantCurrent(false))

	enabled, err = mic.ConstantCurrent()
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestConstantCurrentUnsupported(t *testing.T) {
	dev, _ := openFake(t)

	// Channel 2 sits on a line module without constant-current power.
	line, err := dev.Input(2)
	require.NoError(t, err)

	_, err = line.ConstantCurrent()
	assert.ErrorIs(t, err, AIO_ERROR_NOT_SUPPORTED)

	err = line.SetConstantCurrent(true)
	assert.ErrorIs(t, err, AIO_ERROR_NOT_SUPPORTED)
}

func TestInputTEDS(t *testing.T) {
	dev, _ := openFake(t)

	mic, err := dev.Input(0)
	require.NoError(t, err)

	present, err := mic.TEDSPresent()
	require.NoError(t, err)
	assert.True(t, present)

	data, err := mic.ReadTEDSData()
	require.NoError(t, err)
	assert.Len(t, data, BasicTEDSSize)

	info, err := mic.TEDS()
	require.NoError(t, err)
	assert.Equal(t, uint16(17), info.ManufacturerID)
	assert.Equal(t, uint16(1234), info.ModelNumber)
	assert.Equal(t, byte('A'), info.VersionLetter)
	assert.Equal(t, uint8(2), info.VersionNumber)
	assert.Equal(t, uint32(56789), info.SerialNumber)
}

func TestInputTEDSAbsent(t *testing.T) {
	dev, _ := openFake(t)

	// Channel 1 is a TEDS-capable mic input with nothing attached.
	mic, err := dev.Input(1)
	require.NoError(t, err)

	present, err := mic.TEDSPresent()
	require.NoError(t, err)
	assert.False(t, present)

	_, err = mic.ReadTEDSData()
	assert.ErrorIs(t, err, AIO_ERROR_TEDS_NOT_PRESENT)
}

func TestInputTEDSUnsupportedModule(t *testing.T) {
	dev, _ := openFake(t)

	line, err := dev.Input(2)
	require.NoError(t, err)

	present, err := line.TEDSPresent()
	require.NoError(t, err)
	assert.False(t, present)

	_, err = line.ReadTEDSData()
	assert.ErrorIs(t, err, AIO_ERROR_NOT_SUPPORTED)
}

func TestOutputGain(t *testing.T) {
	dev, _ := openFake(t)

	out, err := dev.Output(0)
	require.NoError(t, err)

	gain, err := out.Gain()
	require.NoError(t, err)
	assert.Equal(t, -20, gain)

	require.NoError(t, out.SetGain(-6))

	gain, err = out.Gain()
	require.NoError(t, err)
	assert.Equal(t, -6, gain)

	err = out.SetGain(1)
	assert.ErrorIs(t, err, AIO_ERROR_INVALID_VALUE)

	err = out.SetGain(-96)
	assert.ErrorIs(t, err, AIO_ERROR_INVALID_VALUE)

	// Range is -95..0, so 100% is full scale and 0% is the floor.
	require.NoError(t, out.SetGainPercent(100))

	gain, err = out.Gain()
	require.NoError(t, err)
	assert.Equal(t, 0, gain)
}
