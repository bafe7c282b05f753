package aio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicTEDS(t *testing.T) {
	tests := []struct {
		name         string
		manufacturer uint32
		model        uint32
		letter       byte
		version      uint8
		serial       uint32
	}{
		{"typical", 17, 1234, 'A', 2, 56789},
		{"max fields", 1<<14 - 1, 1<<15 - 1, 'Z', 1<<6 - 1, 1<<24 - 1},
		{"small fields", 1, 1, 'B', 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeBasicTEDS(tt.manufacturer, tt.model, tt.letter, tt.version, tt.serial)

			info, err := ParseBasicTEDS(data)
			require.NoError(t, err)

			assert.Equal(t, uint16(tt.manufacturer), info.ManufacturerID)
			assert.Equal(t, uint16(tt.model), info.ModelNumber)
			assert.Equal(t, tt.letter, info.VersionLetter)
			assert.Equal(t, tt.version, info.VersionNumber)
			assert.Equal(t, tt.serial, info.SerialNumber)
		})
	}
}

func TestParseBasicTEDSTrailingData(t *testing.T) {
	// Extended TEDS blocks carry more than the basic 8 bytes; the basic
	// fields must still parse from the front.
	data := encodeBasicTEDS(99, 512, 'C', 7, 424242)
	data = append(data, 0xAB, 0xCD, 0xEF)

	info, err := ParseBasicTEDS(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(99), info.ManufacturerID)
	assert.Equal(t, uint32(424242), info.SerialNumber)
}

func TestParseBasicTEDSShort(t *testing.T) {
	_, err := ParseBasicTEDS([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)

	_, err = ParseBasicTEDS(nil)
	assert.Error(t, err)
}

func TestParseBasicTEDSBlank(t *testing.T) {
	_, err := ParseBasicTEDS(make([]byte, BasicTEDSSize))
	assert.Error(t, err, "all-zero block should be rejected")

	ones := make([]byte, BasicTEDSSize)
	for i := range ones {
		ones[i] = 0xFF
	}

	_, err = ParseBasicTEDS(ones)
	assert.Error(t, err, "all-ones block should be rejected")
}

func TestParseBasicTEDSInvalidLetter(t *testing.T) {
	// Letter code 26 is past 'Z'.
	data := encodeBasicTEDS(17, 1234, 'A'+26, 2, 56789)

	_, err := ParseBasicTEDS(data)
	assert.Error(t, err)
}

func TestTEDSInfoString(t *testing.T) {
	info := &TEDSInfo{
		ManufacturerID: 17,
		ModelNumber:    1234,
		VersionLetter:  'A',
		VersionNumber:  2,
		SerialNumber:   56789,
	}

	assert.Equal(t, "manufacturer 17, model 1234, version A.2, serial 56789", info.String())

	var nilInfo *TEDSInfo
	assert.Equal(t, "", nilInfo.String())
}
