package aio

import "fmt"

// BasicTEDSSize is the size of an IEEE 1451.4 basic TEDS block in bytes.
const BasicTEDSSize = 8

// TEDSInfo holds the fields of an IEEE 1451.4 basic TEDS block as read
// from a transducer attached to an input channel.
type TEDSInfo struct {
	ManufacturerID uint16 // 14-bit manufacturer identifier.
	ModelNumber    uint16 // 15-bit model number.
	VersionLetter  byte   // 'A'..'Z'.
	VersionNumber  uint8  // 6-bit version number.
	SerialNumber   uint32 // 24-bit serial number.
}

// String returns a human-readable summary of the TEDS block.
func (t *TEDSInfo) String() string {
	if t == nil {
		return ""
	}

	return fmt.Sprintf("manufacturer %d, model %d, version %c.%d, serial %d",
		t.ManufacturerID, t.ModelNumber, t.VersionLetter, t.VersionNumber, t.SerialNumber)
}

// ParseBasicTEDS decodes the basic TEDS block at the start of data.
// The block is a 64-bit LSB-first bit stream: manufacturer ID (14 bits),
// model number (15 bits), version letter (5 bits), version number
// (6 bits) and serial number (24 bits).
func ParseBasicTEDS(data []byte) (*TEDSInfo, error) {
	if len(data) < BasicTEDSSize {
		return nil, fmt.Errorf("basic TEDS block is %d bytes, want at least %d", len(data), BasicTEDSSize)
	}

	blank := true
	for _, b := range data[:BasicTEDSSize] {
		if b != 0x00 && b != 0xFF {
			blank = false

			break
		}
	}

	if blank {
		return nil, fmt.Errorf("basic TEDS block holds no transducer data")
	}

	r := tedsReader{data: data}

	info := &TEDSInfo{
		ManufacturerID: uint16(r.take(14)),
		ModelNumber:    uint16(r.take(15)),
	}

	letter := r.take(5)
	if letter >= 26 {
		return nil, fmt.Errorf("invalid TEDS version letter code %d", letter)
	}

	info.VersionLetter = byte('A' + letter)
	info.VersionNumber = uint8(r.take(6))
	info.SerialNumber = r.take(24)

	return info, nil
}

// tedsReader walks a byte slice as an LSB-first bit stream.
type tedsReader struct {
	data []byte
	bit  uint
}

// take reads the next n bits, least significant first.
func (r *tedsReader) take(n uint) uint32 {
	var v uint32

	for i := uint(0); i < n; i++ {
		byteIdx := r.bit >> 3
		if byteIdx >= uint(len(r.data)) {
			break
		}

		if (r.data[byteIdx]>>(r.bit&7))&1 != 0 {
			v |= 1 << i
		}

		r.bit++
	}

	return v
}
