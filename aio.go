// Package aio provides a Go interface to the Echo AIO audio test interface,
// driving the vendor's EchoAIOInterface shared library.
//
// The vendor library is a pre-built binary (EchoAIOInterface.dll on Windows,
// libEchoAIOInterface.dylib on macOS, libEchoAIOInterface.so on Linux) that
// talks to the hardware over USB. This package loads it at runtime, resolves
// its exported C functions and wraps them in a typed API. Every export
// returns an integer status code where zero denotes success; nonzero codes
// surface as StatusCode errors.
package aio

// ProductID identifies the Echo AIO unit model.
// The values correspond to the AIO_PRODUCT_* constants in the vendor header.
type ProductID int32

const (
	AIO_PRODUCT_UNKNOWN ProductID = 0
	AIO_PRODUCT_AIO     ProductID = 1 // Full-size AIO test interface.
	AIO_PRODUCT_AIO_S   ProductID = 2 // Small-form AIO-S.
	AIO_PRODUCT_AIO_C   ProductID = 3 // AIO-C connectivity unit.
	AIO_PRODUCT_AIO_H   ProductID = 4 // High-channel-count AIO-H.
)

// ProductIDNames provides human-readable names for AIO unit models.
var ProductIDNames = map[ProductID]string{
	AIO_PRODUCT_UNKNOWN: "Unknown",
	AIO_PRODUCT_AIO:     "AIO",
	AIO_PRODUCT_AIO_S:   "AIO-S",
	AIO_PRODUCT_AIO_C:   "AIO-C",
	AIO_PRODUCT_AIO_H:   "AIO-H",
}

// String returns the human-readable name of the product.
func (p ProductID) String() string {
	if name, ok := ProductIDNames[p]; ok {
		return name
	}

	return "Unknown"
}

// ModuleType identifies the plug-in module fitted in an input slot.
// The values correspond to the AIO_MODULE_* constants in the vendor header.
// Each slot carries two channels.
type ModuleType int32

const (
	AIO_MODULE_NONE ModuleType = 0 // Slot is empty.
	AIO_MODULE_A    ModuleType = 1 // Analog mic input with constant-current power.
	AIO_MODULE_B    ModuleType = 2 // Balanced line input.
	AIO_MODULE_C    ModuleType = 3 // Mic input with constant-current power and TEDS.
	AIO_MODULE_D    ModuleType = 4 // Digital (AES/SPDIF) input.
	AIO_MODULE_T    ModuleType = 5 // TEDS mic input.
)

// ModuleTypeNames provides human-readable names for input module types.
var ModuleTypeNames = map[ModuleType]string{
	AIO_MODULE_NONE: "Empty",
	AIO_MODULE_A:    "Module A",
	AIO_MODULE_B:    "Module B",
	AIO_MODULE_C:    "Module C",
	AIO_MODULE_D:    "Module D",
	AIO_MODULE_T:    "Module T",
}

// String returns the human-readable name of the module type.
func (m ModuleType) String() string {
	if name, ok := ModuleTypeNames[m]; ok {
		return name
	}

	return "Unknown"
}

// SupportsConstantCurrent reports whether channels on this module can
// supply constant-current power to a transducer.
func (m ModuleType) SupportsConstantCurrent() bool {
	return m == AIO_MODULE_A || m == AIO_MODULE_C
}

// SupportsTEDS reports whether channels on this module can read a
// transducer electronic data sheet.
func (m ModuleType) SupportsTEDS() bool {
	return m == AIO_MODULE_C || m == AIO_MODULE_T
}

// channelsPerSlot is the number of input channels carried by one module slot.
const channelsPerSlot = 2
