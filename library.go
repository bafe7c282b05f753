package aio

import (
	"bytes"
	"fmt"
	"os"
	"unsafe"
)

// AIOLibraryPathEnv is the environment variable checked for an explicit
// path to the vendor shared library.
const AIOLibraryPathEnv = "AIO_LIBRARY_PATH"

// Names of the C functions exported by the vendor library.
const (
	procInitialize              = "AIO_initialize"
	procShutdown                = "AIO_shutdown"
	procIsConnected             = "AIO_isAIOConnected"
	procGetProductID            = "AIO_getProductID"
	procGetSerialNumber         = "AIO_getSerialNumber"
	procGetFirmwareVersion      = "AIO_getFirmwareVersion"
	procGetInputChannelCount    = "AIO_getInputChannelCount"
	procGetOutputChannelCount   = "AIO_getOutputChannelCount"
	procGetInputModuleType      = "AIO_getInputModuleType"
	procGetInputGain            = "AIO_getInputGain"
	procSetInputGain            = "AIO_setInputGain"
	procGetInputGainRange       = "AIO_getInputGainRange"
	procGetOutputGain           = "AIO_getOutputGain"
	procSetOutputGain           = "AIO_setOutputGain"
	procGetOutputGainRange      = "AIO_getOutputGainRange"
	procGetConstantCurrentState = "AIO_getConstantCurrentState"
	procSetConstantCurrentState = "AIO_setConstantCurrentState"
	procIsTEDSPresent           = "AIO_isTEDSPresent"
	procReadTEDSData            = "AIO_readTEDSData"
)

// exportNames lists every export resolved at load time. A missing export
// fails the load so partial bindings never reach callers.
var exportNames = []string{
	procInitialize,
	procShutdown,
	procIsConnected,
	procGetProductID,
	procGetSerialNumber,
	procGetFirmwareVersion,
	procGetInputChannelCount,
	procGetOutputChannelCount,
	procGetInputModuleType,
	procGetInputGain,
	procSetInputGain,
	procGetInputGainRange,
	procGetOutputGain,
	procSetOutputGain,
	procGetOutputGainRange,
	procGetConstantCurrentState,
	procSetConstantCurrentState,
	procIsTEDSPresent,
	procReadTEDSData,
}

// libraryPath resolves which shared library file to load: an explicit path
// wins, then AIO_LIBRARY_PATH, then the platform default name which is
// looked up through the system search path.
func libraryPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	if env := os.Getenv(AIOLibraryPathEnv); env != "" {
		return env
	}

	return defaultLibraryName()
}

// library implements binding over a loaded copy of the vendor shared
// library. The platform loaders in library_windows.go and library_unix.go
// supply the raw call and unload functions; everything above that line is
// shared.
type library struct {
	// rawCall invokes the named export with the given arguments and maps
	// its return code through statusErr.
	rawCall func(name string, args ...uintptr) error

	// rawClose unloads the shared library.
	rawClose func() error
}

func (l *library) initialize() error {
	return l.rawCall(procInitialize)
}

func (l *library) shutdown() error {
	return l.rawCall(procShutdown)
}

func (l *library) isConnected() (bool, error) {
	var state int32
	if err := l.rawCall(procIsConnected, uintptr(unsafe.Pointer(&state))); err != nil {
		return false, err
	}

	return state != 0, nil
}

func (l *library) productID() (ProductID, error) {
	var id int32
	if err := l.rawCall(procGetProductID, uintptr(unsafe.Pointer(&id))); err != nil {
		return AIO_PRODUCT_UNKNOWN, err
	}

	return ProductID(id), nil
}

func (l *library) serialNumber() (string, error) {
	var buf [64]byte
	if err := l.rawCall(procGetSerialNumber,
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf))); err != nil {
		return "", err
	}

	return cString(buf[:]), nil
}

func (l *library) firmwareVersion() (int, int, error) {
	var major, minor int32
	if err := l.rawCall(procGetFirmwareVersion,
		uintptr(unsafe.Pointer(&major)), uintptr(unsafe.Pointer(&minor))); err != nil {
		return 0, 0, err
	}

	return int(major), int(minor), nil
}

func (l *library) inputChannelCount() (int, error) {
	var count int32
	if err := l.rawCall(procGetInputChannelCount, uintptr(unsafe.Pointer(&count))); err != nil {
		return 0, err
	}

	return int(count), nil
}

func (l *library) outputChannelCount() (int, error) {
	var count int32
	if err := l.rawCall(procGetOutputChannelCount, uintptr(unsafe.Pointer(&count))); err != nil {
		return 0, err
	}

	return int(count), nil
}

func (l *library) inputModuleType(slot int) (ModuleType, error) {
	var typ int32
	if err := l.rawCall(procGetInputModuleType,
		uintptr(slot), uintptr(unsafe.Pointer(&typ))); err != nil {
		return AIO_MODULE_NONE, err
	}

	return ModuleType(typ), nil
}

func (l *library) inputGain(channel int) (int, error) {
	var gain int32
	if err := l.rawCall(procGetInputGain,
		uintptr(channel), uintptr(unsafe.Pointer(&gain))); err != nil {
		return 0, err
	}

	return int(gain), nil
}

func (l *library) setInputGain(channel, gain int) error {
	return l.rawCall(procSetInputGain, uintptr(channel), uintptr(int32(gain)))
}

func (l *library) inputGainRange(channel int) (int, int, error) {
	var min, max int32
	if err := l.rawCall(procGetInputGainRange, uintptr(channel),
		uintptr(unsafe.Pointer(&min)), uintptr(unsafe.Pointer(&max))); err != nil {
		return 0, 0, err
	}

	return int(min), int(max), nil
}

func (l *library) outputGain(channel int) (int, error) {
	var gain int32
	if err := l.rawCall(procGetOutputGain,
		uintptr(channel), uintptr(unsafe.Pointer(&gain))); err != nil {
		return 0, err
	}

	return int(gain), nil
}

func (l *library) setOutputGain(channel, gain int) error {
	return l.rawCall(procSetOutputGain, uintptr(channel), uintptr(int32(gain)))
}

func (l *library) outputGainRange(channel int) (int, int, error) {
	var min, max int32
	if err := l.rawCall(procGetOutputGainRange, uintptr(channel),
		uintptr(unsafe.Pointer(&min)), uintptr(unsafe.Pointer(&max))); err != nil {
		return 0, 0, err
	}

	return int(min), int(max), nil
}

func (l *library) constantCurrent(channel int) (bool, error) {
	var state int32
	if err := l.rawCall(procGetConstantCurrentState,
		uintptr(channel), uintptr(unsafe.Pointer(&state))); err != nil {
		return false, err
	}

	return state != 0, nil
}

func (l *library) setConstantCurrent(channel int, enabled bool) error {
	var state int32
	if enabled {
		state = 1
	}

	return l.rawCall(procSetConstantCurrentState, uintptr(channel), uintptr(state))
}

func (l *library) tedsPresent(channel int) (bool, error) {
	var present int32
	if err := l.rawCall(procIsTEDSPresent,
		uintptr(channel), uintptr(unsafe.Pointer(&present))); err != nil {
		return false, err
	}

	return present != 0, nil
}

func (l *library) readTEDS(channel int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, fmt.Errorf("TEDS buffer is empty")
	}

	var read int32
	if err := l.rawCall(procReadTEDSData, uintptr(channel),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)),
		uintptr(unsafe.Pointer(&read))); err != nil {
		return 0, err
	}

	return int(read), nil
}

func (l *library) unload() error {
	return l.rawClose()
}

// cString converts a C-style null-terminated byte array to a Go string.
func cString(b []byte) string {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return string(b)
	}

	return string(b[:i])
}
