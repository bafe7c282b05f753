package aio

// binding is the resolved call surface of the vendor library. Device and
// the channel handles are written against this interface so they can be
// exercised without the hardware or the vendor binary; the real
// implementation lives in library.go with per-platform loaders.
type binding interface {
	initialize() error
	shutdown() error
	isConnected() (bool, error)

	productID() (ProductID, error)
	serialNumber() (string, error)
	firmwareVersion() (major, minor int, err error)

	inputChannelCount() (int, error)
	outputChannelCount() (int, error)
	inputModuleType(slot int) (ModuleType, error)

	inputGain(channel int) (int, error)
	setInputGain(channel, gain int) error
	inputGainRange(channel int) (min, max int, err error)

	outputGain(channel int) (int, error)
	setOutputGain(channel, gain int) error
	outputGainRange(channel int) (min, max int, err error)

	constantCurrent(channel int) (bool, error)
	setConstantCurrent(channel int, enabled bool) error

	tedsPresent(channel int) (bool, error)
	readTEDS(channel int, buf []byte) (int, error)

	unload() error
}
