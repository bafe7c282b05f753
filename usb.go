package aio

import "github.com/gotmc/libusb"

// USB identifiers of the Echo AIO family.
const (
	IDVendorEcho  = uint16(0x040F)
	IDProductAIO  = uint16(0x0A10)
	IDProductAIOS = uint16(0x0A11)
	IDProductAIOC = uint16(0x0A12)
	IDProductAIOH = uint16(0x0A13)
)

// aioProductIDs lists the USB product IDs probed by DetectUSB.
var aioProductIDs = []uint16{IDProductAIO, IDProductAIOS, IDProductAIOC, IDProductAIOH}

// DetectUSB reports whether an Echo AIO unit is attached to the USB bus.
// It only inspects device descriptors and never loads the vendor library,
// so tools can tell "not plugged in" apart from "library missing".
func DetectUSB() (bool, error) {
	usb, err := libusb.NewContext()
	if err != nil {
		return false, err
	}
	defer func() { _ = usb.Close() }()

	for _, product := range aioProductIDs {
		_, handle, err := usb.OpenDeviceWithVendorProduct(IDVendorEcho, product)
		if err != nil {
			continue
		}

		_ = handle.Close()

		return true, nil
	}

	return false, nil
}
