package aio

import "fmt"

// StatusCode is the integer return code of every vendor library export.
// Zero denotes success. Nonzero codes implement the error interface so
// callers can match them with errors.Is.
type StatusCode int32

const (
	AIO_SUCCESS                StatusCode = 0
	AIO_ERROR_NOT_INITIALIZED  StatusCode = 1
	AIO_ERROR_NOT_CONNECTED    StatusCode = 2
	AIO_ERROR_INVALID_CHANNEL  StatusCode = 3
	AIO_ERROR_INVALID_VALUE    StatusCode = 4
	AIO_ERROR_COMMUNICATION    StatusCode = 5
	AIO_ERROR_NOT_SUPPORTED    StatusCode = 6
	AIO_ERROR_TEDS_NOT_PRESENT StatusCode = 7
	AIO_ERROR_BUFFER_TOO_SMALL StatusCode = 8
)

// StatusCodeNames provides human-readable descriptions for status codes.
var StatusCodeNames = map[StatusCode]string{
	AIO_SUCCESS:                "success",
	AIO_ERROR_NOT_INITIALIZED:  "library not initialized",
	AIO_ERROR_NOT_CONNECTED:    "device not connected",
	AIO_ERROR_INVALID_CHANNEL:  "invalid channel index",
	AIO_ERROR_INVALID_VALUE:    "invalid value",
	AIO_ERROR_COMMUNICATION:    "device communication failure",
	AIO_ERROR_NOT_SUPPORTED:    "operation not supported by module",
	AIO_ERROR_TEDS_NOT_PRESENT: "no TEDS transducer present",
	AIO_ERROR_BUFFER_TOO_SMALL: "buffer too small",
}

// String returns the human-readable description of the status code.
func (c StatusCode) String() string {
	if name, ok := StatusCodeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("status code %d", int32(c))
}

// Error implements the error interface for nonzero status codes.
func (c StatusCode) Error() string {
	return c.String()
}

// statusErr converts a raw return code into an error, nil on success.
func statusErr(code int32) error {
	if code == 0 {
		return nil
	}

	return StatusCode(code)
}
