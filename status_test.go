package aio

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "success", AIO_SUCCESS.String())
	assert.Equal(t, "device not connected", AIO_ERROR_NOT_CONNECTED.Error())
	assert.Equal(t, "status code 42", StatusCode(42).String())

	assert.NoError(t, statusErr(0))
	assert.ErrorIs(t, statusErr(2), AIO_ERROR_NOT_CONNECTED)

	// Codes survive wrapping.
	wrapped := fmt.Errorf("AIO_getInputGain failed: %w", AIO_ERROR_INVALID_CHANNEL)
	assert.ErrorIs(t, wrapped, AIO_ERROR_INVALID_CHANNEL)
	assert.False(t, errors.Is(wrapped, AIO_ERROR_INVALID_VALUE))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "AIO-S", AIO_PRODUCT_AIO_S.String())
	assert.Equal(t, "Unknown", ProductID(99).String())

	assert.Equal(t, "Module C", AIO_MODULE_C.String())
	assert.Equal(t, "Unknown", ModuleType(99).String())

	assert.True(t, AIO_MODULE_A.SupportsConstantCurrent())
	assert.True(t, AIO_MODULE_C.SupportsConstantCurrent())
	assert.False(t, AIO_MODULE_B.SupportsConstantCurrent())

	assert.True(t, AIO_MODULE_C.SupportsTEDS())
	assert.True(t, AIO_MODULE_T.SupportsTEDS())
	assert.False(t, AIO_MODULE_A.SupportsTEDS())
}
