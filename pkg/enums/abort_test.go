package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAbortCodeKnown(t *testing.T) {
	code, ok := DecodeAbortCode(0x05030000)
	assert.True(t, ok)
	assert.Equal(t, AbortToggleBitNotAlternated, code)
	assert.Equal(t, "toggle bit not alternated", code.String())
}

func TestDecodeAbortCodeUnknown(t *testing.T) {
	_, ok := DecodeAbortCode(0xDEADBEEF)
	assert.False(t, ok)
}

func TestAbortCodeEncodeRoundTrip(t *testing.T) {
	for code := range abortDescriptions {
		got, ok := DecodeAbortCode(code.Encode())
		assert.True(t, ok)
		assert.Equal(t, code, got)
	}
}

func TestAbortCodeError(t *testing.T) {
	err := AbortGeneralError.Error()
	assert.Contains(t, err, "0x08000000")
	assert.Contains(t, err, "general error")
}
