package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuardStatusRoundTrip(t *testing.T) {
	status := GuardStatus{Toggle: true, State: NmtStatePreOperational}
	raw := status.Encode()
	decoded, err := DecodeGuardStatus(raw)
	assert.NoError(t, err)
	assert.Equal(t, status, decoded)
}

func TestGuardStatusToggleCleared(t *testing.T) {
	status := GuardStatus{Toggle: false, State: NmtStateOperational}
	raw := status.Encode()
	assert.Equal(t, uint8(NmtStateOperational), raw)
}

func TestDecodeGuardStatusRejectsUnknownState(t *testing.T) {
	_, err := DecodeGuardStatus(0x01)
	assert.Error(t, err)
}
