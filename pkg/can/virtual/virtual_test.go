package virtual

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b-camacho/canopeners/pkg/can"
)

func TestBrokerRelaysFrameBetweenPeers(t *testing.T) {
	broker, err := NewBroker("127.0.0.1:0")
	require.NoError(t, err)
	defer broker.Close()

	a, err := Dial(broker.Addr())
	require.NoError(t, err)
	defer a.Close()
	b, err := Dial(broker.Addr())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.SetReadTimeout(time.Second))

	frame, err := can.NewFrame(0x123, []byte{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, a.Send(frame))

	got, err := b.Recv()
	require.NoError(t, err)
	assert.Equal(t, frame, got)
}

func TestTransportRecvTimesOut(t *testing.T) {
	broker, err := NewBroker("127.0.0.1:0")
	require.NoError(t, err)
	defer broker.Close()

	a, err := Dial(broker.Addr())
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.SetReadTimeout(50*time.Millisecond))
	_, err = a.Recv()
	assert.Error(t, err)
}

func TestSendDoesNotReachOriginatingPeer(t *testing.T) {
	broker, err := NewBroker("127.0.0.1:0")
	require.NoError(t, err)
	defer broker.Close()

	a, err := Dial(broker.Addr())
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.SetReadTimeout(50*time.Millisecond))

	frame, err := can.NewFrame(0x1, []byte{0xAA})
	require.NoError(t, err)
	require.NoError(t, a.Send(frame))

	_, err = a.Recv()
	assert.Error(t, err)
}
