package sdoclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/can/virtual"
	"github.com/b-camacho/canopeners/pkg/message"
	"github.com/b-camacho/canopeners/pkg/sdo"
)

// dialPair starts a virtual.Broker and dials two peers against it: a
// Client-side transport and a raw transport the test drives as the
// simulated remote node.
func dialPair(t *testing.T) (*virtual.Transport, *virtual.Transport, func()) {
	t.Helper()
	broker, err := virtual.NewBroker("127.0.0.1:0")
	require.NoError(t, err)

	clientSide, err := virtual.Dial(broker.Addr())
	require.NoError(t, err)
	require.NoError(t, clientSide.SetReadTimeout(time.Second))
	require.NoError(t, clientSide.SetWriteTimeout(time.Second))

	nodeSide, err := virtual.Dial(broker.Addr())
	require.NoError(t, err)
	require.NoError(t, nodeSide.SetReadTimeout(time.Second))
	require.NoError(t, nodeSide.SetWriteTimeout(time.Second))

	return clientSide, nodeSide, func() {
		clientSide.Close()
		nodeSide.Close()
		broker.Close()
	}
}

// runNode services SDO requests on nodeSide for a single segmented
// download immediately followed by a single segmented upload, mirroring
// the [1..=10] write-then-read-reversed scenario used to validate the
// client's state machine end to end. It stops once done is closed or
// a Recv on nodeSide fails (cleanup closes the transport).
func runNode(t *testing.T, nodeSide *virtual.Transport, nodeID uint8, uploadData []byte, downloaded *[]byte, done <-chan struct{}) {
	t.Helper()
	for {
		select {
		case <-done:
			return
		default:
		}
		frame, err := nodeSide.Recv()
		if err != nil {
			return
		}
		msg, err := message.Decode(frame)
		if err != nil || msg.Kind != message.KindSdo || msg.Sdo.Direction != can.DirReq {
			continue
		}
		req := msg.Sdo.Command
		var res sdo.Cmd
		switch req.Kind {
		case sdo.KindInitiateDownloadRx:
			res = sdo.Cmd{Kind: sdo.KindInitiateDownloadTx, Index: req.Index, SubIndex: req.SubIndex}
		case sdo.KindDownloadSegmentRx:
			*downloaded = append(*downloaded, req.Data...)
			res = sdo.Cmd{Kind: sdo.KindDownloadSegmentTx, Toggle: req.Toggle}
		case sdo.KindInitiateUploadRx:
			total := uint32(len(uploadData))
			res = sdo.Cmd{
				Kind: sdo.KindInitiateUploadTx, Index: req.Index, SubIndex: req.SubIndex,
				Initiate: sdo.InitiatePayload{Segmented: true, TotalSize: &total},
			}
		case sdo.KindUploadSegmentRx:
			n := 7
			if n > len(uploadData) {
				n = len(uploadData)
			}
			chunk := uploadData[:n]
			uploadData = uploadData[n:]
			res = sdo.Cmd{Kind: sdo.KindUploadSegmentTx, Toggle: req.Toggle, Last: len(uploadData) == 0, Data: chunk}
		default:
			continue
		}
		out, err := message.Sdo{NodeID: nodeID, Direction: can.DirRes, Command: res}.Encode()
		if err != nil {
			t.Errorf("node failed to encode response: %v", err)
			return
		}
		if err := nodeSide.Send(out); err != nil {
			return
		}
	}
}

func TestWriteReadSegmentedRoundTrip(t *testing.T) {
	clientSide, nodeSide, cleanup := dialPair(t)
	defer cleanup()

	const nodeID = 0x10
	var downloaded []byte
	done := make(chan struct{})
	go runNode(t, nodeSide, nodeID, []byte{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, &downloaded, done)

	client := New(clientSide, nodeID)
	writeData := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	require.NoError(t, client.Write(0x1000, 1, writeData))
	assert.Equal(t, writeData, downloaded)

	read, err := client.Read(0x1000, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, read)

	close(done)
}

func TestWriteExpedited(t *testing.T) {
	clientSide, nodeSide, cleanup := dialPair(t)
	defer cleanup()

	const nodeID = 0x10
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			default:
			}
			frame, err := nodeSide.Recv()
			if err != nil {
				return
			}
			msg, err := message.Decode(frame)
			if err != nil || msg.Kind != message.KindSdo {
				continue
			}
			res := sdo.Cmd{Kind: sdo.KindInitiateDownloadTx, Index: msg.Sdo.Command.Index, SubIndex: msg.Sdo.Command.SubIndex}
			out, _ := message.Sdo{NodeID: nodeID, Direction: can.DirRes, Command: res}.Encode()
			_ = nodeSide.Send(out)
		}
	}()

	client := New(clientSide, nodeID)
	require.NoError(t, client.Write(2, 0, []byte{3, 4, 0, 0}))
	close(done)
}

func TestWriteNoopOnEmptyData(t *testing.T) {
	clientSide, _, cleanup := dialPair(t)
	defer cleanup()
	client := New(clientSide, 0x10)
	assert.NoError(t, client.Write(1, 0, nil))
}

func TestReadSurfacesAbort(t *testing.T) {
	clientSide, nodeSide, cleanup := dialPair(t)
	defer cleanup()

	const nodeID = 0x10
	go func() {
		frame, err := nodeSide.Recv()
		require.NoError(t, err)
		msg, err := message.Decode(frame)
		require.NoError(t, err)
		abort := sdo.Cmd{Kind: sdo.KindAbortTransfer, Index: msg.Sdo.Command.Index, SubIndex: msg.Sdo.Command.SubIndex, Abort: 0x06020000}
		out, err := message.Sdo{NodeID: nodeID, Direction: can.DirRes, Command: abort}.Encode()
		require.NoError(t, err)
		require.NoError(t, nodeSide.Send(out))
	}()

	client := New(clientSide, nodeID)
	_, err := client.Read(0x2000, 0)
	assert.Error(t, err)
}
