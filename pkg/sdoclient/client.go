// Package sdoclient drives the SDO client state machine described in
// the component design: expedited and segmented download (write) and
// upload (read) transfers, built on package message's Sdo codec and a
// can.Transport. It composes one or more blocking send/recv pairs into
// a single logical read or write, matching the peer's responses by the
// response-counterpart table and surfacing aborts as SdoAbortError.
package sdoclient

import (
	"math"

	log "github.com/sirupsen/logrus"

	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/message"
	"github.com/b-camacho/canopeners/pkg/sdo"
)

const segmentDataLen = 7

// Client drives SDO transfers against one remote node over a
// can.Transport. A single Client must not be used for two concurrent
// transfers against the same node: multi-frame operations depend on
// receiving the peer's responses in the order they were requested, and
// nothing here serializes concurrent callers. Independent Clients over
// independent Transports are fine to run from separate goroutines;
// Clients sharing one Transport are not, since each discards the SDO
// responses addressed from the other's node.
type Client struct {
	transport can.Transport
	nodeID    uint8
	logger    *log.Entry
}

func New(transport can.Transport, nodeID uint8) *Client {
	return &Client{
		transport: transport,
		nodeID:    nodeID,
		logger:    log.WithFields(log.Fields{"component": "sdoclient", "node": nodeID}),
	}
}

// Write performs an SDO download: it transfers data to (index,
// subIndex) on the client's node, expedited if data fits in 4 bytes,
// segmented otherwise.
func (c *Client) Write(index uint16, subIndex uint8, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if uint64(len(data)) > math.MaxUint32 {
		return &canopeners.OverflowError{Requested: len(data), Max: math.MaxUint32}
	}
	if len(data) <= 4 {
		return c.writeExpedited(index, subIndex, data)
	}
	return c.writeSegmented(index, subIndex, data)
}

func (c *Client) writeExpedited(index uint16, subIndex uint8, data []byte) error {
	req := sdo.Cmd{
		Kind:     sdo.KindInitiateDownloadRx,
		Index:    index,
		SubIndex: subIndex,
		Initiate: sdo.InitiatePayload{Expedited: data},
	}
	_, err := c.sendAcked(req)
	return err
}

func (c *Client) writeSegmented(index uint16, subIndex uint8, data []byte) error {
	total := uint32(len(data))
	req := sdo.Cmd{
		Kind:     sdo.KindInitiateDownloadRx,
		Index:    index,
		SubIndex: subIndex,
		Initiate: sdo.InitiatePayload{Segmented: true, TotalSize: &total},
	}
	if _, err := c.sendAcked(req); err != nil {
		return err
	}

	toggle := false
	for offset := 0; offset < len(data); offset += segmentDataLen {
		end := offset + segmentDataLen
		if end > len(data) {
			end = len(data)
		}
		last := end >= len(data)
		seg := sdo.Cmd{Kind: sdo.KindDownloadSegmentRx, Toggle: toggle, Last: last, Data: data[offset:end]}
		if _, err := c.sendAcked(seg); err != nil {
			return err
		}
		toggle = !toggle
	}
	return nil
}

// Read performs an SDO upload: it fetches the current value of
// (index, subIndex) from the client's node.
func (c *Client) Read(index uint16, subIndex uint8) ([]byte, error) {
	req := sdo.Cmd{Kind: sdo.KindInitiateUploadRx, Index: index, SubIndex: subIndex}
	res, err := c.sendAcked(req)
	if err != nil {
		return nil, err
	}
	if !res.Initiate.Segmented {
		return res.Initiate.Expedited, nil
	}

	var out []byte
	if res.Initiate.TotalSize != nil {
		out = make([]byte, 0, *res.Initiate.TotalSize)
	}
	toggle := false
	for {
		seg := sdo.Cmd{Kind: sdo.KindUploadSegmentRx, Toggle: toggle}
		segRes, err := c.sendAcked(seg)
		if err != nil {
			return nil, err
		}
		out = append(out, segRes.Data...)
		if segRes.Last {
			break
		}
		toggle = !toggle
	}
	return out, nil
}

// sendAcked sends req to the client's node and blocks until it
// receives the matching response, an abort, or a transport error.
// Frames that are not an SDO for this node, or whose command is
// neither the expected response nor an abort, are discarded and the
// loop keeps waiting — this is by design, not an error (CAN is a
// shared bus and unrelated traffic is expected).
func (c *Client) sendAcked(req sdo.Cmd) (sdo.Cmd, error) {
	frame, err := message.Sdo{NodeID: c.nodeID, Direction: can.DirReq, Command: req}.Encode()
	if err != nil {
		return sdo.Cmd{}, err
	}
	if err := c.transport.Send(frame); err != nil {
		return sdo.Cmd{}, err
	}

	for {
		rxFrame, err := c.transport.Recv()
		if err != nil {
			return sdo.Cmd{}, err
		}
		msg, err := message.Decode(rxFrame)
		if err != nil {
			c.logger.WithError(err).Debug("discarding unparsable frame while waiting for SDO response")
			continue
		}
		if msg.Kind != message.KindSdo || msg.Sdo.NodeID != c.nodeID || msg.Sdo.Direction != can.DirRes {
			continue
		}
		res := msg.Sdo.Command
		if res.Kind == sdo.KindAbortTransfer {
			return sdo.Cmd{}, &canopeners.SdoAbortError{Code: res.Abort}
		}
		if sdo.IsResponseTo(req, res) {
			return res, nil
		}
	}
}

