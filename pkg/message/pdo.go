package message

import (
	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
)

// Pdo is a raw process data object: a 1..=8 byte payload with no
// codec-level interpretation of its bytes, addressed by node, PDO
// index (1..4) and direction.
type Pdo struct {
	NodeID    uint8
	PdoIndex  uint8
	Direction can.Direction
	Data      []byte
}

func NewPdo(nodeID, pdoIndex uint8, direction can.Direction, data []byte) (Pdo, error) {
	if len(data) < 1 || len(data) > 8 {
		return Pdo{}, &canopeners.BadMessageError{Reason: "PDO data must be 1..=8 bytes"}
	}
	return Pdo{NodeID: nodeID, PdoIndex: pdoIndex, Direction: direction, Data: data}, nil
}

func (p Pdo) Encode() (can.Frame, error) {
	if len(p.Data) < 1 || len(p.Data) > 8 {
		return can.Frame{}, &canopeners.BadMessageError{Reason: "PDO data must be 1..=8 bytes"}
	}
	offset := uint32(0)
	if p.Direction == can.DirReq {
		offset = 1
	}
	id := uint32(p.NodeID) + (uint32(p.PdoIndex)+offset)<<8
	return can.NewFrame(id, p.Data)
}

// DecodePdo decodes frame as a PDO. Direction is recovered from bit
// 0x80 of the COB-ID: clear means the node produced the frame (Res),
// set means the client produced it (Req) — the request-side indices
// are offset by one relative to the response side.
func DecodePdo(frame can.Frame) (Pdo, error) {
	if frame.DLC < 1 || frame.DLC > 8 {
		return Pdo{}, &canopeners.BadMessageError{Reason: "PDO frame must carry 1..=8 bytes"}
	}
	direction := can.DirRes
	if frame.ID&0x80 != 0 {
		direction = can.DirReq
	}
	offset := uint32(0)
	if direction == can.DirReq {
		offset = 1
	}
	pdoIndex := uint8((frame.ID&0x700)>>8) - uint8(offset)
	nodeID := uint8(frame.ID & 0x7F)
	return Pdo{
		NodeID:    nodeID,
		PdoIndex:  pdoIndex,
		Direction: direction,
		Data:      append([]byte(nil), frame.Payload()...),
	}, nil
}
