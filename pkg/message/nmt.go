// Package message implements the per-type CAN frame codec: the
// bidirectional mapping between can.Frame and the typed CANopen
// messages (Nmt, Sync, Emergency, Guard, Pdo, Sdo) described by CiA
// 301, plus the COB-ID based dispatcher that classifies an inbound
// frame and routes an outbound one.
package message

import (
	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/enums"
)

const nmtCobID = 0x000

// Nmt is a Network Management command addressed to a single node (or
// broadcast via TargetNode == 0).
type Nmt struct {
	Function   enums.NmtFunction
	TargetNode uint8
}

func (n Nmt) Encode() (can.Frame, error) {
	return can.NewFrame(nmtCobID, []byte{uint8(n.Function), n.TargetNode})
}

func DecodeNmt(frame can.Frame) (Nmt, error) {
	if frame.ID != nmtCobID {
		return Nmt{}, &canopeners.UnknownFrameError{ID: frame.ID}
	}
	if frame.DLC < 2 {
		return Nmt{}, &canopeners.ParseError{Reason: "NMT frame shorter than 2 bytes"}
	}
	function, ok := enums.DecodeNmtFunction(frame.Data[0])
	if !ok {
		return Nmt{}, &canopeners.ParseError{Reason: "unknown NMT command specifier"}
	}
	return Nmt{Function: function, TargetNode: frame.Data[1]}, nil
}
