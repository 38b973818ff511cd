package message

import (
	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/sdo"
)

const (
	sdoResBaseCobID = 0x580
	sdoReqBaseCobID = 0x600
)

// Sdo is a Service Data Object frame addressed to/from a single node.
// The command byte semantics live in package sdo; this type only adds
// the node addressing and direction that pick the COB-ID.
type Sdo struct {
	NodeID    uint8
	Direction can.Direction
	Command   sdo.Cmd
}

func (s Sdo) Encode() (can.Frame, error) {
	raw, err := sdo.Encode(s.Command)
	if err != nil {
		return can.Frame{}, err
	}
	base := uint32(sdoReqBaseCobID)
	if s.Direction == can.DirRes {
		base = sdoResBaseCobID
	}
	return can.NewFrame(base+uint32(s.NodeID), raw[:])
}

func DecodeSdo(frame can.Frame) (Sdo, error) {
	if frame.DLC != 8 {
		return Sdo{}, &canopeners.BadMessageError{Reason: "SDO frame must carry exactly 8 bytes"}
	}
	var direction can.Direction
	var nodeID uint8
	switch {
	case frame.ID >= sdoReqBaseCobID+1 && frame.ID <= sdoReqBaseCobID+0x7F:
		direction = can.DirReq
		nodeID = uint8(frame.ID - sdoReqBaseCobID)
	case frame.ID >= sdoResBaseCobID+1 && frame.ID <= sdoResBaseCobID+0x7F:
		direction = can.DirRes
		nodeID = uint8(frame.ID - sdoResBaseCobID)
	default:
		return Sdo{}, &canopeners.UnknownFrameError{ID: frame.ID}
	}
	cmd, err := sdo.Decode(frame.Data, direction)
	if err != nil {
		return Sdo{}, err
	}
	return Sdo{NodeID: nodeID, Direction: direction, Command: cmd}, nil
}
