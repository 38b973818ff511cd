package message

import (
	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/enums"
)

const guardBaseCobID = 0x700

// Guard is a legacy node guarding response: the slave's current NMT
// state plus a toggle bit the master checks alternates between
// consecutive polls.
type Guard struct {
	NodeID uint8
	Status enums.GuardStatus
}

func (g Guard) Encode() (can.Frame, error) {
	return can.NewFrame(guardBaseCobID+uint32(g.NodeID), []byte{g.Status.Encode()})
}

func DecodeGuard(frame can.Frame) (Guard, error) {
	if frame.ID < guardBaseCobID+1 || frame.ID > guardBaseCobID+0x7F {
		return Guard{}, &canopeners.UnknownFrameError{ID: frame.ID}
	}
	if frame.DLC < 1 {
		return Guard{}, &canopeners.BadMessageError{Reason: "node guard frame carries no payload"}
	}
	status, err := enums.DecodeGuardStatus(frame.Data[0])
	if err != nil {
		return Guard{}, &canopeners.ParseError{Reason: err.Error()}
	}
	return Guard{NodeID: uint8(frame.ID - guardBaseCobID), Status: status}, nil
}
