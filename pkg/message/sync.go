package message

import (
	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
)

const syncCobID = 0x080

// Sync is the CiA 301 synchronization message: a bare frame with no
// payload, broadcast at a fixed COB-ID.
type Sync struct{}

func (Sync) Encode() (can.Frame, error) {
	return can.NewFrame(syncCobID, nil)
}

func DecodeSync(frame can.Frame) (Sync, error) {
	if frame.ID != syncCobID {
		return Sync{}, &canopeners.UnknownFrameError{ID: frame.ID}
	}
	if frame.DLC != 0 {
		return Sync{}, &canopeners.BadMessageError{Reason: "SYNC frame carries a non-empty payload"}
	}
	return Sync{}, nil
}
