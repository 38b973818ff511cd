package message

import (
	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
)

// Message is the tagged union of every CANopen message type this
// module decodes. Exactly one field is meaningful; Kind says which.
type Message struct {
	Kind      Kind
	Nmt       Nmt
	Sync      Sync
	Emergency Emergency
	Pdo       Pdo
	Sdo       Sdo
	Guard     Guard
}

type Kind int

const (
	KindNmt Kind = iota
	KindSync
	KindEmergency
	KindPdo
	KindSdo
	KindGuard
)

// Decode classifies frame by its COB-ID and dispatches to the matching
// per-type decoder. Ranges are checked in the order CiA 301 assigns
// them; a frame matching none of them is UnknownFrameError.
func Decode(frame can.Frame) (Message, error) {
	if frame.ID > can.MaxID {
		return Message{}, &canopeners.CanVersionError{ID: frame.ID}
	}
	switch {
	case frame.ID == nmtCobID:
		nmt, err := DecodeNmt(frame)
		return Message{Kind: KindNmt, Nmt: nmt}, err
	case frame.ID == syncCobID:
		sync, err := DecodeSync(frame)
		return Message{Kind: KindSync, Sync: sync}, err
	case frame.ID > emergencyBaseCobID && frame.ID <= emergencyBaseCobID+0x7F:
		em, err := DecodeEmergency(frame)
		return Message{Kind: KindEmergency, Emergency: em}, err
	case frame.ID >= 0x180 && frame.ID <= 0x57F:
		pdo, err := DecodePdo(frame)
		return Message{Kind: KindPdo, Pdo: pdo}, err
	case frame.ID >= sdoResBaseCobID+1 && frame.ID <= sdoReqBaseCobID+0x7F:
		sdo, err := DecodeSdo(frame)
		return Message{Kind: KindSdo, Sdo: sdo}, err
	case frame.ID >= guardBaseCobID+1 && frame.ID <= guardBaseCobID+0x7F:
		guard, err := DecodeGuard(frame)
		return Message{Kind: KindGuard, Guard: guard}, err
	default:
		return Message{}, &canopeners.UnknownFrameError{ID: frame.ID}
	}
}

// Encode routes m to its per-type encoder.
func Encode(m Message) (can.Frame, error) {
	switch m.Kind {
	case KindNmt:
		return m.Nmt.Encode()
	case KindSync:
		return m.Sync.Encode()
	case KindEmergency:
		return m.Emergency.Encode()
	case KindPdo:
		return m.Pdo.Encode()
	case KindSdo:
		return m.Sdo.Encode()
	case KindGuard:
		return m.Guard.Encode()
	default:
		return can.Frame{}, &canopeners.NotYetImplementedError{What: "unknown message kind"}
	}
}
