package message

import (
	"encoding/binary"

	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/enums"
)

const emergencyBaseCobID = 0x080

// Emergency carries the error condition reported by one node: an
// error code/register pair plus 5 vendor-defined bytes.
type Emergency struct {
	NodeID         uint8
	ErrorCode      enums.EmergencyErrorCode
	ErrorRegister  []enums.EmergencyErrorRegister
	VendorSpecific [5]byte
}

func (e Emergency) Encode() (can.Frame, error) {
	code, err := enums.EncodeEmergencyErrorCode(e.ErrorCode)
	if err != nil {
		return can.Frame{}, err
	}
	data := make([]byte, 8)
	binary.LittleEndian.PutUint16(data[0:2], code)
	data[2] = enums.EncodeEmergencyErrorRegister(e.ErrorRegister)
	copy(data[3:8], e.VendorSpecific[:])
	return can.NewFrame(emergencyBaseCobID+uint32(e.NodeID), data)
}

func DecodeEmergency(frame can.Frame) (Emergency, error) {
	if frame.ID <= emergencyBaseCobID || frame.ID > emergencyBaseCobID+0x7F {
		return Emergency{}, &canopeners.UnknownFrameError{ID: frame.ID}
	}
	if frame.DLC < 8 {
		return Emergency{}, &canopeners.BadMessageError{Reason: "EMCY frame shorter than 8 bytes"}
	}
	nodeID := uint8(frame.ID - emergencyBaseCobID)
	code, err := enums.DecodeEmergencyErrorCode(binary.LittleEndian.Uint16(frame.Data[0:2]))
	if err != nil {
		return Emergency{}, &canopeners.ParseError{Reason: err.Error()}
	}
	em := Emergency{
		NodeID:        nodeID,
		ErrorCode:     code,
		ErrorRegister: enums.DecodeEmergencyErrorRegister(frame.Data[2]),
	}
	copy(em.VendorSpecific[:], frame.Data[3:8])
	return em, nil
}
