// Package sdo implements the SDO command byte codec: the bit-packed
// command specifier family that turns an 8-byte SDO frame payload into
// a typed Cmd and back. It does not drive the request/response
// protocol itself — that is package sdoclient, which sits on top of
// this codec and the message dispatcher.
package sdo

import (
	"encoding/binary"

	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/enums"
)

// Kind names every SDO command variant. Rx is client-to-server
// (download data / upload request), Tx is server-to-client.
type Kind int

const (
	KindInitiateDownloadRx Kind = iota
	KindInitiateDownloadTx
	KindDownloadSegmentRx
	KindDownloadSegmentTx
	KindInitiateUploadRx
	KindInitiateUploadTx
	KindUploadSegmentRx
	KindUploadSegmentTx
	KindAbortTransfer
	KindBlockUploadRx
	KindBlockUploadTx
	KindBlockDownloadRx
	KindBlockDownloadTx
)

// InitiatePayload is the data carried by an initiate-download request
// or an initiate-upload response: either up to 4 bytes transferred in
// this single frame (Expedited), or a promise of a multi-frame
// transfer optionally announcing its total size (Segmented).
type InitiatePayload struct {
	Segmented bool
	Expedited []byte
	TotalSize *uint32
}

// Cmd is the decoded SDO command byte plus whatever fields that
// variant carries. Only the fields relevant to Kind are meaningful;
// this mirrors the tagged union the wire format itself implies.
type Cmd struct {
	Kind     Kind
	Index    uint16
	SubIndex uint8
	Initiate InitiatePayload
	Toggle   bool
	Last     bool
	Data     []byte
	Abort    enums.AbortCode
}

// IsResponseTo reports whether res is the accepted response to having
// sent req, per the response-counterpart table: every Rx variant has
// exactly one Tx counterpart, and an AbortTransfer is always accepted
// regardless of what was sent.
func IsResponseTo(req, res Cmd) bool {
	if res.Kind == KindAbortTransfer {
		return true
	}
	pairs := map[Kind]Kind{
		KindInitiateDownloadRx: KindInitiateDownloadTx,
		KindDownloadSegmentRx:  KindDownloadSegmentTx,
		KindInitiateUploadRx:   KindInitiateUploadTx,
		KindUploadSegmentRx:    KindUploadSegmentTx,
		KindBlockUploadRx:      KindBlockUploadTx,
		KindBlockDownloadRx:    KindBlockDownloadTx,
	}
	want, ok := pairs[req.Kind]
	return ok && res.Kind == want
}

// Encode packs cmd into an 8-byte SDO payload.
func Encode(cmd Cmd) ([8]byte, error) {
	var data [8]byte
	switch cmd.Kind {
	case KindInitiateDownloadRx:
		return encodeInitiateRequestLike(cmd, 0b001)
	case KindInitiateDownloadTx:
		data[0] = 0b01100000
		putIndex(&data, cmd.Index, cmd.SubIndex)
		return data, nil
	case KindDownloadSegmentRx:
		return encodeSegment(cmd, 0)
	case KindDownloadSegmentTx:
		data[0] = 0b00100000
		if cmd.Toggle {
			data[0] |= 0b00010000
		}
		return data, nil
	case KindInitiateUploadRx:
		data[0] = 0b01000000
		putIndex(&data, cmd.Index, cmd.SubIndex)
		return data, nil
	case KindInitiateUploadTx:
		return encodeInitiateRequestLike(cmd, 0b010)
	case KindUploadSegmentRx:
		data[0] = 0b01100000
		if cmd.Toggle {
			data[0] |= 0b00010000
		}
		return data, nil
	case KindUploadSegmentTx:
		return encodeSegment(cmd, 0)
	case KindAbortTransfer:
		data[0] = 0b10000000
		putIndex(&data, cmd.Index, cmd.SubIndex)
		binary.LittleEndian.PutUint32(data[4:8], cmd.Abort.Encode())
		return data, nil
	case KindBlockUploadRx, KindBlockUploadTx, KindBlockDownloadRx, KindBlockDownloadTx:
		return data, &canopeners.NotYetImplementedError{What: "SDO block transfer"}
	default:
		return data, &canopeners.ParseError{Reason: "unknown SdoCmd kind"}
	}
}

func putIndex(data *[8]byte, index uint16, subIndex uint8) {
	binary.LittleEndian.PutUint16(data[1:3], index)
	data[3] = subIndex
}

// encodeInitiateRequestLike encodes the shared layout of
// InitiateDownloadRx and InitiateUploadTx: top three bits scs, then
// e/s/n flags and either expedited data or an optional segmented size.
func encodeInitiateRequestLike(cmd Cmd, scs byte) ([8]byte, error) {
	var data [8]byte
	data[0] = scs << 5
	putIndex(&data, cmd.Index, cmd.SubIndex)
	if !cmd.Initiate.Segmented {
		n := len(cmd.Initiate.Expedited)
		if n < 1 || n > 4 {
			return data, &canopeners.OverflowError{Requested: n, Max: 4}
		}
		data[0] |= 0b10 | 0b01 // expedited=1, size-indicated=1
		data[0] |= byte(4-n) << 2
		copy(data[4:4+n], cmd.Initiate.Expedited)
		return data, nil
	}
	if cmd.Initiate.TotalSize != nil {
		data[0] |= 0b01 // size-indicated, expedited stays 0
		binary.LittleEndian.PutUint32(data[4:8], *cmd.Initiate.TotalSize)
	}
	return data, nil
}

// encodeSegment encodes the shared layout of DownloadSegmentRx and
// UploadSegmentTx: toggle, the 7-len length field, the last-segment
// bit, and up to 7 data bytes.
func encodeSegment(cmd Cmd, scs byte) ([8]byte, error) {
	var data [8]byte
	n := len(cmd.Data)
	if n > 7 {
		return data, &canopeners.OverflowError{Requested: n, Max: 7}
	}
	data[0] = scs << 5
	if cmd.Toggle {
		data[0] |= 0b00010000
	}
	data[0] |= byte(7-n) << 1
	if cmd.Last {
		data[0] |= 0b1
	}
	copy(data[1:1+n], cmd.Data)
	return data, nil
}

// Decode classifies an 8-byte SDO payload into a Cmd. direction tells
// the decoder which half of the direction-dependent scs table to use;
// it must be derived from the frame's COB-ID before calling Decode.
func Decode(data [8]byte, direction can.Direction) (Cmd, error) {
	scs := data[0] >> 5
	if scs == 0b100 {
		code := binary.LittleEndian.Uint32(data[4:8])
		abort, ok := enums.DecodeAbortCode(code)
		if !ok {
			return Cmd{}, &canopeners.ParseError{Reason: "unknown SDO abort code"}
		}
		return Cmd{Kind: KindAbortTransfer, Index: index(data), SubIndex: subIndex(data), Abort: abort}, nil
	}
	if direction == can.DirReq {
		return decodeReq(data, scs)
	}
	return decodeRes(data, scs)
}

func decodeReq(data [8]byte, scs byte) (Cmd, error) {
	switch scs {
	case 0b000:
		return decodeSegment(data, KindDownloadSegmentRx)
	case 0b001:
		return decodeInitiate(data, KindInitiateDownloadRx)
	case 0b010:
		return Cmd{Kind: KindInitiateUploadRx, Index: index(data), SubIndex: subIndex(data)}, nil
	case 0b011:
		return Cmd{Kind: KindUploadSegmentRx, Toggle: data[0]&0b00010000 != 0}, nil
	case 0b101:
		return Cmd{}, &canopeners.NotYetImplementedError{What: "SDO block upload"}
	case 0b110:
		return Cmd{}, &canopeners.NotYetImplementedError{What: "SDO block download"}
	default:
		return Cmd{}, &canopeners.ParseError{Reason: "unknown SDO request command specifier"}
	}
}

func decodeRes(data [8]byte, scs byte) (Cmd, error) {
	switch scs {
	case 0b000:
		return decodeSegment(data, KindUploadSegmentTx)
	case 0b001:
		return Cmd{Kind: KindDownloadSegmentTx, Toggle: data[0]&0b00010000 != 0}, nil
	case 0b010:
		return decodeInitiate(data, KindInitiateUploadTx)
	case 0b011:
		return Cmd{Kind: KindInitiateDownloadTx, Index: index(data), SubIndex: subIndex(data)}, nil
	case 0b101:
		return Cmd{}, &canopeners.NotYetImplementedError{What: "SDO block upload"}
	case 0b110:
		return Cmd{}, &canopeners.NotYetImplementedError{What: "SDO block download"}
	default:
		return Cmd{}, &canopeners.ParseError{Reason: "unknown SDO response command specifier"}
	}
}

func decodeInitiate(data [8]byte, kind Kind) (Cmd, error) {
	cmd := Cmd{Kind: kind, Index: index(data), SubIndex: subIndex(data)}
	expedited := data[0]&0b10 != 0
	sizeIndicated := data[0]&0b01 != 0
	if expedited {
		n := 4 - int((data[0]>>2)&0b11)
		cmd.Initiate = InitiatePayload{Expedited: append([]byte(nil), data[4:4+n]...)}
		return cmd, nil
	}
	cmd.Initiate.Segmented = true
	if sizeIndicated {
		size := binary.LittleEndian.Uint32(data[4:8])
		cmd.Initiate.TotalSize = &size
	}
	return cmd, nil
}

// decodeSegment decodes the shared layout of DownloadSegmentRx and
// UploadSegmentTx. The length field is 7-len, per the authoritative
// formula: (byte0 >> 1) & 0b111 = 7 - len.
func decodeSegment(data [8]byte, kind Kind) (Cmd, error) {
	toggle := data[0]&0b00010000 != 0
	last := data[0]&0b1 != 0
	lenField := (data[0] >> 1) & 0b111
	n := 7 - int(lenField)
	if n < 0 || n > 7 {
		return Cmd{}, &canopeners.ParseError{Reason: "invalid SDO segment length field"}
	}
	return Cmd{
		Kind:   kind,
		Toggle: toggle,
		Last:   last,
		Data:   append([]byte(nil), data[1:1+n]...),
	}, nil
}

func index(data [8]byte) uint16   { return binary.LittleEndian.Uint16(data[1:3]) }
func subIndex(data [8]byte) uint8 { return data[3] }
