package sdo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/b-camacho/canopeners/pkg/can"
	"github.com/b-camacho/canopeners/pkg/enums"
)

func TestExpeditedInitiateDownloadRequestScenario(t *testing.T) {
	cmd := Cmd{
		Kind:     KindInitiateDownloadRx,
		Index:    1,
		SubIndex: 2,
		Initiate: InitiatePayload{Expedited: []byte{3, 4, 0, 0}},
	}
	data, err := Encode(cmd)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x23), data[0])
	assert.Equal(t, [8]byte{0x23, 0x01, 0x00, 0x02, 3, 4, 0, 0}, data)

	decoded, err := Decode(data, can.DirReq)
	assert.NoError(t, err)
	assert.Equal(t, KindInitiateDownloadRx, decoded.Kind)
	assert.Equal(t, uint16(1), decoded.Index)
	assert.Equal(t, uint8(2), decoded.SubIndex)
	assert.Equal(t, []byte{3, 4, 0, 0}, decoded.Initiate.Expedited)
}

func TestSegmentedInitiateDownloadRequestScenario(t *testing.T) {
	total := uint32(10)
	cmd := Cmd{
		Kind:     KindInitiateDownloadRx,
		Index:    0x1000,
		SubIndex: 1,
		Initiate: InitiatePayload{Segmented: true, TotalSize: &total},
	}
	data, err := Encode(cmd)
	assert.NoError(t, err)
	assert.Equal(t, byte(0b00100001), data[0])

	decoded, err := Decode(data, can.DirReq)
	assert.NoError(t, err)
	assert.True(t, decoded.Initiate.Segmented)
	assert.NotNil(t, decoded.Initiate.TotalSize)
	assert.Equal(t, uint32(10), *decoded.Initiate.TotalSize)
}

func TestDownloadSegmentScenarioFirstAndLastChunk(t *testing.T) {
	first, err := Encode(Cmd{Kind: KindDownloadSegmentRx, Toggle: false, Last: false, Data: []byte{1, 2, 3, 4, 5, 6, 7}})
	assert.NoError(t, err)
	assert.Equal(t, [8]byte{0x00, 1, 2, 3, 4, 5, 6, 7}, first)

	second, err := Encode(Cmd{Kind: KindDownloadSegmentRx, Toggle: true, Last: true, Data: []byte{8, 9, 10}})
	assert.NoError(t, err)
	assert.Equal(t, byte(0b00010000|(7-3)<<1|1), second[0])
	assert.Equal(t, []byte{8, 9, 10}, second[1:4])

	decodedFirst, err := Decode(first, can.DirReq)
	assert.NoError(t, err)
	assert.Equal(t, KindDownloadSegmentRx, decodedFirst.Kind)
	assert.False(t, decodedFirst.Toggle)
	assert.False(t, decodedFirst.Last)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7}, decodedFirst.Data)

	decodedSecond, err := Decode(second, can.DirReq)
	assert.NoError(t, err)
	assert.True(t, decodedSecond.Toggle)
	assert.True(t, decodedSecond.Last)
	assert.Equal(t, []byte{8, 9, 10}, decodedSecond.Data)
}

func TestAbortTransferRoundTrip(t *testing.T) {
	cmd := Cmd{Kind: KindAbortTransfer, Index: 0x1000, SubIndex: 1, Abort: enums.AbortGeneralError}
	data, err := Encode(cmd)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x80), data[0])

	decodedFromReq, err := Decode(data, can.DirReq)
	assert.NoError(t, err)
	assert.Equal(t, KindAbortTransfer, decodedFromReq.Kind)
	assert.Equal(t, enums.AbortGeneralError, decodedFromReq.Abort)

	decodedFromRes, err := Decode(data, can.DirRes)
	assert.NoError(t, err)
	assert.Equal(t, KindAbortTransfer, decodedFromRes.Kind)
}

func TestRoundTripEveryNonBlockVariant(t *testing.T) {
	total := uint32(4)
	cases := []struct {
		name      string
		direction can.Direction
		cmd       Cmd
	}{
		{"InitiateDownloadRx", can.DirReq, Cmd{Kind: KindInitiateDownloadRx, Index: 1, SubIndex: 1, Initiate: InitiatePayload{Expedited: []byte{1, 2}}}},
		{"InitiateDownloadTx", can.DirRes, Cmd{Kind: KindInitiateDownloadTx, Index: 1, SubIndex: 1}},
		{"DownloadSegmentRx", can.DirReq, Cmd{Kind: KindDownloadSegmentRx, Toggle: true, Last: false, Data: []byte{9, 9}}},
		{"DownloadSegmentTx", can.DirRes, Cmd{Kind: KindDownloadSegmentTx, Toggle: true}},
		{"InitiateUploadRx", can.DirReq, Cmd{Kind: KindInitiateUploadRx, Index: 2, SubIndex: 0}},
		{"InitiateUploadTx segmented", can.DirRes, Cmd{Kind: KindInitiateUploadTx, Index: 2, SubIndex: 0, Initiate: InitiatePayload{Segmented: true, TotalSize: &total}}},
		{"UploadSegmentRx", can.DirReq, Cmd{Kind: KindUploadSegmentRx, Toggle: false}},
		{"UploadSegmentTx", can.DirRes, Cmd{Kind: KindUploadSegmentTx, Toggle: false, Last: true, Data: []byte{1}}},
	}
	for _, c := range cases {
		data, err := Encode(c.cmd)
		assert.NoError(t, err, c.name)
		decoded, err := Decode(data, c.direction)
		assert.NoError(t, err, c.name)
		assert.Equal(t, c.cmd.Kind, decoded.Kind, c.name)
	}
}

func TestIsResponseToTable(t *testing.T) {
	pairs := map[Kind]Kind{
		KindInitiateDownloadRx: KindInitiateDownloadTx,
		KindDownloadSegmentRx:  KindDownloadSegmentTx,
		KindInitiateUploadRx:   KindInitiateUploadTx,
		KindUploadSegmentRx:    KindUploadSegmentTx,
		KindBlockUploadRx:      KindBlockUploadTx,
		KindBlockDownloadRx:    KindBlockDownloadTx,
	}
	for req, res := range pairs {
		assert.True(t, IsResponseTo(Cmd{Kind: req}, Cmd{Kind: res}))
	}
	assert.False(t, IsResponseTo(Cmd{Kind: KindInitiateDownloadRx}, Cmd{Kind: KindInitiateUploadTx}))
	assert.True(t, IsResponseTo(Cmd{Kind: KindInitiateDownloadRx}, Cmd{Kind: KindAbortTransfer}))
}

func TestBlockTransferNotYetImplemented(t *testing.T) {
	_, err := Encode(Cmd{Kind: KindBlockUploadRx})
	assert.Error(t, err)
}
