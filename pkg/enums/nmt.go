package enums

import "fmt"

// NmtFunction is the NMT service command specifier, byte 0 of an NMT
// frame (CiA 301 Table 16). There is exactly one producer-facing
// command set; no direction dependence like SDO has.
type NmtFunction uint8

const (
	NmtStartRemoteNode      NmtFunction = 1
	NmtStopRemoteNode       NmtFunction = 2
	NmtEnterPreOperational  NmtFunction = 128
	NmtResetNode            NmtFunction = 129
	NmtResetCommunication   NmtFunction = 130
)

var nmtFunctionNames = map[NmtFunction]string{
	NmtStartRemoteNode:     "start remote node",
	NmtStopRemoteNode:      "stop remote node",
	NmtEnterPreOperational: "enter pre-operational",
	NmtResetNode:           "reset node",
	NmtResetCommunication:  "reset communication",
}

func (f NmtFunction) String() string {
	if name, ok := nmtFunctionNames[f]; ok {
		return name
	}
	return fmt.Sprintf("NmtFunction(%d)", uint8(f))
}

func DecodeNmtFunction(raw uint8) (NmtFunction, bool) {
	f := NmtFunction(raw)
	_, ok := nmtFunctionNames[f]
	return f, ok
}

// NmtState is the node state reported in a node guard / heartbeat
// response byte (CiA 301 Table 18, bits 0-6; bit 7 is the toggle bit
// and handled separately by the guard codec).
type NmtState uint8

const (
	NmtStateInitializing   NmtState = 0
	NmtStateStopped        NmtState = 4
	NmtStateOperational    NmtState = 5
	NmtStatePreOperational NmtState = 127
)

var nmtStateNames = map[NmtState]string{
	NmtStateInitializing:   "initializing",
	NmtStateStopped:        "stopped",
	NmtStateOperational:    "operational",
	NmtStatePreOperational: "pre-operational",
}

func (s NmtState) String() string {
	if name, ok := nmtStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("NmtState(%d)", uint8(s))
}

func DecodeNmtState(raw uint8) (NmtState, bool) {
	s := NmtState(raw & 0x7F)
	_, ok := nmtStateNames[s]
	return s, ok
}
