// Package enums holds the value tables shared by every CANopen message
// type: SDO abort codes, emergency error codes/registers, NMT commands
// and node guarding states. None of these carry behaviour of their own,
// they are just the encode/decode tables the rest of the module builds
// on.
package enums

import "fmt"

// AbortCode is the 32 bit abort code carried in the last four bytes of
// an SDO abort transfer frame (CiA 301 Table 23).
type AbortCode uint32

const (
	AbortToggleBitNotAlternated           AbortCode = 0x05030000
	AbortSdoProtocolTimedOut              AbortCode = 0x05040000
	AbortInvalidClientServerCommand       AbortCode = 0x05040001
	AbortInvalidBlockSize                 AbortCode = 0x05040002
	AbortInvalidSequenceNumber            AbortCode = 0x05040003
	AbortCrcError                         AbortCode = 0x05040004
	AbortOutOfMemory                      AbortCode = 0x05040005
	AbortUnsupportedAccess                AbortCode = 0x06010000
	AbortAttemptToReadWriteOnlyObject     AbortCode = 0x06010001
	AbortAttemptToWriteReadOnlyObject     AbortCode = 0x06010002
	AbortObjectNotInDictionary            AbortCode = 0x06020000
	AbortObjectCannotBeMappedToPdo        AbortCode = 0x06040041
	AbortExceedPdoLength                  AbortCode = 0x06040042
	AbortGeneralParameterIncompatibility  AbortCode = 0x06040043
	AbortGeneralInternalIncompatibility   AbortCode = 0x06040047
	AbortHardwareError                    AbortCode = 0x06060000
	AbortDataTypeMismatchLengthMismatch   AbortCode = 0x06070010
	AbortDataTypeMismatchLengthTooHigh    AbortCode = 0x06070012
	AbortDataTypeMismatchLengthTooLow     AbortCode = 0x06070013
	AbortSubIndexDoesNotExist             AbortCode = 0x06090011
	AbortInvalidValueForParameter         AbortCode = 0x06090030
	AbortValueTooHigh                     AbortCode = 0x06090031
	AbortValueTooLow                      AbortCode = 0x06090032
	AbortMaxLessThanMin                   AbortCode = 0x06090036
	AbortResourceNotAvailable             AbortCode = 0x060A0023
	AbortGeneralError                     AbortCode = 0x08000000
	AbortDataTransferOrStorageFailed      AbortCode = 0x08000020
	AbortLocalControlPreventsDataTransfer AbortCode = 0x08000021
	AbortDeviceStatePreventsDataTransfer  AbortCode = 0x08000022
	AbortObjectDictionaryGenerationFailed AbortCode = 0x08000023
	AbortNoDataAvailable                  AbortCode = 0x08000024
)

var abortDescriptions = map[AbortCode]string{
	AbortToggleBitNotAlternated:           "toggle bit not alternated",
	AbortSdoProtocolTimedOut:              "SDO protocol timed out",
	AbortInvalidClientServerCommand:       "invalid client/server command specifier",
	AbortInvalidBlockSize:                 "invalid block size",
	AbortInvalidSequenceNumber:            "invalid sequence number",
	AbortCrcError:                         "CRC error",
	AbortOutOfMemory:                      "out of memory",
	AbortUnsupportedAccess:                "unsupported access to an object",
	AbortAttemptToReadWriteOnlyObject:     "attempt to read a write only object",
	AbortAttemptToWriteReadOnlyObject:     "attempt to write a read only object",
	AbortObjectNotInDictionary:            "object does not exist in the object dictionary",
	AbortObjectCannotBeMappedToPdo:        "object cannot be mapped to the PDO",
	AbortExceedPdoLength:                  "number and length of mapped objects exceeds PDO length",
	AbortGeneralParameterIncompatibility:  "general parameter incompatibility reason",
	AbortGeneralInternalIncompatibility:   "general internal incompatibility in device",
	AbortHardwareError:                    "access failed due to a hardware error",
	AbortDataTypeMismatchLengthMismatch:   "data type does not match, length of service parameter does not match",
	AbortDataTypeMismatchLengthTooHigh:    "data type does not match, length of service parameter too high",
	AbortDataTypeMismatchLengthTooLow:     "data type does not match, length of service parameter too low",
	AbortSubIndexDoesNotExist:             "sub-index does not exist",
	AbortInvalidValueForParameter:         "invalid value for parameter",
	AbortValueTooHigh:                     "value of parameter written too high",
	AbortValueTooLow:                      "value of parameter written too low",
	AbortMaxLessThanMin:                   "maximum value is less than minimum value",
	AbortResourceNotAvailable:             "resource not available: SDO connection",
	AbortGeneralError:                     "general error",
	AbortDataTransferOrStorageFailed:      "data cannot be transferred or stored to the application",
	AbortLocalControlPreventsDataTransfer: "data cannot be transferred because of local control",
	AbortDeviceStatePreventsDataTransfer:  "data cannot be transferred because of the present device state",
	AbortObjectDictionaryGenerationFailed: "object dictionary dynamic generation fails or no object dictionary present",
	AbortNoDataAvailable:                  "no data available",
}

// DecodeAbortCode validates that code is one of the 31 codes defined by
// CiA 301. Unknown values are rejected rather than passed through, since
// a junk abort code is itself a protocol violation.
func DecodeAbortCode(code uint32) (AbortCode, bool) {
	ac := AbortCode(code)
	_, ok := abortDescriptions[ac]
	return ac, ok
}

func (a AbortCode) Encode() uint32 {
	return uint32(a)
}

func (a AbortCode) String() string {
	if desc, ok := abortDescriptions[a]; ok {
		return desc
	}
	return fmt.Sprintf("unknown abort code 0x%08X", uint32(a))
}

func (a AbortCode) Error() string {
	return fmt.Sprintf("sdo abort 0x%08X: %s", uint32(a), a.String())
}
