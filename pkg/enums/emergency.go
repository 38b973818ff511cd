package enums

import "fmt"

// EmergencyErrorCode is the 16 bit error code carried in the first two
// bytes of an EMCY frame (CiA 301 Table 23). Codes are grouped by the
// high nibble into bands (0x1000 generic, 0x2000 current, 0x3000
// voltage, ...); most devices only ever emit the band root, but CiA 301
// reserves sub-ranges for manufacturer and profile specific detail, so
// decode has to fall back from an exact match down to the enclosing
// band rather than rejecting anything outside the literal table.
type EmergencyErrorCode int

const (
	ErrorResetOrNoError EmergencyErrorCode = iota
	ErrorGeneric
	ErrorCurrent
	ErrorCurrentInputSide
	ErrorCurrentInsideDevice
	ErrorCurrentOutputSide
	ErrorVoltage
	ErrorMainsVoltage
	ErrorVoltageInsideDevice
	ErrorOutputVoltage
	ErrorTemperature
	ErrorAmbientTemperature
	ErrorDeviceTemperature
	ErrorDeviceHardware
	ErrorDeviceSoftware
	ErrorInternalSoftware
	ErrorUserSoftware
	ErrorDataSet
	ErrorAdditionalModules
	ErrorMonitoring
	ErrorCommunication
	ErrorCommunicationCanOverrun
	ErrorCommunicationErrorPassiveMode
	ErrorCommunicationLifeGuardError
	ErrorCommunicationRecoveredBusOff
	ErrorCommunicationCanIdCollision
	ErrorProtocol
	ErrorProtocolPdoLength
	ErrorProtocolPdoLengthExceeded
	ErrorProtocolDamMpdo
	ErrorProtocolUnexpectedSyncLength
	ErrorProtocolRpdoTimeout
	ErrorExternal
	ErrorAdditionalFunctions
	ErrorDeviceSpecific
)

var emergencyCodeNames = map[EmergencyErrorCode]string{
	ErrorResetOrNoError:                "reset or no error",
	ErrorGeneric:                       "generic error",
	ErrorCurrent:                       "current",
	ErrorCurrentInputSide:              "current, CAN input side",
	ErrorCurrentInsideDevice:           "current inside the device",
	ErrorCurrentOutputSide:             "current, output side",
	ErrorVoltage:                       "voltage",
	ErrorMainsVoltage:                  "mains voltage",
	ErrorVoltageInsideDevice:           "voltage inside the device",
	ErrorOutputVoltage:                 "output voltage",
	ErrorTemperature:                   "temperature",
	ErrorAmbientTemperature:            "ambient temperature",
	ErrorDeviceTemperature:             "device temperature",
	ErrorDeviceHardware:                "device hardware",
	ErrorDeviceSoftware:                "device software",
	ErrorInternalSoftware:              "internal software",
	ErrorUserSoftware:                  "user software",
	ErrorDataSet:                       "data set",
	ErrorAdditionalModules:             "additional modules",
	ErrorMonitoring:                    "monitoring",
	ErrorCommunication:                 "communication",
	ErrorCommunicationCanOverrun:       "CAN overrun (objects lost)",
	ErrorCommunicationErrorPassiveMode: "CAN in error passive mode",
	ErrorCommunicationLifeGuardError:   "life guard error or heartbeat error",
	ErrorCommunicationRecoveredBusOff:  "recovered from bus off",
	ErrorCommunicationCanIdCollision:   "CAN-ID collision",
	ErrorProtocol:                      "protocol error",
	ErrorProtocolPdoLength:             "PDO not processed due to length error",
	ErrorProtocolPdoLengthExceeded:     "PDO length exceeded",
	ErrorProtocolDamMpdo:               "DAM MPDO not processed, destination object not available",
	ErrorProtocolUnexpectedSyncLength:  "unexpected SYNC data length",
	ErrorProtocolRpdoTimeout:           "RPDO timeout",
	ErrorExternal:                      "external error",
	ErrorAdditionalFunctions:           "additional functions",
	ErrorDeviceSpecific:                "device specific",
}

func (c EmergencyErrorCode) String() string {
	if name, ok := emergencyCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("EmergencyErrorCode(%d)", int(c))
}

// DecodeEmergencyErrorCode classifies a raw 16 bit error code. Exact
// matches for the named sub-codes are tried first, then the named
// sub-ranges, then the unclaimed remainder of a band collapses to the
// band's general Communication/ProtocolError bucket, and finally the
// band roots themselves. Ordering matters: a wider range checked first
// would shadow the narrower, more specific one.
func DecodeEmergencyErrorCode(code uint16) (EmergencyErrorCode, error) {
	switch {
	case code == 0x8110:
		return ErrorCommunicationCanOverrun, nil
	case code == 0x8120:
		return ErrorCommunicationErrorPassiveMode, nil
	case code == 0x8130:
		return ErrorCommunicationLifeGuardError, nil
	case code == 0x8140:
		return ErrorCommunicationRecoveredBusOff, nil
	case code == 0x8150:
		return ErrorCommunicationCanIdCollision, nil
	case code == 0x8210:
		return ErrorProtocolPdoLength, nil
	case code == 0x8220:
		return ErrorProtocolPdoLengthExceeded, nil
	case code == 0x8230:
		return ErrorProtocolDamMpdo, nil
	case code == 0x8240:
		return ErrorProtocolUnexpectedSyncLength, nil
	case code == 0x8250:
		return ErrorProtocolRpdoTimeout, nil
	case code >= 0x2100 && code <= 0x21FF:
		return ErrorCurrentInputSide, nil
	case code >= 0x2200 && code <= 0x22FF:
		return ErrorCurrentInsideDevice, nil
	case code >= 0x2300 && code <= 0x23FF:
		return ErrorCurrentOutputSide, nil
	case code >= 0x3100 && code <= 0x31FF:
		return ErrorMainsVoltage, nil
	case code >= 0x3200 && code <= 0x32FF:
		return ErrorVoltageInsideDevice, nil
	case code >= 0x3300 && code <= 0x33FF:
		return ErrorOutputVoltage, nil
	case code >= 0x4100 && code <= 0x41FF:
		return ErrorAmbientTemperature, nil
	case code >= 0x4200 && code <= 0x42FF:
		return ErrorDeviceTemperature, nil
	case code >= 0x6100 && code <= 0x61FF:
		return ErrorInternalSoftware, nil
	case code >= 0x6200 && code <= 0x62FF:
		return ErrorUserSoftware, nil
	case code >= 0x6300 && code <= 0x63FF:
		return ErrorDataSet, nil
	case code >= 0x8100 && code <= 0x810F,
		code >= 0x8111 && code <= 0x811F,
		code >= 0x8121 && code <= 0x812F,
		code >= 0x8131 && code <= 0x813F,
		code >= 0x8141 && code <= 0x814F,
		code >= 0x8151 && code <= 0x81FF:
		return ErrorCommunication, nil
	case code >= 0x8211 && code <= 0x821F,
		code >= 0x8221 && code <= 0x822F,
		code >= 0x8231 && code <= 0x823F,
		code >= 0x8241 && code <= 0x824F,
		code >= 0x8251 && code <= 0x82FF:
		return ErrorProtocol, nil
	case code >= 0x2000 && code <= 0x20FF:
		return ErrorCurrent, nil
	case code >= 0x3000 && code <= 0x30FF:
		return ErrorVoltage, nil
	case code >= 0x4000 && code <= 0x40FF:
		return ErrorTemperature, nil
	case code >= 0x5000 && code <= 0x50FF:
		return ErrorDeviceHardware, nil
	case code >= 0x6000 && code <= 0x60FF:
		return ErrorDeviceSoftware, nil
	case code >= 0x7000 && code <= 0x70FF:
		return ErrorAdditionalModules, nil
	case code >= 0x8000 && code <= 0x80FF:
		return ErrorMonitoring, nil
	case code >= 0x8200 && code <= 0x820F:
		return ErrorProtocol, nil
	case code >= 0x9000 && code <= 0x90FF:
		return ErrorExternal, nil
	case code >= 0xF000 && code <= 0xF0FF:
		return ErrorAdditionalFunctions, nil
	case code >= 0xFF00 && code <= 0xFFFF:
		return ErrorDeviceSpecific, nil
	case code <= 0x00FF:
		return ErrorResetOrNoError, nil
	case code >= 0x1000 && code <= 0x10FF:
		return ErrorGeneric, nil
	default:
		return 0, fmt.Errorf("canopeners: bad emergency error code 0x%04X", code)
	}
}

// EncodeEmergencyErrorCode returns the band root for c. It is
// deliberately lossy for the sub-range variants produced by decode
// (e.g. ErrorCommunication always re-encodes to 0x8100), matching the
// device-facing semantics: a producer only ever emits the documented
// roots, never an arbitrary code inside a reserved sub-range.
func EncodeEmergencyErrorCode(c EmergencyErrorCode) (uint16, error) {
	switch c {
	case ErrorResetOrNoError:
		return 0x0000, nil
	case ErrorGeneric:
		return 0x1000, nil
	case ErrorCurrent:
		return 0x2000, nil
	case ErrorCurrentInputSide:
		return 0x2100, nil
	case ErrorCurrentInsideDevice:
		return 0x2200, nil
	case ErrorCurrentOutputSide:
		return 0x2300, nil
	case ErrorVoltage:
		return 0x3000, nil
	case ErrorMainsVoltage:
		return 0x3100, nil
	case ErrorVoltageInsideDevice:
		return 0x3200, nil
	case ErrorOutputVoltage:
		return 0x3300, nil
	case ErrorTemperature:
		return 0x4000, nil
	case ErrorAmbientTemperature:
		return 0x4100, nil
	case ErrorDeviceTemperature:
		return 0x4200, nil
	case ErrorDeviceHardware:
		return 0x5000, nil
	case ErrorDeviceSoftware:
		return 0x6000, nil
	case ErrorInternalSoftware:
		return 0x6100, nil
	case ErrorUserSoftware:
		return 0x6200, nil
	case ErrorDataSet:
		return 0x6300, nil
	case ErrorAdditionalModules:
		return 0x7000, nil
	case ErrorMonitoring:
		return 0x8000, nil
	case ErrorCommunication:
		return 0x8100, nil
	case ErrorCommunicationCanOverrun:
		return 0x8110, nil
	case ErrorCommunicationErrorPassiveMode:
		return 0x8120, nil
	case ErrorCommunicationLifeGuardError:
		return 0x8130, nil
	case ErrorCommunicationRecoveredBusOff:
		return 0x8140, nil
	case ErrorCommunicationCanIdCollision:
		return 0x8150, nil
	case ErrorProtocol:
		return 0x8200, nil
	case ErrorProtocolPdoLength:
		return 0x8210, nil
	case ErrorProtocolPdoLengthExceeded:
		return 0x8220, nil
	case ErrorProtocolDamMpdo:
		return 0x8230, nil
	case ErrorProtocolUnexpectedSyncLength:
		return 0x8240, nil
	case ErrorProtocolRpdoTimeout:
		return 0x8250, nil
	case ErrorExternal:
		return 0x9000, nil
	case ErrorAdditionalFunctions:
		return 0xF000, nil
	case ErrorDeviceSpecific:
		return 0xFF00, nil
	default:
		return 0, fmt.Errorf("canopeners: no wire encoding for %s", c)
	}
}

// EmergencyErrorRegister is a single bit of the CiA 301 error register
// (object 0x1001), carried as byte 2 of every EMCY frame.
type EmergencyErrorRegister uint8

const (
	RegisterGenericError          EmergencyErrorRegister = 0x01
	RegisterCurrent                EmergencyErrorRegister = 0x02
	RegisterVoltage                EmergencyErrorRegister = 0x04
	RegisterTemperature            EmergencyErrorRegister = 0x08
	RegisterCommunicationError     EmergencyErrorRegister = 0x10
	RegisterDeviceProfileSpecific  EmergencyErrorRegister = 0x20
	RegisterReserved                EmergencyErrorRegister = 0x40
	RegisterManufacturerSpecific   EmergencyErrorRegister = 0x80
)

// DecodeEmergencyErrorRegister splits a raw register byte into its set
// bits, in ascending bit order.
func DecodeEmergencyErrorRegister(raw uint8) []EmergencyErrorRegister {
	all := []EmergencyErrorRegister{
		RegisterGenericError, RegisterCurrent, RegisterVoltage, RegisterTemperature,
		RegisterCommunicationError, RegisterDeviceProfileSpecific, RegisterReserved,
		RegisterManufacturerSpecific,
	}
	var set []EmergencyErrorRegister
	for _, bit := range all {
		if raw&uint8(bit) != 0 {
			set = append(set, bit)
		}
	}
	return set
}

func EncodeEmergencyErrorRegister(bits []EmergencyErrorRegister) uint8 {
	var raw uint8
	for _, bit := range bits {
		raw |= uint8(bit)
	}
	return raw
}
