package canopeners

import (
	"fmt"

	"github.com/b-camacho/canopeners/pkg/enums"
)

// Error families surfaced by this module. Parse/validation errors
// (BadMessageError, ParseError, UnknownFrameError) are non-fatal to the
// underlying connection: the offending frame is discarded and the
// caller keeps going. Protocol errors (SdoAbortError) only abort the
// in-flight SDO transfer. Transport errors (TimeoutError, IOError,
// ConnectionError) are surfaced verbatim; whether the connection stays
// usable afterwards is transport dependent.

// OverflowError is returned when an SDO payload is larger than the
// field that carries it: more than 4 bytes in an expedited initiate,
// more than 7 bytes in a segment, or more than math.MaxUint32 bytes in
// a whole write.
type OverflowError struct {
	Requested int
	Max       int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("canopeners: payload of %d bytes exceeds maximum of %d", e.Requested, e.Max)
}

// TimeoutError is returned when a blocking transport call or an SDO
// request/response turn does not complete within the configured
// deadline.
type TimeoutError struct {
	Milliseconds int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("canopeners: timed out after %dms", e.Milliseconds)
}

// BadMessageError is returned when a frame is structurally invalid for
// the message type it claims to be (wrong length, reserved bits set).
type BadMessageError struct {
	Reason string
}

func (e *BadMessageError) Error() string {
	return fmt.Sprintf("canopeners: bad message: %s", e.Reason)
}

// ConnectionError is returned by Transport implementations when the
// underlying link is no longer usable (socket closed, interface down).
type ConnectionError struct {
	Reason string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("canopeners: connection error: %s", e.Reason)
}

// CanVersionError is returned when a frame uses the extended (29 bit)
// CAN identifier format. This module only understands the standard
// 11 bit CANopen addressing scheme.
type CanVersionError struct {
	ID uint32
}

func (e *CanVersionError) Error() string {
	return fmt.Sprintf("canopeners: frame id 0x%X uses the extended CAN id format, not supported", e.ID)
}

// ParseError is returned when a numeric field inside an otherwise
// well-formed frame does not decode to any known value (an emergency
// error code outside every CiA 301 band, for instance).
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("canopeners: parse error: %s", e.Reason)
}

// UnknownFrameError is returned when a COB-ID does not map to any
// CANopen function code this module decodes.
type UnknownFrameError struct {
	ID uint32
}

func (e *UnknownFrameError) Error() string {
	return fmt.Sprintf("canopeners: no known message type for frame id 0x%X", e.ID)
}

// NotYetImplementedError marks a code path for functionality that is
// explicitly out of scope for this module (block transfer, MPDO, ...).
type NotYetImplementedError struct {
	What string
}

func (e *NotYetImplementedError) Error() string {
	return fmt.Sprintf("canopeners: %s not implemented", e.What)
}

// SdoAbortError wraps an abort code received from (or sent to) an SDO
// server, terminating the transfer it was raised on.
type SdoAbortError struct {
	Code enums.AbortCode
}

func (e *SdoAbortError) Error() string {
	return e.Code.Error()
}

func (e *SdoAbortError) Unwrap() error {
	return e.Code
}

// IOError wraps a lower-level transport I/O failure (syscall error,
// closed socket) without reinterpreting it.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("canopeners: io error: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
