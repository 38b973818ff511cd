// Package socketcan implements can.Transport over a Linux SocketCAN
// raw CAN socket using golang.org/x/sys/unix directly, rather than
// going through net.Conn (SocketCAN sockets are not stream sockets).
package socketcan

import (
	"fmt"
	"net"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
)

// wireFrame matches struct can_frame from linux/can.h byte for byte.
type wireFrame struct {
	ID   uint32
	Len  uint8
	_    [3]uint8
	Data [8]uint8
}

const wireFrameSize = 16

// Transport is a blocking SocketCAN Transport. It opens exactly one
// frame at a time: Send and Recv each issue a single syscall and block
// (subject to whatever timeout was last configured) rather than
// batching, since the SDO client engine only ever needs one frame in
// flight per request/response turn.
type Transport struct {
	fd int
}

// Open binds a raw CAN_RAW socket to the named interface (e.g. "can0").
// The interface must already be up.
func Open(ifaceName string) (*Transport, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("socketcan: %w", err)
	}
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("socketcan: create socket: %w", err)
	}
	addr := &unix.SockaddrCAN{Ifindex: iface.Index}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("socketcan: bind %s: %w", ifaceName, err)
	}
	return &Transport{fd: fd}, nil
}

func (t *Transport) Send(frame can.Frame) error {
	wf := wireFrame{ID: frame.ID, Len: frame.DLC, Data: frame.Data}
	raw := (*(*[wireFrameSize]byte)(unsafe.Pointer(&wf)))[:]
	n, err := unix.Write(t.fd, raw)
	if err != nil {
		return &canopeners.IOError{Err: err}
	}
	if n != wireFrameSize {
		return &canopeners.IOError{Err: fmt.Errorf("short write: %d of %d bytes", n, wireFrameSize)}
	}
	return nil
}

func (t *Transport) Recv() (can.Frame, error) {
	raw := make([]byte, wireFrameSize)
	n, err := unix.Read(t.fd, raw)
	if err != nil {
		return can.Frame{}, &canopeners.IOError{Err: err}
	}
	if n != wireFrameSize {
		return can.Frame{}, &canopeners.IOError{Err: fmt.Errorf("short read: %d of %d bytes", n, wireFrameSize)}
	}
	wf := (*wireFrame)(unsafe.Pointer(&raw[0]))
	return can.Frame{ID: wf.ID, DLC: wf.Len, Data: wf.Data}, nil
}

func (t *Transport) SetReadTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	return unix.SetsockoptTimeval(t.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)
}

func (t *Transport) SetWriteTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	return unix.SetsockoptTimeval(t.fd, unix.SOL_SOCKET, unix.SO_SNDTIMEO, &tv)
}

// SetReceiveOwn toggles CAN_RAW_RECV_OWN_MSGS, useful when testing
// against a local vcan interface with a single process on both ends.
func (t *Transport) SetReceiveOwn(enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	return unix.SetsockoptInt(t.fd, unix.SOL_CAN_RAW, unix.CAN_RAW_RECV_OWN_MSGS, v)
}

// SetFilters installs a set of CAN_RAW_FILTER acceptance filters.
func (t *Transport) SetFilters(filters []unix.CanFilter) error {
	return unix.SetsockoptCanRawFilter(t.fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FILTER, filters)
}

func (t *Transport) Close() error {
	return unix.Close(t.fd)
}
