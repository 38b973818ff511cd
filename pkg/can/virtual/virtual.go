// Package virtual implements a CAN transport over TCP, for exercising
// the SDO client engine and message codec without real CAN hardware.
// A Broker relays frames between every connected Dial'd peer, the same
// way a real bus delivers every transmitted frame to every other
// node.
package virtual

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	canopeners "github.com/b-camacho/canopeners"
	"github.com/b-camacho/canopeners/pkg/can"
)

// Broker accepts TCP connections and relays every frame it receives
// from one connection to all others, simulating a shared CAN bus.
type Broker struct {
	listener net.Listener
	logger   *log.Entry

	mu    sync.Mutex
	conns map[net.Conn]bool
	wg    sync.WaitGroup
}

func NewBroker(addr string) (*Broker, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("virtual: listen: %w", err)
	}
	b := &Broker{
		listener: ln,
		logger:   log.WithField("component", "virtual-broker"),
		conns:    make(map[net.Conn]bool),
	}
	b.wg.Add(1)
	go b.acceptLoop()
	return b, nil
}

func (b *Broker) Addr() string {
	return b.listener.Addr().String()
}

func (b *Broker) Close() error {
	err := b.listener.Close()
	b.mu.Lock()
	for c := range b.conns {
		c.Close()
	}
	b.mu.Unlock()
	b.wg.Wait()
	return err
}

func (b *Broker) acceptLoop() {
	defer b.wg.Done()
	for {
		conn, err := b.listener.Accept()
		if err != nil {
			return
		}
		b.mu.Lock()
		b.conns[conn] = true
		b.mu.Unlock()
		b.wg.Add(1)
		go b.relay(conn)
	}
}

func (b *Broker) relay(conn net.Conn) {
	defer b.wg.Done()
	defer func() {
		b.mu.Lock()
		delete(b.conns, conn)
		b.mu.Unlock()
		conn.Close()
	}()
	for {
		raw, err := readFrame(conn)
		if err != nil {
			return
		}
		b.mu.Lock()
		for peer := range b.conns {
			if peer == conn {
				continue
			}
			_ = peer.SetWriteDeadline(time.Now().Add(time.Second))
			_ = writeFrame(peer, raw)
		}
		b.mu.Unlock()
	}
}

func serializeFrame(frame can.Frame) []byte {
	buf := make([]byte, 0, 13)
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], frame.ID)
	buf = append(buf, idBuf[:]...)
	buf = append(buf, frame.DLC)
	buf = append(buf, frame.Data[:]...)
	return buf
}

func deserializeFrame(raw []byte) (can.Frame, error) {
	if len(raw) != 13 {
		return can.Frame{}, fmt.Errorf("virtual: malformed frame, got %d bytes", len(raw))
	}
	var f can.Frame
	f.ID = binary.BigEndian.Uint32(raw[0:4])
	f.DLC = raw[4]
	copy(f.Data[:], raw[5:13])
	return f, nil
}

func writeFrame(conn net.Conn, raw []byte) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(raw)))
	_, err := conn.Write(append(header[:], raw...))
	return err
}

func readFrame(conn net.Conn) ([]byte, error) {
	var header [4]byte
	if _, err := readFull(conn, header[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(header[:])
	buf := make([]byte, length)
	if _, err := readFull(conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	return io.ReadFull(conn, buf)
}

// Transport dials a Broker and exchanges frames with it over a plain
// blocking TCP connection. It implements can.Transport.
type Transport struct {
	conn         net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func Dial(addr string) (*Transport, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("virtual: dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}
	return &Transport{conn: conn}, nil
}

func (t *Transport) Send(frame can.Frame) error {
	if t.writeTimeout > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	}
	raw := serializeFrame(frame)
	if err := writeFrame(t.conn, raw); err != nil {
		return wrapNetError(err, t.writeTimeout)
	}
	return nil
}

func (t *Transport) Recv() (can.Frame, error) {
	if t.readTimeout > 0 {
		_ = t.conn.SetReadDeadline(time.Now().Add(t.readTimeout))
	}
	raw, err := readFrame(t.conn)
	if err != nil {
		return can.Frame{}, wrapNetError(err, t.readTimeout)
	}
	return deserializeFrame(raw)
}

func wrapNetError(err error, timeout time.Duration) error {
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return &canopeners.TimeoutError{Milliseconds: int(timeout.Milliseconds())}
	}
	return &canopeners.IOError{Err: err}
}

func (t *Transport) SetReadTimeout(d time.Duration) error {
	t.readTimeout = d
	if d <= 0 {
		return t.conn.SetReadDeadline(time.Time{})
	}
	return nil
}

func (t *Transport) SetWriteTimeout(d time.Duration) error {
	t.writeTimeout = d
	if d <= 0 {
		return t.conn.SetWriteDeadline(time.Time{})
	}
	return nil
}

func (t *Transport) Close() error {
	return t.conn.Close()
}
