package infrared

import (
	"encoding/binary"
	"fmt"
	"log"
	"math/rand"
	"net"
	"sync"
	"time"
)

// UDPLink carries frames as broadcast datagrams on a LAN port so that
// several devices genuinely tag each other, mirroring the ambient infrared
// medium. Each datagram starts with a random per-link sender id; a link
// drops datagrams carrying its own id and instead echoes its transmissions
// locally, so the sender sees exactly one echo just like real IR bounce.
type UDPLink struct {
	conn   *net.UDPConn
	baddr  *net.UDPAddr
	sender uint32
	frames chan []TimePair

	mu     sync.Mutex
	closed bool
	fault  bool
}

// datagram layout: 4-byte sender id, then 8 bytes per pair
// (two big-endian uint32 microsecond values).
const (
	senderIDLen  = 4
	pairWireLen  = 8
	maxFrameWire = senderIDLen + 64*pairWireLen
)

// NewUDPLink opens the shared air port. Failure here is treated as a board
// initialization failure by the controller.
func NewUDPLink(port int) (*UDPLink, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, fmt.Errorf("open air port %d: %w", port, err)
	}
	l := &UDPLink{
		conn:   conn,
		baddr:  &net.UDPAddr{IP: net.IPv4bcast, Port: port},
		sender: rand.Uint32(),
		frames: make(chan []TimePair, frameBufferLen),
	}
	go l.readLoop()
	return l, nil
}

// Transmit broadcasts the frame and blocks for its real-time duration.
func (l *UDPLink) Transmit(pairs []TimePair) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLinkClosed
	}
	l.mu.Unlock()

	if _, err := l.conn.WriteToUDP(marshalFrame(l.sender, pairs), l.baddr); err != nil {
		return fmt.Errorf("transmit frame: %w", err)
	}

	// Local echo: ambient broadcast reaches the sender too.
	l.deliver(pairs)

	time.Sleep(FrameDuration(pairs))
	return nil
}

// Frames returns the capture channel.
func (l *UDPLink) Frames() <-chan []TimePair {
	return l.frames
}

func (l *UDPLink) readLoop() {
	buf := make([]byte, maxFrameWire)
	for {
		n, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			l.mu.Lock()
			if !l.closed {
				log.Printf("Air read failed, flagging board fault: %v", err)
				l.fault = true
			}
			l.mu.Unlock()
			return
		}
		sender, pairs, ok := unmarshalFrame(buf[:n])
		if !ok {
			log.Printf("Ignoring malformed air datagram (%d bytes)", n)
			continue
		}
		if sender == l.sender {
			// Already echoed locally at transmit time.
			continue
		}
		l.deliver(pairs)
	}
}

func (l *UDPLink) deliver(pairs []TimePair) {
	frame := make([]TimePair, len(pairs))
	copy(frame, pairs)
	select {
	case l.frames <- frame:
	default:
		log.Printf("Air link buffer full, dropping frame")
	}
}

// Healthy reports whether the air port is still usable.
func (l *UDPLink) Healthy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.fault && !l.closed
}

// Close releases the air port.
func (l *UDPLink) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	return l.conn.Close()
}

func marshalFrame(sender uint32, pairs []TimePair) []byte {
	out := make([]byte, senderIDLen+len(pairs)*pairWireLen)
	binary.BigEndian.PutUint32(out, sender)
	for i, p := range pairs {
		off := senderIDLen + i*pairWireLen
		binary.BigEndian.PutUint32(out[off:], uint32(p[0]/time.Microsecond))
		binary.BigEndian.PutUint32(out[off+4:], uint32(p[1]/time.Microsecond))
	}
	return out
}

func unmarshalFrame(data []byte) (sender uint32, pairs []TimePair, ok bool) {
	if len(data) < senderIDLen || (len(data)-senderIDLen)%pairWireLen != 0 {
		return 0, nil, false
	}
	sender = binary.BigEndian.Uint32(data)
	count := (len(data) - senderIDLen) / pairWireLen
	pairs = make([]TimePair, count)
	for i := 0; i < count; i++ {
		off := senderIDLen + i*pairWireLen
		pairs[i] = TimePair{
			time.Duration(binary.BigEndian.Uint32(data[off:])) * time.Microsecond,
			time.Duration(binary.BigEndian.Uint32(data[off+4:])) * time.Microsecond,
		}
	}
	return sender, pairs, true
}
