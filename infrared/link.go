package infrared

import (
	"errors"
	"log"
	"sync"
	"time"
)

// Link abstracts the physical transmit/receive channel. Transmit blocks for
// the real-time duration of the frame, the way driving the emitter does.
// Frames delivers every frame seen on the air, including the link's own
// transmissions: ambient broadcast echoes back to the sender, and callers
// are expected to suppress their own echo.
type Link interface {
	Transmit([]TimePair) error
	Frames() <-chan []TimePair
	Healthy() bool
	Close() error
}

// ErrLinkClosed is returned when transmitting on a closed link.
var ErrLinkClosed = errors.New("infrared: link closed")

// frameBufferLen bounds how many captured frames a link may hold before
// older traffic is dropped.
const frameBufferLen = 8

// Hub is an in-process "air": every frame transmitted by any attached link
// is delivered to all attached links, sender included. It serves tests and
// solo play when no LAN air is available.
type Hub struct {
	mu    sync.Mutex
	links []*LoopbackLink
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// NewLink attaches a new device to the hub's air.
func (h *Hub) NewLink() *LoopbackLink {
	l := &LoopbackLink{
		hub:     h,
		frames:  make(chan []TimePair, frameBufferLen),
		healthy: true,
	}
	h.mu.Lock()
	h.links = append(h.links, l)
	h.mu.Unlock()
	return l
}

func (h *Hub) broadcast(pairs []TimePair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range h.links {
		l.deliver(pairs)
	}
}

func (h *Hub) detach(link *LoopbackLink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, l := range h.links {
		if l == link {
			h.links = append(h.links[:i], h.links[i+1:]...)
			return
		}
	}
}

// LoopbackLink is a Link carried over an in-process Hub.
type LoopbackLink struct {
	hub    *Hub
	frames chan []TimePair

	mu      sync.Mutex
	closed  bool
	healthy bool
}

// Transmit broadcasts the frame on the hub, blocking for the frame's
// real-time duration the way the emitter hardware does.
func (l *LoopbackLink) Transmit(pairs []TimePair) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLinkClosed
	}
	l.mu.Unlock()

	l.hub.broadcast(pairs)
	time.Sleep(FrameDuration(pairs))
	return nil
}

// Frames returns the capture channel.
func (l *LoopbackLink) Frames() <-chan []TimePair {
	return l.frames
}

func (l *LoopbackLink) deliver(pairs []TimePair) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	frame := make([]TimePair, len(pairs))
	copy(frame, pairs)
	select {
	case l.frames <- frame:
	default:
		log.Printf("Loopback link buffer full, dropping frame")
	}
}

// Healthy reports whether the simulated board is connected.
func (l *LoopbackLink) Healthy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.healthy && !l.closed
}

// SetHealthy is a fault-injection hook simulating a board disconnect.
func (l *LoopbackLink) SetHealthy(healthy bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.healthy = healthy
}

// Close detaches the link from the hub.
func (l *LoopbackLink) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()
	l.hub.detach(l)
	return nil
}
