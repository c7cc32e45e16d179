// Package rfid holds the ammo-tag reader contract. Only the start/stop/
// callback surface and the 5-byte tag payload matter to the game; the tag
// scanning protocol itself lives in the reader implementation.
package rfid

import (
	"log"
	"sync"
)

// Tag payload: exactly TagLength bytes, opening with the game magic.
// data[3] is the opcode, data[4] the operand.
const (
	TagLength = 5

	magic0 = 0x13
	magic1 = 0x37

	// OpGrantAmmo grants up to data[4] rounds of ammo.
	OpGrantAmmo = 0xFD
)

// ParseTag validates a raw tag payload and returns the maximum ammo grant
// it carries. Any payload of the wrong shape is ignored without error;
// that's a stranger's tag, not a fault.
func ParseTag(data []byte) (maxDelta int, ok bool) {
	if len(data) != TagLength {
		log.Printf("Tag is not for game. Length: %d", len(data))
		return 0, false
	}
	if data[0] != magic0 || data[1] != magic1 {
		log.Printf("Tag is not for game. Data: % 02x", data)
		return 0, false
	}
	if data[3] != OpGrantAmmo {
		log.Printf("Tag action unknown: %02x %02x", data[3], data[4])
		return 0, false
	}
	return int(data[4]), true
}

// Reader is the external tag reader collaborator. The game brackets a scan
// window with Start/Stop; Poll delivers at most one pending tag to the
// callback, and is only called from inside the window's polling loop so the
// callback's state mutation is serialized with the game loop.
type Reader interface {
	Start()
	Stop()
	SetTagCallback(func(data []byte))
	Poll()
}

// SimReader simulates the tag reader: tags are injected from outside (the
// window's key handler, or tests) into a single-slot cell and handed to the
// callback on the next Poll.
type SimReader struct {
	mu      sync.Mutex
	running bool
	cb      func(data []byte)
	pending []byte
}

// NewSimReader creates an idle simulated reader.
func NewSimReader() *SimReader {
	return &SimReader{}
}

// SetTagCallback installs the tag handler.
func (r *SimReader) SetTagCallback(cb func(data []byte)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cb = cb
}

// Start powers the reader on.
func (r *SimReader) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
	log.Printf("RFID reader started")
}

// Stop powers the reader off, discarding any undelivered tag.
func (r *SimReader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.pending = nil
	log.Printf("RFID reader stopped")
}

// InjectTag presents a tag to the reader. Tags presented while the reader
// is off are not seen, same as holding a tag to powered-down hardware.
func (r *SimReader) InjectTag(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		log.Printf("Tag presented while reader off, ignoring")
		return
	}
	tag := make([]byte, len(data))
	copy(tag, data)
	r.pending = tag
}

// Poll delivers a pending tag, if any, to the callback on the caller's
// goroutine.
func (r *SimReader) Poll() {
	r.mu.Lock()
	tag := r.pending
	r.pending = nil
	cb := r.cb
	running := r.running
	r.mu.Unlock()

	if tag == nil || cb == nil || !running {
		return
	}
	cb(tag)
}
