package infrared

import (
	"fmt"
	"log"
	"sync"

	"lasertag/notify"
)

// sendState makes the transmit window an explicit state instead of a bare
// flag, so illegal transitions are detectable in tests.
type sendState int

const (
	sendIdle sendState = iota
	sendSending
)

// Controller orchestrates the transceiver worker: it sends the shoot
// signal, polls for received hits, suppresses self-inflicted echoes, and
// exposes the pause/resume bracket that yields the channel to the RFID
// reader.
//
// A pending hit is reported to the caller exactly once: Receive returns and
// clears it, never dropping nor double-counting.
type Controller struct {
	mu       sync.Mutex
	worker   *Worker
	signal   *Signal
	notifier notify.Notifier
	openLink func() (Link, error)

	send        sendState
	hitReceived bool
	paused      bool
}

// NewController opens the infrared hardware and starts receive capture.
// A link that cannot be opened is fatal to construction; the caller treats
// it like any other allocation failure.
func NewController(openLink func() (Link, error), notifier notify.Notifier) (*Controller, error) {
	link, err := openLink()
	if err != nil {
		return nil, fmt.Errorf("infrared board init: %w", err)
	}

	c := &Controller{
		worker:   NewWorker(link),
		signal:   NewSignal(CommandShoot),
		notifier: notifier,
		openLink: openLink,
	}
	c.worker.StartReceiving()
	log.Printf("Infrared controller ready, command 0x%02X", c.signal.Command())
	return c, nil
}

// Send transmits the shoot signal. While a prior transmit is outstanding
// the call is a no-op; re-entrant fire is not an error. Receive capture is
// stopped for the duration of the transmit (the channel-sharing hardware
// cannot do both), which also guarantees the echo of our own transmission
// is never mistaken for an incoming hit: it queues on the link while
// capture is down and is discarded when capture restarts.
func (c *Controller) Send() {
	c.mu.Lock()
	if c.send == sendSending {
		c.mu.Unlock()
		log.Printf("Send ignored, transmission already in flight")
		return
	}
	c.send = sendSending
	worker, signal, paused := c.worker, c.signal, c.paused
	c.mu.Unlock()

	if !paused {
		worker.StopReceiving()
	}
	if err := worker.Transmit(signal); err != nil {
		log.Printf("Transmit failed: %v", err)
	}
	if !paused {
		worker.StartReceiving()
	}

	c.mu.Lock()
	c.send = sendIdle
	c.mu.Unlock()
}

// Sending reports whether a transmission is currently in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send == sendSending
}

// Receive polls the worker for a captured frame, decodes it, and reports
// whether a genuine hit is pending. Captures that don't decode to the shoot
// command are ignored; captures decoded while our own transmission is in
// flight are discarded (self-hit immunity).
func (c *Controller) Receive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if frame, ok := c.worker.PollReceived(); ok {
		command, valid := DecodeFrame(frame)
		switch {
		case !valid:
			log.Printf("Ignoring undecodable capture (%d pairs)", len(frame))
		case command != c.signal.Command():
			log.Printf("Ignoring capture with foreign command 0x%02X", command)
		case c.send == sendSending:
			log.Printf("Discarding self-transmission during send")
		default:
			c.hitReceived = true
		}
	}

	hit := c.hitReceived
	c.hitReceived = false
	return hit
}

// Pause stops receive capture so a competing subsystem can use the
// timing-sensitive hardware. Idempotent.
func (c *Controller) Pause() {
	c.mu.Lock()
	if c.paused {
		c.mu.Unlock()
		return
	}
	c.paused = true
	worker := c.worker
	c.mu.Unlock()

	worker.StopReceiving()
	log.Printf("Infrared receive paused")
}

// Resume restarts receive capture after a pause. Idempotent.
func (c *Controller) Resume() {
	c.mu.Lock()
	if !c.paused {
		c.mu.Unlock()
		return
	}
	c.paused = false
	worker := c.worker
	c.mu.Unlock()

	worker.StartReceiving()
	log.Printf("Infrared receive resumed")
}

// UpdateBoardStatus is the per-tick hardware health check. A disconnected
// board is recovered by reopening the link and rebuilding the worker;
// failure to recover surfaces only as notification feedback.
func (c *Controller) UpdateBoardStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.worker.Healthy() {
		return
	}
	log.Printf("Infrared board disconnected, attempting re-initialization")

	c.worker.Close()
	link, err := c.openLink()
	if err != nil {
		log.Printf("Board re-initialization failed: %v", err)
		c.notifier.ErrorTone()
		return
	}
	c.worker = NewWorker(link)
	if !c.paused {
		c.worker.StartReceiving()
	}
	log.Printf("Infrared board re-initialized")
}

// Close tears the controller down, releasing the hardware. Pending flags
// die with the controller; a fresh game allocates a fresh one.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worker.Close()
}
