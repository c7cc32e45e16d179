package infrared

import (
	"log"
	"sync"
)

// Worker wraps a Link into the transceiver primitives the controller needs:
// continuous background receive capture and blocking send. It keeps at most
// one captured frame, the most recent, consumed at most once by
// PollReceived. Frames that arrive while capture is stopped are lost by
// design; stopping is how the channel is yielded to another subsystem.
type Worker struct {
	link Link

	mu        sync.Mutex
	receiving bool
	capture   []TimePair
	stop      chan struct{}
	done      chan struct{}
}

// NewWorker creates a worker over the given link. Capture starts stopped.
func NewWorker(link Link) *Worker {
	return &Worker{link: link}
}

// StartReceiving activates background capture. Idempotent. Any traffic that
// queued up on the link while capture was stopped is discarded first, so a
// signal that physically arrived during a pause never surfaces as a hit.
func (w *Worker) StartReceiving() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.receiving {
		return
	}

	for {
		select {
		case <-w.link.Frames():
			log.Printf("Discarding frame captured while receive was stopped")
			continue
		default:
		}
		break
	}

	w.receiving = true
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.captureLoop(w.stop, w.done)
}

// StopReceiving deactivates background capture. Idempotent.
func (w *Worker) StopReceiving() {
	w.mu.Lock()
	if !w.receiving {
		w.mu.Unlock()
		return
	}
	w.receiving = false
	stop, done := w.stop, w.done
	w.mu.Unlock()

	close(stop)
	<-done
}

func (w *Worker) captureLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case frame := <-w.link.Frames():
			w.mu.Lock()
			w.capture = frame
			w.mu.Unlock()
		}
	}
}

// PollReceived returns the most recent captured raw frame once, consuming
// it. Non-blocking.
func (w *Worker) PollReceived() ([]TimePair, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	frame := w.capture
	w.capture = nil
	return frame, frame != nil
}

// Transmit drives the link to emit the signal's waveform, blocking until
// the transmission completes.
func (w *Worker) Transmit(signal *Signal) error {
	return w.link.Transmit(signal.MarshalFrame())
}

// Healthy reports whether the underlying board is still connected.
func (w *Worker) Healthy() bool {
	return w.link.Healthy()
}

// Close stops capture and releases the link.
func (w *Worker) Close() error {
	w.StopReceiving()
	return w.link.Close()
}
