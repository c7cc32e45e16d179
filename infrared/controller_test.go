package infrared

import (
	"errors"
	"sync"
	"testing"
	"time"

	"lasertag/notify"
)

// fakeLink lets tests hold a transmit open to observe the sending window.
type fakeLink struct {
	mu        sync.Mutex
	frames    chan []TimePair
	transmits int
	started   chan struct{} // closed when the first transmit begins
	gate      chan struct{} // first transmit blocks until closed
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		frames:  make(chan []TimePair, frameBufferLen),
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
}

func (l *fakeLink) Transmit(pairs []TimePair) error {
	l.mu.Lock()
	l.transmits++
	first := l.transmits == 1
	l.mu.Unlock()
	if first {
		close(l.started)
		<-l.gate
	}
	return nil
}

func (l *fakeLink) Frames() <-chan []TimePair { return l.frames }
func (l *fakeLink) Healthy() bool             { return true }
func (l *fakeLink) Close() error              { return nil }

func (l *fakeLink) transmitCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transmits
}

type recordingNotifier struct {
	notify.Nop
	mu         sync.Mutex
	errorTones int
}

func (r *recordingNotifier) ErrorTone() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorTones++
}

func (r *recordingNotifier) errorToneCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errorTones
}

func openOn(hub *Hub) func() (Link, error) {
	return func() (Link, error) { return hub.NewLink(), nil }
}

func waitForHit(t *testing.T, c *Controller) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.Receive() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Expected a hit before the deadline")
}

func TestNewControllerPropagatesLinkFailure(t *testing.T) {
	boom := errors.New("no board")
	_, err := NewController(func() (Link, error) { return nil, boom }, notify.Nop{})
	if err == nil {
		t.Fatalf("Expected construction to fail when the link can't open")
	}
	if !errors.Is(err, boom) {
		t.Errorf("Expected wrapped link error, got %v", err)
	}
}

func TestSendIsNoOpWhileTransmitInFlight(t *testing.T) {
	link := newFakeLink()
	c, err := NewController(func() (Link, error) { return link, nil }, notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})
	go func() {
		c.Send()
		close(done)
	}()
	<-link.started

	if !c.Sending() {
		t.Errorf("Expected Sending while transmit is in flight")
	}

	// Back-to-back fire attempts during the outstanding transmit.
	c.Send()
	c.Send()

	close(link.gate)
	<-done

	if got := link.transmitCount(); got != 1 {
		t.Errorf("Expected exactly 1 transmit, got %d", got)
	}
	if c.Sending() {
		t.Errorf("Expected send window closed after transmit completes")
	}
}

func TestCaptureDecodedDuringSendWindowIsDiscarded(t *testing.T) {
	link := newFakeLink()
	c, err := NewController(func() (Link, error) { return link, nil }, notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer c.Close()

	// A shoot frame captured before the send window opens.
	link.frames <- NewSignal(CommandShoot).MarshalFrame()
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		c.Send()
		close(done)
	}()
	<-link.started

	if c.Receive() {
		t.Errorf("Expected capture decoded while sending to be discarded")
	}

	close(link.gate)
	<-done

	if c.Receive() {
		t.Errorf("Expected discarded capture not to resurface after the send")
	}
}

func TestOwnTransmissionNeverRegistersAsHit(t *testing.T) {
	hub := NewHub()
	c, err := NewController(openOn(hub), notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer c.Close()

	c.Send()
	time.Sleep(50 * time.Millisecond)

	if c.Receive() {
		t.Errorf("Expected own echo to be suppressed")
	}
}

func TestGenuineHitDeliveredExactlyOnce(t *testing.T) {
	hub := NewHub()
	shooter, err := NewController(openOn(hub), notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer shooter.Close()
	target, err := NewController(openOn(hub), notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer target.Close()

	shooter.Send()
	waitForHit(t, target)

	if target.Receive() {
		t.Errorf("Expected one capture to report exactly one hit")
	}
}

func TestPausedControllerCapturesNothing(t *testing.T) {
	hub := NewHub()
	shooter, err := NewController(openOn(hub), notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer shooter.Close()
	target, err := NewController(openOn(hub), notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer target.Close()

	target.Pause()
	target.Pause() // idempotent

	shooter.Send()
	time.Sleep(50 * time.Millisecond)
	if target.Receive() {
		t.Errorf("Expected no hit while paused, even though a signal arrived")
	}

	target.Resume()
	target.Resume() // idempotent

	// The shot that arrived during the pause stays lost after resuming.
	time.Sleep(20 * time.Millisecond)
	if target.Receive() {
		t.Errorf("Expected signal arriving during pause to be lost for good")
	}

	shooter.Send()
	waitForHit(t, target)
}

func TestUpdateBoardStatusRecoversDisconnectedBoard(t *testing.T) {
	hub := NewHub()
	var (
		mu     sync.Mutex
		opened []*LoopbackLink
	)
	openLink := func() (Link, error) {
		l := hub.NewLink()
		mu.Lock()
		opened = append(opened, l)
		mu.Unlock()
		return l, nil
	}

	c, err := NewController(openLink, notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer c.Close()

	c.UpdateBoardStatus()
	mu.Lock()
	count := len(opened)
	mu.Unlock()
	if count != 1 {
		t.Fatalf("Expected healthy board left alone, %d links opened", count)
	}

	mu.Lock()
	opened[0].SetHealthy(false)
	mu.Unlock()
	c.UpdateBoardStatus()

	mu.Lock()
	count = len(opened)
	mu.Unlock()
	if count != 2 {
		t.Fatalf("Expected board re-initialization to open a new link, %d opened", count)
	}

	// The rebuilt worker is live: an incoming shot still registers.
	shooter, err := NewController(openOn(hub), notify.Nop{})
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer shooter.Close()
	shooter.Send()
	waitForHit(t, c)
}

func TestUpdateBoardStatusFlagsUnrecoverableFault(t *testing.T) {
	hub := NewHub()
	first := hub.NewLink()
	calls := 0
	openLink := func() (Link, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return nil, errors.New("board gone")
	}

	rec := &recordingNotifier{}
	c, err := NewController(openLink, rec)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	defer c.Close()

	first.SetHealthy(false)
	c.UpdateBoardStatus()

	if rec.errorToneCount() != 1 {
		t.Errorf("Expected failed recovery to surface as an error tone, got %d", rec.errorToneCount())
	}
}
