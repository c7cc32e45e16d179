// Package infrared implements the infrared hit-detection subsystem: the
// fixed shoot-signal waveform, the transceiver worker that owns the raw
// pulse channel, and the controller that arbitrates shots against incoming
// hits.
package infrared

import "time"

// CommandShoot is the one command byte this game transmits and accepts.
const CommandShoot byte = 0xA1

// TimePair encodes a mark/space pair: carrier on for [0], off for [1].
type TimePair [2]time.Duration

// Pulse-distance encoding, modulated on the usual 38 kHz consumer IR
// carrier. A frame is a header pair, eight data bits LSB-first
// distinguished by space length, and a stop pair.
var (
	headerPair = TimePair{4500 * time.Microsecond, 4500 * time.Microsecond}
	onePair    = TimePair{560 * time.Microsecond, 1690 * time.Microsecond}
	zeroPair   = TimePair{560 * time.Microsecond, 560 * time.Microsecond}
	stopPair   = TimePair{560 * time.Microsecond, 560 * time.Microsecond}
)

// frameLen is header + 8 data bits + stop.
const frameLen = 10

// timingTolerance is how far a received mark or space may deviate from the
// nominal value before the capture is rejected.
const timingTolerance = 200 * time.Microsecond

// Signal is the immutable encoded representation of one command. It is
// built once at controller initialization and read-only afterwards.
type Signal struct {
	command byte
}

// NewSignal creates the signal for the given command byte.
func NewSignal(command byte) *Signal {
	return &Signal{command: command}
}

// Command returns the command byte the signal encodes.
func (s *Signal) Command() byte {
	return s.command
}

// MarshalFrame encodes the signal as the mark/space pairs to drive the
// emitter with.
func (s *Signal) MarshalFrame() []TimePair {
	out := make([]TimePair, 0, frameLen)
	out = append(out, headerPair)
	for bit := 0; bit < 8; bit++ {
		if (s.command>>bit)&1 == 1 {
			out = append(out, onePair)
		} else {
			out = append(out, zeroPair)
		}
	}
	out = append(out, stopPair)
	return out
}

// FrameDuration returns the real-time length of an encoded frame, which
// bounds how long a blocking transmit takes.
func FrameDuration(pairs []TimePair) time.Duration {
	var total time.Duration
	for _, p := range pairs {
		total += p[0] + p[1]
	}
	return total
}

// Decoder is the receive-side state machine. Pairs are fed in one at a
// time as the demodulator yields them; a header pair opens a frame, eight
// data pairs accumulate the command byte LSB-first, and a stop pair closes
// the frame and delivers the byte through CmdHandler. Any out-of-spec pair
// abandons the frame in progress, so a fresh header always resynchronizes
// the stream.
type Decoder struct {
	CmdHandler func(byte)

	buf      byte
	bitcount int
	inFrame  bool
}

// NewDecoder creates a decoder delivering completed command bytes to
// cmdHandler.
func NewDecoder(cmdHandler func(byte)) *Decoder {
	return &Decoder{CmdHandler: cmdHandler}
}

// HandleTimePair feeds the decoder one mark/space pair.
func (d *Decoder) HandleTimePair(pair TimePair) {
	if nearPair(pair, headerPair) {
		d.buf = 0
		d.bitcount = 0
		d.inFrame = true
		return
	}
	if !d.inFrame {
		return
	}

	if d.bitcount == 8 {
		if near(pair[0], stopPair[0]) {
			d.CmdHandler(d.buf)
		}
		d.inFrame = false
		return
	}

	switch {
	case nearPair(pair, onePair):
		d.buf |= 1 << d.bitcount
		d.bitcount++
	case nearPair(pair, zeroPair):
		d.bitcount++
	default:
		d.inFrame = false
	}
}

// DecodeFrame validates a captured raw frame against the protocol and
// returns the decoded command byte. Any capture that does not run the
// decoder to completion (wrong length, bad header, out-of-spec pulse
// timing) is rejected, not coerced.
func DecodeFrame(pairs []TimePair) (byte, bool) {
	if len(pairs) != frameLen {
		return 0, false
	}
	var (
		command byte
		decoded bool
	)
	d := NewDecoder(func(c byte) {
		command = c
		decoded = true
	})
	for _, p := range pairs {
		d.HandleTimePair(p)
	}
	return command, decoded
}

func nearPair(got, want TimePair) bool {
	return near(got[0], want[0]) && near(got[1], want[1])
}

func near(got, want time.Duration) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= timingTolerance
}
