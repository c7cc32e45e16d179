package rfid

import "testing"

func TestParseTag(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantDelta int
		wantOk    bool
	}{
		{"Grant five rounds", []byte{0x13, 0x37, 0x00, 0xFD, 0x05}, 5, true},
		{"Grant zero rounds", []byte{0x13, 0x37, 0x00, 0xFD, 0x00}, 0, true},
		{"Too short", []byte{0x13, 0x37, 0x00, 0xFD}, 0, false},
		{"Too long", []byte{0x13, 0x37, 0x00, 0xFD, 0x05, 0x01}, 0, false},
		{"Wrong magic", []byte{0x13, 0x38, 0x00, 0xFD, 0x05}, 0, false},
		{"Unknown opcode", []byte{0x13, 0x37, 0x00, 0xAB, 0x05}, 0, false},
		{"Empty payload", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, ok := ParseTag(tt.data)
			if ok != tt.wantOk {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOk, ok)
			}
			if delta != tt.wantDelta {
				t.Errorf("Expected delta %d, got %d", tt.wantDelta, delta)
			}
		})
	}
}

func TestSimReaderDeliversTagOnPoll(t *testing.T) {
	r := NewSimReader()
	var got [][]byte
	r.SetTagCallback(func(data []byte) {
		got = append(got, data)
	})

	r.Start()
	r.InjectTag([]byte{0x13, 0x37, 0x00, OpGrantAmmo, 0x04})
	r.Poll()
	r.Poll() // a tag is delivered at most once
	r.Stop()

	if len(got) != 1 {
		t.Fatalf("Expected exactly one delivery, got %d", len(got))
	}
	if got[0][4] != 0x04 {
		t.Errorf("Expected tag payload to round-trip, got % 02x", got[0])
	}
}

func TestSimReaderIgnoresTagsWhileOff(t *testing.T) {
	r := NewSimReader()
	delivered := 0
	r.SetTagCallback(func([]byte) { delivered++ })

	r.InjectTag([]byte{0x13, 0x37, 0x00, OpGrantAmmo, 0x04})
	r.Start()
	r.Poll()
	r.Stop()

	if delivered != 0 {
		t.Errorf("Expected tag presented while off to be ignored, got %d deliveries", delivered)
	}
}

func TestSimReaderStopDiscardsPendingTag(t *testing.T) {
	r := NewSimReader()
	delivered := 0
	r.SetTagCallback(func([]byte) { delivered++ })

	r.Start()
	r.InjectTag([]byte{0x13, 0x37, 0x00, OpGrantAmmo, 0x04})
	r.Stop()
	r.Start()
	r.Poll()

	if delivered != 0 {
		t.Errorf("Expected stop to discard the undelivered tag, got %d deliveries", delivered)
	}
}
