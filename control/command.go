// Package control defines the lightweight input event messages queued from
// the window's key handlers to the application game loop. The loop drains
// one event per tick, which centralizes state changes and avoids races.
package control

// Key enumerates the physical buttons of the handheld device.
type Key int

const (
	KeyOk Key = iota
	KeyBack
	KeyUp
	KeyDown
)

// String returns the button name, used in diagnostic logs.
func (k Key) String() string {
	switch k {
	case KeyOk:
		return "Ok"
	case KeyBack:
		return "Back"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	}
	return "Unknown"
}

// EventType distinguishes an initial press from key auto-repeat.
type EventType int

const (
	TypePress EventType = iota
	TypeRepeat
)

// InputEvent is the message sent from the input callbacks to the game loop.
// The queue is bounded; producers drop events rather than block the UI.
type InputEvent struct {
	Type EventType
	Key  Key
}
