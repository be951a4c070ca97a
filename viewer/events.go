package viewer

import mqtt "github.com/eclipse/paho.mqtt.golang"

// EventType tags a broker callback routed through the viewer's event
// channel. All broker callbacks are reduced to these four, consumed by a
// single goroutine that owns the window.
type EventType int

const (
	EventConnected EventType = iota
	EventConnectFailed
	EventMessage
	EventLost
)

// Event is one tagged broker event. Connected events carry the client the
// connect goroutine opened, so the loop can tell a current session from one
// a disconnect already abandoned.
type Event struct {
	Type    EventType
	Payload []byte
	Err     error
	client  mqtt.Client
}

// State is the broker session lifecycle state. ConnectionLost is folded
// into Disconnected for display.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}
