package viewer

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"iotview/models"
)

// disconnectQuiesce is how long the broker client gets to flush in-flight
// work on disconnect, in milliseconds.
const disconnectQuiesce = 250

// Options tunes a Viewer. The zero value gives the default window size and
// no change notifications.
type Options struct {
	WindowSize int
	// Notify, when set, is invoked after every state or window change. It
	// must not block; the terminal front-end uses it to wake its render
	// loop.
	Notify func()
}

// Viewer owns one broker session and the bounded message window for a
// single connection record. Lifecycle: Disconnected -> Connecting ->
// Connected -> Disconnected, with connection loss treated as Disconnected.
// There is no automatic reconnect; the user reconnects manually.
type Viewer struct {
	conn   *models.Connection
	logger *slog.Logger
	notify func()

	// newClient is swapped in tests.
	newClient func(*mqtt.ClientOptions) mqtt.Client

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	state    State
	client   mqtt.Client
	window   *Window
	received uint64
	dropped  uint64
}

func New(conn *models.Connection, opts Options, logger *slog.Logger) *Viewer {
	v := &Viewer{
		conn:      conn,
		logger:    logger.With("component", "viewer", "connection_id", conn.ConnectionID),
		notify:    opts.Notify,
		newClient: mqtt.NewClient,
		events:    make(chan Event, 64),
		done:      make(chan struct{}),
		window:    NewWindow(opts.WindowSize),
	}
	go v.run()
	return v
}

// Connection returns the record this viewer was built from.
func (v *Viewer) Connection() *models.Connection {
	return v.conn
}

// Connect starts a broker session and subscribes to the configured topic.
// It returns immediately; the outcome arrives as an event. A second call
// while not disconnected is rejected.
func (v *Viewer) Connect() error {
	v.mu.Lock()
	if v.state != StateDisconnected {
		v.mu.Unlock()
		return fmt.Errorf("viewer is already %s", v.state)
	}
	v.state = StateConnecting

	opts := mqtt.NewClientOptions().
		AddBroker(v.conn.BrokerURL()).
		SetClientID(newClientID()).
		SetKeepAlive(time.Duration(v.conn.KeepAlive) * time.Second).
		SetAutoReconnect(false).
		SetCleanSession(true)
	if v.conn.AuthenticatedBroker {
		opts.SetUsername(v.conn.Username).SetPassword(v.conn.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		v.send(Event{Type: EventLost, Err: err})
	})

	client := v.newClient(opts)
	v.client = client
	v.mu.Unlock()
	v.changed()

	go func() {
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			v.send(Event{Type: EventConnectFailed, Err: token.Error()})
			return
		}
		topic := v.conn.SubscribeTopic
		if token := client.Subscribe(topic, byte(v.conn.QoS), v.onMessage); token.Wait() && token.Error() != nil {
			client.Disconnect(disconnectQuiesce)
			v.send(Event{Type: EventConnectFailed, Err: fmt.Errorf("failed to subscribe to topic %s: %w", topic, token.Error())})
			return
		}
		// Close may have raced the in-flight connect. The session opened
		// here must not outlive the viewer.
		if !v.send(Event{Type: EventConnected, client: client}) {
			client.Disconnect(disconnectQuiesce)
		}
	}()
	return nil
}

// Disconnect ends the broker session. Idempotent: a disconnect is only
// sent when the session reports itself connected.
func (v *Viewer) Disconnect() {
	v.mu.Lock()
	client := v.client
	v.state = StateDisconnected
	v.client = nil
	v.mu.Unlock()

	if client != nil && client.IsConnected() {
		client.Disconnect(disconnectQuiesce)
		v.logger.Info("disconnected from broker")
	}
	v.changed()
}

// Close tears the viewer down: disconnects an open session and stops the
// event loop. Safe to call more than once.
func (v *Viewer) Close() {
	v.closeOnce.Do(func() {
		v.Disconnect()
		close(v.done)
	})
}

func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Snapshot returns the current window, newest first.
func (v *Viewer) Snapshot() []*models.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.window.Snapshot()
}

// Counts reports accepted and dropped (malformed) message totals.
func (v *Viewer) Counts() (received, dropped uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.received, v.dropped
}

func (v *Viewer) onMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := append([]byte(nil), msg.Payload()...)
	v.send(Event{Type: EventMessage, Payload: payload})
}

// send routes an event to the loop, reporting whether the loop will see it.
// A closed viewer drops events.
func (v *Viewer) send(ev Event) bool {
	select {
	case v.events <- ev:
		return true
	case <-v.done:
		return false
	}
}

func (v *Viewer) run() {
	for {
		select {
		case <-v.done:
			return
		case ev := <-v.events:
			v.handle(ev)
		}
	}
}

func (v *Viewer) handle(ev Event) {
	switch ev.Type {
	case EventConnected:
		v.mu.Lock()
		if v.client != ev.client {
			// Disconnect raced the in-flight connect; the session that
			// just opened is no longer wanted.
			v.mu.Unlock()
			if ev.client != nil && ev.client.IsConnected() {
				ev.client.Disconnect(disconnectQuiesce)
			}
			return
		}
		v.state = StateConnected
		v.mu.Unlock()
		v.logger.Info("connected to broker", "topic", v.conn.SubscribeTopic, "qos", v.conn.QoS)

	case EventConnectFailed:
		v.mu.Lock()
		v.state = StateDisconnected
		v.client = nil
		v.mu.Unlock()
		v.logger.Error("broker connect failed", slog.Any("error", ev.Err))

	case EventLost:
		v.mu.Lock()
		v.state = StateDisconnected
		v.client = nil
		v.mu.Unlock()
		v.logger.Error("broker connection lost", slog.Any("error", ev.Err))

	case EventMessage:
		msg, err := models.DecodeMessage(ev.Payload, time.Now())
		if err != nil {
			v.mu.Lock()
			v.dropped++
			v.mu.Unlock()
			v.logger.Warn("dropping malformed payload", slog.Any("error", err))
			break
		}
		v.mu.Lock()
		v.window.Push(msg)
		v.received++
		v.mu.Unlock()
	}
	v.changed()
}

func (v *Viewer) changed() {
	if v.notify != nil {
		v.notify()
	}
}

// newClientID generates a fresh random client identifier per connect
// attempt. Collisions are accepted, not mitigated.
func newClientID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "mqttjs_" + id[:8]
}
