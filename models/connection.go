package models

import (
	"fmt"
	"strings"
	"time"
)

// Connection is a broker connection record owned by the backend. This
// application only reads it; field names mirror the backend JSON exactly,
// including the misspelled connection_discription key.
type Connection struct {
	ConnectionID        string   `json:"connection_id"`
	ConnectionName      string   `json:"connection_name"`
	ConnectionDesc      string   `json:"connection_discription"`
	ConnectionURL       string   `json:"connection_url"`
	Port                int      `json:"port"`
	Protocol            string   `json:"protocol"`
	TypeOfConnection    string   `json:"typeof_connection"`
	PingStatus          bool     `json:"ping_status"`
	AuthenticatedBroker bool     `json:"authenticated_broker"`
	Username            string   `json:"username"`
	Password            string   `json:"password"`
	KeepAlive           int      `json:"keep_alive"`
	QoS                 int      `json:"qos"`
	SubscribeTopic      string   `json:"subscribe_topic"`
	ResponseParameters  []string `json:"response_parameters"`
	CreatedAt           string   `json:"created_at"`
}

// BrokerURL builds the WebSocket endpoint the viewer dials. The /mqtt path
// suffix is the broker's protocol upgrade endpoint; TLS is not used.
func (c *Connection) BrokerURL() string {
	return fmt.Sprintf("ws://%s:%d/mqtt", c.ConnectionURL, c.Port)
}

// MaskedPassword returns a fixed-width mask for display. The plaintext
// password never reaches a screen.
func (c *Connection) MaskedPassword() string {
	if c.Password == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}

// FormatCreatedAt renders the backend timestamp for the detail screen,
// falling back to the raw value when it is not RFC 3339.
func (c *Connection) FormatCreatedAt() string {
	if c.CreatedAt == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, c.CreatedAt)
	if err != nil {
		return c.CreatedAt
	}
	return t.Format("02 Jan 2006 15:04")
}
