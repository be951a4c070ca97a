package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ArrivalTimeFormat is the display format stamped on each message at the
// moment of decode (dd-MM-yyyy HH:mm:ss).
const ArrivalTimeFormat = "02-01-2006 15:04:05"

// ArrivalTimeField is the field name carrying the local receipt timestamp.
const ArrivalTimeField = "arrivalTime"

// Kind enumerates the payload value variants the viewer distinguishes.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindNull
	// KindRaw holds nested objects and arrays verbatim; the viewer never
	// looks inside them.
	KindRaw
)

// Value is one telemetry payload value. Payload shape is not validated, so
// every field is a small variant rather than a typed struct member.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Bool bool
	Raw  json.RawMessage
}

// NumberValue builds a numeric Value.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// StringValue builds a string Value.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// BoolValue builds a boolean Value.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Display renders the value the way the table and text export show it.
// Null renders empty.
func (v Value) Display() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindRaw:
		return string(v.Raw)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Num)
	case KindString:
		return json.Marshal(v.Str)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindRaw:
		return v.Raw, nil
	default:
		return []byte("null"), nil
	}
}

// Field is one named payload value.
type Field struct {
	Name  string
	Value Value
}

// Message is one decoded telemetry payload. Fields keep the payload's
// original key order so exports are deterministic; the arrival stamp is
// appended as an ordinary final field.
type Message struct {
	Fields []Field
}

// Get looks up a field by name.
func (m *Message) Get(name string) (Value, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// ArrivalTime returns the local receipt stamp, empty if absent.
func (m *Message) ArrivalTime() string {
	v, _ := m.Get(ArrivalTimeField)
	return v.Str
}

// MarshalJSON writes the message as a JSON object preserving field order.
func (m *Message) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeMessage parses a raw broker payload into a Message and stamps the
// arrival time. Only JSON objects are accepted; anything else is a decode
// failure and the caller drops the message.
func DecodeMessage(payload []byte, arrival time.Time) (*Message, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '{' {
		return nil, fmt.Errorf("payload is not a JSON object")
	}

	msg := &Message{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON payload: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid JSON payload: non-string key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON payload: %w", err)
		}
		value, err := decodeValue(raw)
		if err != nil {
			return nil, err
		}
		msg.Fields = append(msg.Fields, Field{Name: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}

	msg.setArrivalTime(arrival)
	return msg, nil
}

// setArrivalTime stamps the local receipt time. A payload may carry its own
// arrivalTime key; the local stamp replaces it in place so the publisher can
// never spoof the receipt time and the field is never duplicated.
func (m *Message) setArrivalTime(arrival time.Time) {
	stamp := Field{
		Name:  ArrivalTimeField,
		Value: StringValue(arrival.Format(ArrivalTimeFormat)),
	}
	for i := range m.Fields {
		if m.Fields[i].Name == ArrivalTimeField {
			m.Fields[i] = stamp
			return
		}
	}
	m.Fields = append(m.Fields, stamp)
}

func decodeValue(raw json.RawMessage) (Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("empty JSON value")
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return Value{}, fmt.Errorf("invalid JSON literal %q", trimmed)
		}
		return Value{Kind: KindNull}, nil
	case '{', '[':
		var compact bytes.Buffer
		if err := json.Compact(&compact, trimmed); err != nil {
			return Value{}, err
		}
		return Value{Kind: KindRaw, Raw: json.RawMessage(compact.Bytes())}, nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return Value{}, err
		}
		return NumberValue(n), nil
	}
}
