package models

import (
	"encoding/json"
	"testing"
	"time"
)

var testArrival = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestDecodeMessage(t *testing.T) {
	t.Run("preserves payload field order and stamps arrival last", func(t *testing.T) {
		payload := []byte(`{"temperature": 21.5, "humidity": 40, "status": "normal"}`)

		msg, err := DecodeMessage(payload, testArrival)
		if err != nil {
			t.Fatalf("DecodeMessage failed: %v", err)
		}

		wantOrder := []string{"temperature", "humidity", "status", ArrivalTimeField}
		if len(msg.Fields) != len(wantOrder) {
			t.Fatalf("expected %d fields, got %d", len(wantOrder), len(msg.Fields))
		}
		for i, name := range wantOrder {
			if msg.Fields[i].Name != name {
				t.Errorf("field %d: expected %q, got %q", i, name, msg.Fields[i].Name)
			}
		}
		if got := msg.ArrivalTime(); got != "14-03-2026 09:26:53" {
			t.Errorf("unexpected arrival stamp %q", got)
		}
	})

	t.Run("decodes value kinds", func(t *testing.T) {
		payload := []byte(`{"n": 3.5, "s": "on", "b": true, "z": null, "o": {"a": 1}, "l": [1, 2]}`)

		msg, err := DecodeMessage(payload, testArrival)
		if err != nil {
			t.Fatalf("DecodeMessage failed: %v", err)
		}

		checks := []struct {
			name string
			kind Kind
		}{
			{"n", KindNumber},
			{"s", KindString},
			{"b", KindBool},
			{"z", KindNull},
			{"o", KindRaw},
			{"l", KindRaw},
		}
		for _, check := range checks {
			v, ok := msg.Get(check.name)
			if !ok {
				t.Fatalf("field %q missing", check.name)
			}
			if v.Kind != check.kind {
				t.Errorf("field %q: expected kind %d, got %d", check.name, check.kind, v.Kind)
			}
		}
		if v, _ := msg.Get("o"); string(v.Raw) != `{"a":1}` {
			t.Errorf("nested object not kept verbatim: %s", v.Raw)
		}
	})

	t.Run("a publisher-supplied arrivalTime is replaced by the local stamp", func(t *testing.T) {
		payload := []byte(`{"arrivalTime": "spoofed-by-publisher", "temperature": 21}`)

		msg, err := DecodeMessage(payload, testArrival)
		if err != nil {
			t.Fatalf("DecodeMessage failed: %v", err)
		}
		if got := msg.ArrivalTime(); got != "14-03-2026 09:26:53" {
			t.Errorf("publisher value leaked into the arrival stamp: %q", got)
		}
		if len(msg.Fields) != 2 {
			t.Fatalf("expected 2 fields, got %d", len(msg.Fields))
		}

		data, err := json.Marshal(msg)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if want := `{"arrivalTime":"14-03-2026 09:26:53","temperature":21}`; string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		if _, err := DecodeMessage([]byte(`{"temperature": 21.5`), testArrival); err == nil {
			t.Error("expected error for truncated JSON")
		}
		if _, err := DecodeMessage([]byte(`not json at all`), testArrival); err == nil {
			t.Error("expected error for non-JSON payload")
		}
	})

	t.Run("rejects non-object payloads", func(t *testing.T) {
		for _, payload := range []string{`42`, `"text"`, `[1,2,3]`, `true`} {
			if _, err := DecodeMessage([]byte(payload), testArrival); err == nil {
				t.Errorf("expected error for payload %s", payload)
			}
		}
	})
}

func TestMessageMarshalJSON(t *testing.T) {
	msg := &Message{Fields: []Field{
		{Name: "b", Value: NumberValue(2)},
		{Name: "a", Value: StringValue("x")},
	}}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"b":2,"a":"x"}` {
		t.Errorf("field order not preserved: %s", data)
	}
}

func TestValueDisplay(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{NumberValue(21.5), "21.5"},
		{NumberValue(40), "40"},
		{StringValue("warning"), "warning"},
		{BoolValue(true), "true"},
		{Value{Kind: KindNull}, ""},
	}
	for _, c := range cases {
		if got := c.value.Display(); got != c.want {
			t.Errorf("Display() = %q, want %q", got, c.want)
		}
	}
}
