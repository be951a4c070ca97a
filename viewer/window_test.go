package viewer

import (
	"fmt"
	"testing"

	"iotview/models"
)

func numberedMessage(n int) *models.Message {
	return &models.Message{Fields: []models.Field{
		{Name: "seq", Value: models.NumberValue(float64(n))},
	}}
}

func seq(msg *models.Message) string {
	v, _ := msg.Get("seq")
	return v.Display()
}

func TestWindow(t *testing.T) {
	t.Run("never exceeds capacity and stays newest-first", func(t *testing.T) {
		w := NewWindow(DefaultWindowSize)
		for i := 1; i <= 100; i++ {
			w.Push(numberedMessage(i))
			if w.Len() > DefaultWindowSize {
				t.Fatalf("window grew to %d after %d pushes", w.Len(), i)
			}
			if got := seq(w.Snapshot()[0]); got != fmt.Sprintf("%d", i) {
				t.Fatalf("newest entry is %s after pushing %d", got, i)
			}
		}
	})

	t.Run("15 arrivals keep exactly the most recent 11", func(t *testing.T) {
		w := NewWindow(DefaultWindowSize)
		for i := 1; i <= 15; i++ {
			w.Push(numberedMessage(i))
		}

		snapshot := w.Snapshot()
		if len(snapshot) != 11 {
			t.Fatalf("expected 11 entries, got %d", len(snapshot))
		}
		for i, msg := range snapshot {
			want := fmt.Sprintf("%d", 15-i)
			if got := seq(msg); got != want {
				t.Errorf("entry %d: expected seq %s, got %s", i, want, got)
			}
		}
	})

	t.Run("zero size falls back to the default", func(t *testing.T) {
		w := NewWindow(0)
		for i := 0; i < 20; i++ {
			w.Push(numberedMessage(i))
		}
		if w.Len() != DefaultWindowSize {
			t.Errorf("expected %d entries, got %d", DefaultWindowSize, w.Len())
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		w := NewWindow(3)
		w.Push(numberedMessage(1))
		snapshot := w.Snapshot()
		w.Push(numberedMessage(2))
		if len(snapshot) != 1 || seq(snapshot[0]) != "1" {
			t.Error("snapshot mutated by a later push")
		}
	})
}
