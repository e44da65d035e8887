package chatapi

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeTimestampString(t *testing.T) {
	got := normalizeTimestamp(json.RawMessage(`"2025-01-03T09:00:00.000Z"`))
	want := time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeTimestampWrapped(t *testing.T) {
	got := normalizeTimestamp(json.RawMessage(`{"$date":"2025-01-03T14:30:00Z"}`))
	want := time.Date(2025, 1, 3, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeTimestampMalformedFallsBackToNow(t *testing.T) {
	cases := []json.RawMessage{
		nil,
		json.RawMessage(`""`),
		json.RawMessage(`"not a date"`),
		json.RawMessage(`{"$date":"garbage"}`),
		json.RawMessage(`{"$date":""}`),
		json.RawMessage(`{"other":"field"}`),
		json.RawMessage(`42`),
		json.RawMessage(`[1,2]`),
	}

	for _, raw := range cases {
		before := time.Now()
		got := normalizeTimestamp(raw)
		after := time.Now()
		if got.IsZero() {
			t.Fatalf("input %s: got zero instant", raw)
		}
		if got.Before(before) || got.After(after) {
			t.Fatalf("input %s: fallback %v not within [%v, %v]", raw, got, before, after)
		}
	}
}
