package chatapi

import (
	"encoding/json"
	"time"
)

// wrappedDate is the Mongo extended-JSON form some history records arrive in:
// {"$date": "2025-01-03T09:00:00.000Z"}.
type wrappedDate struct {
	Date string `json:"$date"`
}

// normalizeTimestamp converts a raw wire timestamp into a canonical instant.
// It accepts an RFC3339 string or a wrapped-date object; anything missing or
// unrecognized falls back to now so the transform pipeline never carries an
// invalid instant.
func normalizeTimestamp(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Now()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		return time.Now()
	}

	var w wrappedDate
	if err := json.Unmarshal(raw, &w); err == nil && w.Date != "" {
		if t, err := time.Parse(time.RFC3339, w.Date); err == nil {
			return t
		}
	}
	return time.Now()
}
