package chatapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const sessionPayload = `[
	{"_id":"64b2f0c8a1d2e3f4a5b6c7d8","title":"Older","createdAt":"2025-01-01T08:00:00Z","updatedAt":"2025-01-01T09:00:00Z","status":"resolved","messages":[]},
	{"_id":"64b2f0c8a1d2e3f4a5b6c7d9","title":"Newer","createdAt":"2025-01-02T08:00:00Z","updatedAt":"2025-01-02T09:00:00Z","status":"active","messages":[]}
]`

func historyClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL, 5*time.Second, nil), srv
}

func TestFetchHistoryBareArray(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("t") == "" {
			t.Error("cache-busting query parameter missing")
		}
		if cc := r.Header.Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("Cache-Control: got %q", cc)
		}
		w.Write([]byte(sessionPayload))
	})

	sessions, err := c.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions", len(sessions))
	}
	// Descending updatedAt, regardless of input order.
	if sessions[0].Title != "Newer" || sessions[1].Title != "Older" {
		t.Fatalf("wrong order: %q then %q", sessions[0].Title, sessions[1].Title)
	}
}

func TestFetchHistoryEnvelopeMatchesBareArray(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":` + sessionPayload + `}`))
	})

	sessions, err := c.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 2 || sessions[0].Title != "Newer" {
		t.Fatalf("envelope decode diverged from bare array: %+v", sessions)
	}
}

func TestFetchHistoryEnvelopeFailure(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"mongo down"}`))
	})

	_, err := c.FetchHistory(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "mongo down") {
		t.Fatalf("reason lost: %v", err)
	}
	if KindOf(err) != KindBusiness {
		t.Fatalf("kind: got %q", KindOf(err))
	}
}

func TestFetchHistoryUnrecognizedShape(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"what"`))
	})

	_, err := c.FetchHistory(context.Background())
	if KindOf(err) != KindFormat {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestFetchHistoryHTTPFailure(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.FetchHistory(context.Background())
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestFetchHistoryIdempotent(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sessionPayload))
	})

	first, err := c.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := c.FetchHistory(context.Background())
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths diverge: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order diverges at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestDeleteSession(t *testing.T) {
	var gotPath string
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodDelete {
			t.Errorf("method: got %s", r.Method)
		}
		w.Write([]byte(`{"message":"deleted"}`))
	})

	if err := c.DeleteSession(context.Background(), "64b2f0c8a1d2e3f4a5b6c7d8"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/chat-history/64b2f0c8a1d2e3f4a5b6c7d8" {
		t.Fatalf("path: got %q", gotPath)
	}
}

func TestDeleteSessionAlreadyGone(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.DeleteSession(context.Background(), "64b2f0c8a1d2e3f4a5b6c7d8")
	if !errors.Is(err, ErrSessionGone) {
		t.Fatalf("expected ErrSessionGone, got %v", err)
	}
}

func TestDeleteSessionRejectsInvalidID(t *testing.T) {
	called := false
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, id := range []string{"", "short", "not-hex-not-hex-not-hex-", "64b2f0c8a1d2e3f4a5b6c7d8ff"} {
		err := c.DeleteSession(context.Background(), id)
		if err == nil {
			t.Fatalf("id %q: expected validation error", id)
		}
		if KindOf(err) != KindBusiness {
			t.Fatalf("id %q: kind %q", id, KindOf(err))
		}
	}
	if called {
		t.Fatal("invalid id reached the wire")
	}
}
