package chatapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestSendStructuredEnvelope(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req sendRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request decode: %v", err)
		}
		if req.ChatID != "abc123" || req.Message != "hello" {
			t.Errorf("request: %+v", req)
		}
		w.Write([]byte(`{"success":true,"data":{"chat_id":"abc123","messages":[
			{"id":"m1","role":"user","content":"hello","timestamp":"2025-01-03T09:00:00Z"},
			{"id":"m2","role":"assistant","content":"hi there","timestamp":"2025-01-03T09:00:01Z"}
		]}}`))
	})

	res, err := c.Send(context.Background(), "abc123", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChatID != "abc123" {
		t.Fatalf("chat id: got %q", res.ChatID)
	}
	if len(res.Messages) != 2 || res.Messages[1].Content != "hi there" {
		t.Fatalf("messages: %+v", res.Messages)
	}
}

func TestSendLooseShapeSynthesizesPair(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Hi there","chat_id":"abc123"}`))
	})

	res, err := c.Send(context.Background(), "", "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ChatID != "abc123" {
		t.Fatalf("chat id: got %q", res.ChatID)
	}
	if len(res.Messages) != 2 {
		t.Fatalf("got %d messages, want a pair", len(res.Messages))
	}
	user, assistant := res.Messages[0], res.Messages[1]
	if user.Role != RoleUser || user.Content != "Hello" {
		t.Fatalf("user message: %+v", user)
	}
	if assistant.Role != RoleAssistant || assistant.Content != "Hi there" {
		t.Fatalf("assistant message: %+v", assistant)
	}
	if user.ID == "" || assistant.ID == "" || user.ID == assistant.ID {
		t.Fatalf("synthesized ids: %q / %q", user.ID, assistant.ID)
	}
	if user.Timestamp.IsZero() || assistant.Timestamp.IsZero() {
		t.Fatal("synthesized timestamps are zero")
	}
}

func TestSendPrefersResponseField(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"fallback","response":"primary","chat_id":"abc123"}`))
	})

	res, err := c.Send(context.Background(), "", "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Messages[1].Content != "primary" {
		t.Fatalf("content: got %q", res.Messages[1].Content)
	}
}

func TestSendExplicitFailure(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"agent offline"}`))
	})

	_, err := c.Send(context.Background(), "", "q")
	if err == nil || !strings.Contains(err.Error(), "agent offline") {
		t.Fatalf("reason lost: %v", err)
	}
	if KindOf(err) != KindBusiness {
		t.Fatalf("kind: got %q", KindOf(err))
	}
}

func TestSendNoRecognizableFields(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user_question":"q","relevant_docs_count":3}`))
	})

	_, err := c.Send(context.Background(), "", "q")
	if KindOf(err) != KindFormat {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestSendHTTPFailure(t *testing.T) {
	c, _ := historyClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	_, err := c.Send(context.Background(), "", "q")
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}
