package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
)

const jsonContentType = "application/json"

// objectIDRe matches the 24-hex ids the history store issues. Anything else
// never reaches the wire on a delete.
var objectIDRe = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Client talks to the two remote collaborators: the history store and the
// assistant responder. It holds no conversation state.
type Client struct {
	historyURL string
	agentURL   string
	http       *http.Client
	log        Logger
}

func NewClient(historyURL, agentURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		historyURL: strings.TrimRight(historyURL, "/"),
		agentURL:   strings.TrimRight(agentURL, "/"),
		http:       &http.Client{Timeout: timeout},
		log:        log,
	}
}

// historyEnvelope is the wrapped response shape; the store may also answer
// with a bare array.
type historyEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// FetchHistory retrieves the full session collection, transforms every
// record, and returns it sorted by updatedAt descending. All failure paths
// resolve to a classified *APIError with a human-readable reason; the caller
// owns fallback content and notice surfacing.
func (c *Client) FetchHistory(ctx context.Context) ([]Session, error) {
	// Timestamp query plus no-cache header defeat intermediary caching; a
	// stale list would undo the whole reconciliation story.
	url := fmt.Sprintf("%s/api/chat-history?t=%d", c.historyURL, time.Now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, netErr(fmt.Sprintf("build history request: %v", err))
	}
	req.Header.Set("Content-Type", jsonContentType)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, netErr(fmt.Sprintf("fetch chat history: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, netErr(fmt.Sprintf("read history response: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, netErr(fmt.Sprintf("history request failed: status %d", resp.StatusCode))
	}

	records, err := decodeHistoryPayload(body)
	if err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(records))
	for _, raw := range records {
		sessions = append(sessions, transformSession(raw, c.log))
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}

// decodeHistoryPayload resolves the envelope-or-array union once, here at
// the boundary.
func decodeHistoryPayload(body []byte) ([]rawSession, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, formatErr("empty history response")
	}

	switch trimmed[0] {
	case '[':
		var records []rawSession
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, formatErr(fmt.Sprintf("decode history array: %v", err))
		}
		return records, nil
	case '{':
		var env historyEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, formatErr(fmt.Sprintf("decode history envelope: %v", err))
		}
		if env.Success == nil {
			return nil, formatErr("history response is neither an envelope nor an array")
		}
		if !*env.Success {
			reason := env.Error
			if reason == "" {
				reason = "server returned success: false"
			}
			return nil, businessErr(reason)
		}
		var records []rawSession
		if err := json.Unmarshal(env.Data, &records); err != nil {
			return nil, formatErr("history envelope data is not an array of sessions")
		}
		return records, nil
	default:
		return nil, formatErr("history response is neither an envelope nor an array")
	}
}

// DeleteSession removes one session by id. A 404 resolves to ErrSessionGone
// so the caller can treat "already gone" as its own outcome. Ids that do not
// look like store-issued ObjectIds are refused before any request; placeholder
// ids fall in that bucket by construction.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if !objectIDRe.MatchString(id) {
		return businessErr("invalid chat session id, refusing to delete")
	}

	url := fmt.Sprintf("%s/api/chat-history/%s", c.historyURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return netErr(fmt.Sprintf("build delete request: %v", err))
	}
	req.Header.Set("Content-Type", jsonContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return netErr(fmt.Sprintf("delete chat session: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrSessionGone
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return netErr(fmt.Sprintf("delete failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}
