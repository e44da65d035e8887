package chatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SendResult is the uniform outcome of one assistant exchange: the
// user/assistant message pair for that turn and the conversation id the
// remote filed it under.
type SendResult struct {
	Messages []Message
	ChatID   string
}

type sendRequest struct {
	ChatID  string `json:"chat_id,omitempty"`
	Message string `json:"message"`
}

// sendResponse covers both shapes the responder answers with: the structured
// {data:{messages, chat_id}} envelope and the loose {message|response,
// chat_id} form.
type sendResponse struct {
	Success *bool `json:"success"`
	Data    *struct {
		Messages []rawMessage `json:"messages"`
		ChatID   string       `json:"chat_id"`
	} `json:"data"`
	Message  string `json:"message"`
	Response string `json:"response"`
	ChatID   string `json:"chat_id"`
	Error    string `json:"error"`
}

// Send posts one user message to the assistant responder and normalizes the
// reply. It knows nothing about sessions or history; it is a stateless
// request/response transform. Failures resolve to classified errors, never
// panics.
func (c *Client) Send(ctx context.Context, chatID, text string) (*SendResult, error) {
	payload, err := json.Marshal(sendRequest{ChatID: chatID, Message: text})
	if err != nil {
		return nil, formatErr(fmt.Sprintf("encode chat request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.agentURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, netErr(fmt.Sprintf("build chat request: %v", err))
	}
	req.Header.Set("Content-Type", jsonContentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, netErr(fmt.Sprintf("send chat message: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, netErr(fmt.Sprintf("read chat response: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, netErr(fmt.Sprintf("chat request failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var decoded sendResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, formatErr(fmt.Sprintf("decode chat response: %v", err))
	}

	if decoded.Success != nil && !*decoded.Success {
		reason := decoded.Error
		if reason == "" {
			reason = decoded.Message
		}
		if reason == "" {
			reason = "chat request failed"
		}
		return nil, businessErr(reason)
	}

	if decoded.Data != nil {
		messages := make([]Message, 0, len(decoded.Data.Messages))
		for _, rm := range decoded.Data.Messages {
			messages = append(messages, Message{
				ID:          rm.ID,
				Role:        Role(rm.Role),
				Content:     rm.Content,
				Timestamp:   normalizeTimestamp(rm.Timestamp),
				Attachments: rm.Attachments,
			})
		}
		return &SendResult{Messages: messages, ChatID: decoded.Data.ChatID}, nil
	}

	if decoded.Message != "" || decoded.Response != "" {
		// Loose shape: the responder sent only the assistant text, so the
		// message pair is synthesized here with fresh local ids.
		content := decoded.Response
		if content == "" {
			content = decoded.Message
		}
		now := time.Now()
		pair := []Message{
			{ID: uuid.NewString(), Role: RoleUser, Content: text, Timestamp: now},
			{ID: uuid.NewString(), Role: RoleAssistant, Content: content, Timestamp: now},
		}

		resultID := decoded.ChatID
		if resultID == "" {
			resultID = chatID
		}
		if resultID == "" {
			resultID = uuid.NewString()
		}
		return &SendResult{Messages: pair, ChatID: resultID}, nil
	}

	return nil, formatErr("chat response has no data, message, or response field")
}
