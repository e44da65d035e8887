package chatapi

import "github.com/google/uuid"

// transformSession maps one raw remote record into the canonical Session.
// A record without a durable id is a data-integrity defect: it gets a
// display-only placeholder id plus a diagnostic, never an error, so one bad
// record cannot take down a whole history fetch.
func transformSession(raw rawSession, log Logger) Session {
	id := raw.ID
	placeholder := false
	if id == "" {
		id = uuid.NewString()
		placeholder = true
		if log != nil {
			log.Warn("chat session missing _id, using display-only id", map[string]interface{}{
				"title": raw.Title,
			})
		}
	}

	messages := make([]Message, 0, len(raw.Messages))
	for _, rm := range raw.Messages {
		messages = append(messages, Message{
			ID:          rm.ID,
			Role:        Role(rm.Role),
			Content:     rm.Content,
			Timestamp:   normalizeTimestamp(rm.Timestamp),
			Attachments: rm.Attachments,
		})
	}

	return Session{
		ID:          id,
		Title:       raw.Title,
		Messages:    messages,
		CreatedAt:   normalizeTimestamp(raw.CreatedAt),
		UpdatedAt:   normalizeTimestamp(raw.UpdatedAt),
		Status:      Status(raw.Status),
		Placeholder: placeholder,
	}
}
