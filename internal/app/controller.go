package app

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentin082/poc-vexere/internal/chatapi"
)

// Command is an effect the controller asks its shell to perform. The
// controller itself never touches the network or a timer; that keeps every
// transition a deterministic function of (state, event).
type Command interface{ isCommand() }

// FetchHistoryCmd asks for a history fetch. Attempt 0 is a direct fetch
// (startup, manual refresh, post-delete); attempts 1 and 2 are the deferred
// quiet refreshes that follow a send.
type FetchHistoryCmd struct {
	Quiet   bool
	Attempt int
	Gen     int
}

// SendCmd asks for a dispatcher call. ChatID is empty for a fresh draft.
type SendCmd struct {
	ChatID string
	Text   string
	Gen    int
}

// DeleteCmd asks for a history-store delete.
type DeleteCmd struct {
	ID string
}

// RefreshTimerCmd asks the shell to wait and then report back via
// RefreshDue. The timer itself knows nothing about fetching.
type RefreshTimerCmd struct {
	Delay   time.Duration
	Attempt int
	Gen     int
}

func (FetchHistoryCmd) isCommand() {}
func (SendCmd) isCommand()         {}
func (DeleteCmd) isCommand()       {}
func (RefreshTimerCmd) isCommand() {}

// Controller owns the conversation view state and reconciles the optimistic
// local transcript against the authoritative remote history.
type Controller struct {
	st     State
	policy RefreshPolicy
	log    *Logger
	seed   func() []chatapi.Session
}

func NewController(policy RefreshPolicy, log *Logger) *Controller {
	return &Controller{
		policy: policy,
		log:    log,
		seed:   SeedSessions,
	}
}

// State exposes the observable state. Callers treat it as read-only.
func (c *Controller) State() *State {
	return &c.st
}

// Refresh starts a history fetch. Quiet refreshes skip the primary loading
// indicator; the fetch itself is identical.
func (c *Controller) Refresh(quiet bool) []Command {
	if !quiet {
		c.st.Refreshing = true
		c.st.Notice = ""
	}
	return []Command{FetchHistoryCmd{Quiet: quiet, Gen: c.st.Gen}}
}

// Submit handles user-entered text. The optimistic user message is appended
// synchronously, before any network call. Submits are dropped - not queued -
// while a send is outstanding, and refused outright on a non-active bound
// session.
func (c *Controller) Submit(text string) []Command {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if c.st.Loading {
		return nil
	}
	if c.st.Bound() && !c.st.Selected.Active() {
		return nil
	}

	optimistic := chatapi.Message{
		ID:        uuid.NewString(),
		Role:      chatapi.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}

	chatID := c.st.PendingID
	if c.st.Bound() {
		c.st.Selected.Messages = append(c.st.Selected.Messages, optimistic)
		chatID = c.st.Selected.ID
	} else {
		c.st.Draft = append(c.st.Draft, optimistic)
	}

	c.st.Loading = true
	return []Command{SendCmd{ChatID: chatID, Text: text, Gen: c.st.Gen}}
}

// SendResolved applies a dispatcher outcome. The returned message pair is
// never merged into the view; on success a deferred quiet refresh re-derives
// state from the authoritative history instead. On failure the optimistic
// message stays put and nothing synthetic enters the transcript.
func (c *Controller) SendResolved(gen int, res *chatapi.SendResult, err error) []Command {
	if gen != c.st.Gen {
		c.log.Warn("dropping send result for abandoned conversation", map[string]interface{}{
			"gen": gen, "current": c.st.Gen,
		})
		return nil
	}

	c.st.Loading = false

	if err != nil {
		c.log.Error("send failed", map[string]interface{}{
			"error": err.Error(),
			"kind":  string(chatapi.KindOf(err)),
		})
		return nil
	}

	if !c.st.Bound() && res.ChatID != "" {
		c.st.PendingID = res.ChatID
	}

	delay, ok := c.policy.Delay(1)
	if !ok {
		return nil
	}
	return []Command{RefreshTimerCmd{Delay: delay, Attempt: 1, Gen: c.st.Gen}}
}

// RefreshDue fires when a deferred-refresh timer elapses.
func (c *Controller) RefreshDue(attempt, gen int) []Command {
	if gen != c.st.Gen {
		return nil
	}
	return []Command{FetchHistoryCmd{Quiet: true, Attempt: attempt, Gen: gen}}
}

// HistoryResolved applies a fetch outcome. Success replaces the list
// wholesale and re-syncs the current view against it; failure either retries
// (deferred chain), or falls back to seed content with a notice (direct
// fetch).
func (c *Controller) HistoryResolved(quiet bool, attempt, gen int, sessions []chatapi.Session, err error) []Command {
	// Deferred refreshes are scoped to the conversation that scheduled them.
	if attempt > 0 && gen != c.st.Gen {
		return nil
	}

	if err != nil {
		return c.historyFailed(quiet, attempt, gen, err)
	}

	c.st.History = sessions
	if !quiet {
		c.st.Refreshing = false
		c.st.Notice = ""
	}
	c.resyncView()
	return nil
}

func (c *Controller) historyFailed(quiet bool, attempt, gen int, err error) []Command {
	fields := map[string]interface{}{
		"error":   err.Error(),
		"kind":    string(chatapi.KindOf(err)),
		"attempt": attempt,
	}

	switch {
	case attempt >= maxRefreshAttempts:
		// The retry also failed; surface and stop.
		c.log.Error("deferred history refresh gave up", fields)
		c.st.Notice = "Could not refresh chat history: " + err.Error()
		return nil
	case attempt >= 1:
		c.log.Warn("deferred history refresh failed, retrying once", fields)
		delay, ok := c.policy.Delay(attempt + 1)
		if !ok {
			return nil
		}
		return []Command{RefreshTimerCmd{Delay: delay, Attempt: attempt + 1, Gen: gen}}
	default:
		// Direct fetch: fall back to sample data and tell the user.
		c.log.Error("history fetch failed, falling back to seed data", fields)
		if !quiet {
			c.st.Refreshing = false
		}
		c.st.History = c.seed()
		c.st.Notice = "Could not load chat history: " + err.Error() + ". Showing sample data."
		return nil
	}
}

// resyncView re-derives the Draft/Bound shape from the freshly fetched list.
func (c *Controller) resyncView() {
	if c.st.Bound() {
		if i := c.st.SessionAt(c.st.Selected.ID); i >= 0 {
			// Refreshed record supersedes the bound one, so new assistant
			// turns (and the server's copy of optimistic ones) appear.
			session := c.st.History[i]
			c.st.Selected = &session
		} else {
			// Deleted concurrently; fall back to an empty draft.
			c.log.Warn("bound session vanished from history", map[string]interface{}{
				"session_id": c.st.Selected.ID,
			})
			c.resetToDraft()
		}
		return
	}

	if c.st.PendingID == "" {
		return
	}
	if i := c.st.SessionAt(c.st.PendingID); i >= 0 {
		// The remote persisted the draft conversation; bind to the real
		// record and discard the optimistic transcript wholesale.
		session := c.st.History[i]
		c.st.Selected = &session
		c.st.Draft = nil
		c.st.PendingID = ""
		c.st.Gen++
	}
	// Not there yet: the store is eventually consistent. Keep the pending id
	// and re-check on the next refresh.
}

// SelectSession binds the view to a history entry, discarding any draft.
func (c *Controller) SelectSession(id string) []Command {
	i := c.st.SessionAt(id)
	if i < 0 {
		return nil
	}
	session := c.st.History[i]
	c.st.Selected = &session
	c.st.Draft = nil
	c.st.PendingID = ""
	c.st.Loading = false
	c.st.Gen++
	return nil
}

// StartNewChat discards the current view and opens an empty draft.
func (c *Controller) StartNewChat() []Command {
	c.resetToDraft()
	return nil
}

func (c *Controller) resetToDraft() {
	c.st.Selected = nil
	c.st.Draft = nil
	c.st.PendingID = ""
	c.st.Loading = false
	c.st.Gen++
}

// DeleteSession requests deletion of a history entry. Placeholder sessions
// have no durable id to delete by, so the request is refused locally.
func (c *Controller) DeleteSession(id string) []Command {
	i := c.st.SessionAt(id)
	if i < 0 {
		return nil
	}
	if c.st.History[i].Placeholder {
		c.log.Warn("refusing to delete session with display-only id", map[string]interface{}{
			"session_id": id,
		})
		c.st.Notice = "This session has no server id and cannot be deleted."
		return nil
	}
	return []Command{DeleteCmd{ID: id}}
}

// DeleteResolved applies a delete outcome. "Already gone" counts as done -
// the remote is in the state the user asked for. Real failures leave local
// state untouched.
func (c *Controller) DeleteResolved(id string, err error) []Command {
	if err != nil && !errors.Is(err, chatapi.ErrSessionGone) {
		c.log.Error("delete failed", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
		c.st.Notice = "Could not delete chat session: " + err.Error()
		return nil
	}
	if errors.Is(err, chatapi.ErrSessionGone) {
		c.log.Warn("session was already gone on delete", map[string]interface{}{
			"session_id": id,
		})
	}

	if c.st.Bound() && c.st.Selected.ID == id {
		c.resetToDraft()
	}
	return c.Refresh(false)
}

// DismissNotice clears the current non-fatal notice.
func (c *Controller) DismissNotice() {
	c.st.Notice = ""
}
