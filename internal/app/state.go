package app

import "github.com/nguyentin082/poc-vexere/internal/chatapi"

// State is the single owned container for everything the UI observes. It is
// mutated only by Controller methods, all of which run on the one event-loop
// goroutine, so no locking is needed - only the Gen staleness check.
//
// The view is in exactly one of two shapes: Draft (Selected == nil, messages
// come from Draft) or Bound (Selected != nil, messages come from the
// session). Switching one way clears the other.
type State struct {
	// Draft holds locally-authored messages not yet attached to any remote
	// session, plus the pending id once the responder assigns one.
	Draft     []chatapi.Message
	PendingID string

	// Selected is the bound session, rendered from its own messages.
	Selected *chatapi.Session

	// History is owned by the last successful fetch; optimistic edits never
	// touch it directly.
	History []chatapi.Session

	// Loading guards submits: true while a send is outstanding.
	Loading bool
	// Refreshing is the primary loading indicator; quiet refreshes leave it
	// alone.
	Refreshing bool

	// Notice is a dismissible, non-fatal error message.
	Notice string

	// Gen counts draft/selection generations. Asynchronous continuations
	// carry the generation they were issued for and no-op when it moved on.
	Gen int
}

func (s *State) Bound() bool {
	return s.Selected != nil
}

// Messages returns the transcript for the current view shape.
func (s *State) Messages() []chatapi.Message {
	if s.Selected != nil {
		return s.Selected.Messages
	}
	return s.Draft
}

// SessionAt returns the index of a session in History, or -1.
func (s *State) SessionAt(id string) int {
	for i := range s.History {
		if s.History[i].ID == id {
			return i
		}
	}
	return -1
}
