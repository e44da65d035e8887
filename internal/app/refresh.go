package app

import "time"

// maxRefreshAttempts bounds the deferred-refresh chain that follows a
// successful send: one attempt, one retry, then give up.
const maxRefreshAttempts = 2

// RefreshPolicy names the delayed-refresh-with-one-retry schedule so it can
// be tested apart from the UI timer that executes it. Attempt numbers start
// at 1.
type RefreshPolicy struct {
	InitialDelay time.Duration
	RetryDelay   time.Duration
}

// Delay returns the wait before the given attempt, or false when the policy
// has no attempt left to offer.
func (p RefreshPolicy) Delay(attempt int) (time.Duration, bool) {
	switch attempt {
	case 1:
		return p.InitialDelay, true
	case 2:
		return p.RetryDelay, true
	default:
		return 0, false
	}
}
