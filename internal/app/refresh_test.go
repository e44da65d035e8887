package app

import (
	"testing"
	"time"
)

func TestRefreshPolicyDelays(t *testing.T) {
	p := RefreshPolicy{InitialDelay: time.Second, RetryDelay: 3 * time.Second}

	d, ok := p.Delay(1)
	if !ok || d != time.Second {
		t.Fatalf("attempt 1: got %v, %v", d, ok)
	}
	d, ok = p.Delay(2)
	if !ok || d != 3*time.Second {
		t.Fatalf("attempt 2: got %v, %v", d, ok)
	}
	for _, attempt := range []int{0, 3, 10} {
		if _, ok := p.Delay(attempt); ok {
			t.Fatalf("attempt %d should be exhausted", attempt)
		}
	}
}
