package tui

import "testing"

func TestNearBottomShortContent(t *testing.T) {
	if !nearBottom(5, 0, 20) {
		t.Fatalf("content shorter than the view should always follow")
	}
}

func TestNearBottomAtEnd(t *testing.T) {
	if !nearBottom(100, 80, 20) {
		t.Fatalf("offset at the very end should follow")
	}
}

func TestNearBottomWithinSlack(t *testing.T) {
	if !nearBottom(100, 77, 20) {
		t.Fatalf("offset within the slack band should follow")
	}
}

func TestNearBottomScrolledAway(t *testing.T) {
	if nearBottom(100, 40, 20) {
		t.Fatalf("a reader scrolled into history must not be yanked down")
	}
	if nearBottom(100, 76, 20) {
		t.Fatalf("offset just outside the slack band should not follow")
	}
}
