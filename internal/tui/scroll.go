package tui

// nearBottomSlack is how many rows above the end still count as following
// the conversation. Inside it, new content keeps the view pinned to the
// bottom; outside it, the reader's scroll position is left alone.
const nearBottomSlack = 3

func nearBottom(totalLines, yOffset, height int) bool {
	if totalLines <= height {
		return true
	}
	maxOffset := totalLines - height
	return yOffset >= maxOffset-nearBottomSlack
}
