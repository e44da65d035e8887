package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/nguyentin082/poc-vexere/internal/chatapi"
)

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncateRunes("a very long conversation title", 10); got != "a very lo…" {
		t.Fatalf("got %q", got)
	}
	if got := truncateRunes("chuyến xe Đà Nẵng", 9); got != "chuyến x…" {
		t.Fatalf("multibyte truncation got %q", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
	}
	for _, c := range cases {
		if got := relativeTime(c.at); got != c.want {
			t.Fatalf("relativeTime(%v) = %q, want %q", c.at, got, c.want)
		}
	}
}

func TestRenderMessageShowsAttachments(t *testing.T) {
	theme := NewNoColorTheme()
	md := NewMarkdownRenderer(theme)
	msg := chatapi.Message{
		Role:      chatapi.RoleUser,
		Content:   "see the photo",
		Timestamp: time.Now(),
		Attachments: []chatapi.Attachment{
			{Kind: chatapi.AttachmentImage, URL: "https://cdn.example.com/x.jpg", Name: "broken-seat.jpg"},
		},
	}
	out := renderMessage(theme, md, msg, 60)
	if !strings.Contains(out, "[image] broken-seat.jpg") {
		t.Fatalf("attachment line missing:\n%s", out)
	}
}

func TestEmptyTranscriptShowsWelcome(t *testing.T) {
	theme := NewNoColorTheme()
	md := NewMarkdownRenderer(theme)
	out := renderTranscript(theme, md, nil, 60)
	if !strings.Contains(out, "Vexere Support") {
		t.Fatalf("welcome panel missing:\n%s", out)
	}
}

func TestMarkdownRendererFormatsAssistantReply(t *testing.T) {
	theme := NewNoColorTheme()
	md := NewMarkdownRenderer(theme)
	out := md.Render("Here are your options:\n\n- refund\n- reschedule", 60)
	if !strings.Contains(out, "• refund") || !strings.Contains(out, "• reschedule") {
		t.Fatalf("list items not rendered:\n%s", out)
	}
	if strings.Contains(out, "<li>") || strings.Contains(out, "<p>") {
		t.Fatalf("html leaked into terminal output:\n%s", out)
	}
}
