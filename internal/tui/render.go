package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nguyentin082/poc-vexere/internal/chatapi"
)

// roleLabel maps a message author to the label shown in the transcript.
func roleLabel(theme Theme, role chatapi.Role) string {
	switch role {
	case chatapi.RoleUser:
		return theme.RoleYou.Render("You")
	case chatapi.RoleAssistant:
		return theme.RoleAI.Render("Support")
	default:
		return theme.RoleSys.Render(string(role))
	}
}

func statusBadge(theme Theme, status chatapi.Status) string {
	switch status {
	case chatapi.StatusActive:
		return theme.BadgeActive.Render("● active")
	case chatapi.StatusResolved:
		return theme.BadgeResolved.Render("✓ resolved")
	case chatapi.StatusPending:
		return theme.BadgePending.Render("◌ pending")
	default:
		return theme.BadgeResolved.Render(string(status))
	}
}

// renderMessage lays out one transcript entry. Assistant replies go through
// the markdown renderer; user text is shown verbatim.
func renderMessage(theme Theme, md *MarkdownRenderer, msg chatapi.Message, width int) string {
	var b strings.Builder

	stamp := theme.TopBarMeta.Render(msg.Timestamp.Local().Format("15:04"))
	b.WriteString(roleLabel(theme, msg.Role))
	b.WriteString("  ")
	b.WriteString(stamp)
	b.WriteString("\n")

	body := msg.Content
	if msg.Role == chatapi.RoleAssistant {
		body = md.Render(body, width)
	} else {
		body = lipgloss.NewStyle().Width(width).Render(body)
	}
	b.WriteString(body)

	for _, att := range msg.Attachments {
		name := att.Name
		if name == "" {
			name = att.URL
		}
		b.WriteString("\n")
		b.WriteString(theme.Attachment.Render(fmt.Sprintf("  [%s] %s", att.Kind, name)))
	}
	return b.String()
}

func renderTranscript(theme Theme, md *MarkdownRenderer, messages []chatapi.Message, width int) string {
	if len(messages) == 0 {
		return welcomePanel(theme, width)
	}
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, renderMessage(theme, md, m, width))
	}
	return strings.Join(parts, "\n\n")
}

func welcomePanel(theme Theme, width int) string {
	title := theme.TopBarTitle.Render("Vexere Support")
	lines := []string{
		title,
		"",
		"Ask about bookings, refunds, schedules or anything else.",
		"Type a message below and press Enter to start a conversation.",
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextMuted).
		Render(strings.Join(lines, "\n"))
}

// readOnlyNotice is shown instead of the input area when the bound session
// no longer accepts messages.
func readOnlyNotice(theme Theme, status chatapi.Status, width int) string {
	text := fmt.Sprintf("This conversation is %s and read-only. Press ctrl+n to start a new chat.", status)
	return lipgloss.NewStyle().Width(width).Render(theme.ReadOnly.Render(text))
}

// sidebarEntry renders one history row: title, status badge and a relative
// freshness stamp, trimmed to the pane width.
func sidebarEntry(theme Theme, s chatapi.Session, selected bool, width int) string {
	title := s.Title
	if title == "" {
		title = "Untitled conversation"
	}
	title = truncateRunes(title, width-2)

	style := theme.SidebarItem
	marker := "  "
	if selected {
		style = theme.SidebarSel
		marker = "> "
	}
	meta := statusBadge(theme, s.Status) + " " + theme.TopBarMeta.Render(relativeTime(s.UpdatedAt))
	return style.Render(marker+title) + "\n  " + meta
}

func renderSidebar(theme Theme, history []chatapi.Session, selectedID string, cursor, width int) string {
	if len(history) == 0 {
		return theme.TopBarMeta.Render("No conversations yet.")
	}
	rows := make([]string, 0, len(history))
	for i, s := range history {
		rows = append(rows, sidebarEntry(theme, s, i == cursor || s.ID == selectedID, width))
	}
	return strings.Join(rows, "\n")
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}
