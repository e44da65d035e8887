package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nguyentin082/poc-vexere/internal/app"
	"github.com/nguyentin082/poc-vexere/internal/chatapi"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusChat
	focusSidebar
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Messages delivered back into Update by command closures and timers.
type (
	historyResultMsg struct {
		quiet    bool
		attempt  int
		gen      int
		sessions []chatapi.Session
		err      error
	}
	sendResultMsg struct {
		gen int
		res *chatapi.SendResult
		err error
	}
	deleteResultMsg struct {
		id  string
		err error
	}
	refreshDueMsg struct {
		attempt int
		gen     int
	}
	spinMsg time.Time
)

// Model is the terminal shell around the reconciliation controller. All
// conversation state lives in the controller; the model only holds widget
// and layout state.
type Model struct {
	theme Theme
	md    *MarkdownRenderer

	ctrl *Shell
	cfg  app.Config

	viewport viewport.Model
	input    textarea.Model

	focus     focusArea
	cursor    int
	width     int
	height    int
	ready     bool
	spinFrame int
	quitting  bool
}

// Shell bundles the controller with the API client it issues effects
// against, so tests can drive the model with a nil client and synthetic
// result messages.
type Shell struct {
	Controller *app.Controller
	API        *chatapi.Client
	Timeout    time.Duration
}

func NewModel(shell *Shell, cfg app.Config) Model {
	theme := NewTheme(ThemeName(cfg.Theme))

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = ""
	ta.CharLimit = 4000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	return Model{
		theme: theme,
		md:    NewMarkdownRenderer(theme),
		ctrl:  shell,
		cfg:   cfg,
		input: ta,
		focus: focusInput,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.runCommands(m.ctrl.Controller.Refresh(false)),
		textarea.Blink,
		spinTick(),
	)
}

func spinTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg { return spinMsg(t) })
}

// runCommands translates controller effects into bubbletea commands. Fetches
// and sends run with their own deadline contexts; timers become tea.Tick.
func (m Model) runCommands(cmds []app.Command) tea.Cmd {
	if len(cmds) == 0 {
		return nil
	}
	out := make([]tea.Cmd, 0, len(cmds))
	for _, c := range cmds {
		switch cmd := c.(type) {
		case app.FetchHistoryCmd:
			out = append(out, m.fetchHistory(cmd))
		case app.SendCmd:
			out = append(out, m.sendMessage(cmd))
		case app.DeleteCmd:
			out = append(out, m.deleteSession(cmd))
		case app.RefreshTimerCmd:
			attempt, gen := cmd.Attempt, cmd.Gen
			out = append(out, tea.Tick(cmd.Delay, func(time.Time) tea.Msg {
				return refreshDueMsg{attempt: attempt, gen: gen}
			}))
		}
	}
	return tea.Batch(out...)
}

func (m Model) fetchHistory(cmd app.FetchHistoryCmd) tea.Cmd {
	api, timeout := m.ctrl.API, m.ctrl.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sessions, err := api.FetchHistory(ctx)
		return historyResultMsg{quiet: cmd.Quiet, attempt: cmd.Attempt, gen: cmd.Gen, sessions: sessions, err: err}
	}
}

func (m Model) sendMessage(cmd app.SendCmd) tea.Cmd {
	api, timeout := m.ctrl.API, m.ctrl.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := api.Send(ctx, cmd.ChatID, cmd.Text)
		return sendResultMsg{gen: cmd.Gen, res: res, err: err}
	}
}

func (m Model) deleteSession(cmd app.DeleteCmd) tea.Cmd {
	api, timeout := m.ctrl.API, m.ctrl.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteResultMsg{id: cmd.ID, err: api.DeleteSession(ctx, cmd.ID)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.computeLayout()
		m.syncTranscript()
		m.ready = true
		return m, nil

	case spinMsg:
		st := m.ctrl.Controller.State()
		if st.Loading || st.Refreshing {
			m.spinFrame = (m.spinFrame + 1) % len(spinnerFrames)
		}
		if m.quitting {
			return m, nil
		}
		return m, spinTick()

	case historyResultMsg:
		cmds := m.ctrl.Controller.HistoryResolved(msg.quiet, msg.attempt, msg.gen, msg.sessions, msg.err)
		m.clampCursor()
		m.syncTranscript()
		return m, m.runCommands(cmds)

	case sendResultMsg:
		cmds := m.ctrl.Controller.SendResolved(msg.gen, msg.res, msg.err)
		m.syncTranscript()
		return m, m.runCommands(cmds)

	case deleteResultMsg:
		cmds := m.ctrl.Controller.DeleteResolved(msg.id, msg.err)
		m.clampCursor()
		m.syncTranscript()
		return m, m.runCommands(cmds)

	case refreshDueMsg:
		return m, m.runCommands(m.ctrl.Controller.RefreshDue(msg.attempt, msg.gen))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateWidgets(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.ctrl.Controller

	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.focus = (m.focus + 1) % 3
		m.applyFocus()
		return m, nil

	case "shift+tab":
		m.focus = (m.focus + 2) % 3
		m.applyFocus()
		return m, nil

	case "ctrl+n":
		cmds := ctrl.StartNewChat()
		m.focus = focusInput
		m.applyFocus()
		m.syncTranscript()
		return m, m.runCommands(cmds)

	case "ctrl+r":
		return m, m.runCommands(ctrl.Refresh(false))

	case "ctrl+d":
		if id, ok := m.deleteTarget(); ok {
			cmds := ctrl.DeleteSession(id)
			m.syncTranscript()
			return m, m.runCommands(cmds)
		}
		return m, nil

	case "esc":
		ctrl.DismissNotice()
		return m, nil

	case "end":
		m.viewport.GotoBottom()
		return m, nil
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusInput:
		if msg.String() == "enter" {
			return m.submit()
		}
	}
	return m.updateWidgets(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.Controller.State()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(st.History)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor >= 0 && m.cursor < len(st.History) {
			cmds := m.ctrl.Controller.SelectSession(st.History[m.cursor].ID)
			m.focus = focusInput
			m.applyFocus()
			m.syncTranscript()
			m.viewport.GotoBottom()
			return m, m.runCommands(cmds)
		}
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	cmds := m.ctrl.Controller.Submit(m.input.Value())
	if len(cmds) > 0 {
		m.input.Reset()
		m.syncTranscript()
		m.viewport.GotoBottom()
	}
	return m, m.runCommands(cmds)
}

// deleteTarget picks the session a ctrl+d applies to: the sidebar row when
// the sidebar has focus, otherwise the bound session.
func (m Model) deleteTarget() (string, bool) {
	st := m.ctrl.Controller.State()
	if m.focus == focusSidebar {
		if m.cursor >= 0 && m.cursor < len(st.History) {
			return st.History[m.cursor].ID, true
		}
		return "", false
	}
	if st.Selected != nil {
		return st.Selected.ID, true
	}
	return "", false
}

func (m Model) updateWidgets(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	// The wheel scrolls the transcript no matter where keyboard focus is.
	if _, isMouse := msg.(tea.MouseMsg); m.focus == focusChat || isMouse {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) applyFocus() {
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) clampCursor() {
	st := m.ctrl.Controller.State()
	if m.cursor >= len(st.History) {
		m.cursor = len(st.History) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) sidebarWidth() int {
	w := m.width / 4
	if w < 24 {
		w = 24
	}
	if w > 40 {
		w = 40
	}
	return w
}

func (m *Model) computeLayout() {
	chatWidth := m.width - m.sidebarWidth() - 6
	if chatWidth < 20 {
		chatWidth = 20
	}
	chatHeight := m.height - 10
	if chatHeight < 5 {
		chatHeight = 5
	}
	if !m.ready {
		m.viewport = viewport.New(chatWidth, chatHeight)
	} else {
		m.viewport.Width = chatWidth
		m.viewport.Height = chatHeight
	}
	m.input.SetWidth(chatWidth)
}

// syncTranscript re-renders the conversation into the viewport, keeping the
// view pinned to the bottom only when the reader was already there.
func (m *Model) syncTranscript() {
	if m.viewport.Width == 0 {
		return
	}
	follow := nearBottom(m.viewport.TotalLineCount(), m.viewport.YOffset, m.viewport.Height)
	st := m.ctrl.Controller.State()
	m.viewport.SetContent(renderTranscript(m.theme, m.md, st.Messages(), m.viewport.Width))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	st := m.ctrl.Controller.State()

	top := m.renderTopBar(st)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebarPane(st), m.renderChatPane(st))
	bottom := m.renderInputArea(st)
	footer := m.renderFooter(st)

	return strings.Join([]string{top, body, bottom, footer}, "\n")
}

func (m Model) renderTopBar(st *app.State) string {
	title := m.theme.TopBarTitle.Render("vexchat")
	badge := m.theme.TopBarBadge.Render("draft")
	if st.Selected != nil {
		badge = statusBadge(m.theme, st.Selected.Status)
	}

	var busy string
	if st.Loading || st.Refreshing {
		busy = " " + m.theme.Spinner.Render(spinnerFrames[m.spinFrame])
	}

	left := title + "  " + badge + busy
	if st.Notice != "" {
		notice := m.theme.Notice.Render(truncateRunes(st.Notice, m.width-lipgloss.Width(left)-6))
		return m.theme.TopBar.Render(left + "  " + notice)
	}
	return m.theme.TopBar.Render(left)
}

func (m Model) renderSidebarPane(st *app.State) string {
	style := m.theme.Pane
	titleStyle := m.theme.PaneTitle
	if m.focus == focusSidebar {
		style = m.theme.PaneFocused
		titleStyle = m.theme.PaneTitleF
	}
	w := m.sidebarWidth()

	selectedID := ""
	if st.Selected != nil {
		selectedID = st.Selected.ID
	}
	cursor := -1
	if m.focus == focusSidebar {
		cursor = m.cursor
	}
	content := titleStyle.Render("Conversations") + "\n\n" + renderSidebar(m.theme, st.History, selectedID, cursor, w-2)
	return style.Width(w).Height(m.viewport.Height + 2).Render(content)
}

func (m Model) renderChatPane(st *app.State) string {
	style := m.theme.Pane
	if m.focus == focusChat {
		style = m.theme.PaneFocused
	}
	return style.Width(m.viewport.Width + 2).Render(m.viewport.View())
}

func (m Model) renderInputArea(st *app.State) string {
	if st.Selected != nil && !st.Selected.Active() {
		return readOnlyNotice(m.theme, st.Selected.Status, m.width-4)
	}
	style := m.theme.InputBox
	if m.focus == focusInput {
		style = m.theme.InputBoxF
	}
	return style.Render(m.input.View())
}

func (m Model) renderFooter(st *app.State) string {
	hints := []string{
		"tab focus",
		"enter send/open",
		"ctrl+n new",
		"ctrl+r refresh",
		"ctrl+d delete",
		"ctrl+c quit",
	}
	if st.Notice != "" {
		hints = append(hints, "esc dismiss")
	}
	return m.theme.Footer.Render(strings.Join(hints, " · "))
}
