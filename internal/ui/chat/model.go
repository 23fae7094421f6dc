// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the TUI.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	chatctl "github.com/jeranaias/warlock-tui/internal/chat"
	"github.com/jeranaias/warlock-tui/internal/feedback"
	"github.com/jeranaias/warlock-tui/internal/games"
	"github.com/jeranaias/warlock-tui/internal/model"
	"github.com/jeranaias/warlock-tui/internal/ui/styles"
)

// statusTTL is how long a status notice stays in the status bar.
const statusTTL = 4 * time.Second

// =============================================================================
// TEA MESSAGES
// =============================================================================

// exchangeSettledMsg is sent when a pending request has settled.
type exchangeSettledMsg struct{}

// feedbackResultMsg carries the outcome of a rating.
type feedbackResultMsg struct {
	rating model.FeedbackType
	err    error
}

// clearStatusMsg expires the status notice with the given sequence number.
type clearStatusMsg struct{ seq int }

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	ctx   context.Context
	ctrl  *chatctl.Controller
	games *games.Provider
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keyMap   KeyMap
	showHelp bool

	// Status notice
	status    string
	statusSeq int

	// rendered message list, refreshed after every controller change
	messages []*model.ChatMessage
}

// New creates the chat view over ctrl. The controller must be initialized.
func New(ctrl *chatctl.Controller, provider *games.Provider, theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a rules question..."
	ti.CharLimit = 2000
	ti.Focus()

	vp := viewport.New(80, 20)

	// ASCII frames, matching the status indicators
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	m := Model{
		ctx:      context.Background(),
		ctrl:     ctrl,
		games:    provider,
		theme:    theme,
		viewport: vp,
		input:    ti,
		spinner:  sp,
		help:     help.New(),
		keyMap:   DefaultKeyMap(),
	}
	m.refresh()
	return m
}

// WithContext returns a copy of m whose requests use ctx.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case exchangeSettledMsg:
		m.refresh()
		if m.ctrl.HasError() {
			return m.setStatus(styles.RenderError("The last question failed. Press C-r to retry."))
		}
		return m, nil

	case feedbackResultMsg:
		return m.handleFeedbackResult(msg)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.ctrl.IsSending() {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the model.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	// header + input area + status bar
	const reserved = 1 + 3 + 1

	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = max(m.height-reserved, 1)
	m.input.Width = max(m.width-6, 10)
	m.help.Width = m.width
	m.theme.SetSize(m.width, m.height)

	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Retry):
		p, ok := m.ctrl.RetryAsync(m.ctx)
		if !ok {
			return m.setStatus(styles.RenderWarning("Nothing to retry right now"))
		}
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, waitFor(p))

	case key.Matches(msg, m.keyMap.New):
		m.ctrl.StartNewConversation()
		m.refresh()
		return m.setStatus(styles.RenderInfo("Started a new conversation"))

	case key.Matches(msg, m.keyMap.Copy):
		last := m.ctrl.LastAnswer()
		if last == nil || !m.ctrl.CopyMessage(last.ID) {
			return m.setStatus(styles.RenderError("Could not copy the answer"))
		}
		return m.setStatus(styles.RenderSuccess("Answer copied to clipboard"))

	case key.Matches(msg, m.keyMap.NextGame):
		next := m.games.Next()
		if err := m.ctrl.SwitchGame(next.ID); err != nil {
			return m.setStatus(styles.RenderError(err.Error()))
		}
		m.refresh()
		return m.setStatus(styles.RenderInfo("Switched to " + next.Name))

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case m.input.Value() == "" && key.Matches(msg, m.keyMap.RateUp):
		return m.rate(model.FeedbackPositive)

	case m.input.Value() == "" && key.Matches(msg, m.keyMap.RateDown):
		return m.rate(model.FeedbackNegative)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	p, ok := m.ctrl.SendAsync(m.ctx, text)
	if !ok {
		if m.ctrl.IsSending() {
			return m.setStatus(styles.RenderWarning("Still waiting for the last answer"))
		}
		return m, nil
	}
	m.input.Reset()
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, waitFor(p))
}

func (m Model) rate(rating model.FeedbackType) (tea.Model, tea.Cmd) {
	last := m.ctrl.LastAnswer()
	if !last.IsAnswer() {
		return m.setStatus(styles.RenderWarning("There is no answer to rate"))
	}
	in := chatctl.FeedbackInput{MessageID: last.ID, Type: rating}
	if rating == model.FeedbackNegative {
		in.Issues = []feedback.Issue{feedback.IssueOther}
	}
	ctrl, ctx := m.ctrl, m.ctx
	return m, func() tea.Msg {
		return feedbackResultMsg{rating: rating, err: ctrl.RecordFeedback(ctx, in)}
	}
}

func (m Model) handleFeedbackResult(msg feedbackResultMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, chatctl.ErrFeedbackDisabled):
		return m.setStatus(styles.RenderWarning("Feedback is not configured"))
	case msg.err != nil:
		return m.setStatus(styles.RenderError("Feedback failed: " + msg.err.Error()))
	}
	m.refresh()
	if msg.rating == model.FeedbackPositive {
		return m.setStatus(styles.RenderSuccess("Thanks for the feedback!"))
	}
	return m.setStatus(styles.RenderSuccess("Thanks, we'll look into this answer"))
}

// setStatus shows text in the status bar and schedules its expiry.
func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusSeq++
	m.status = text
	seq := m.statusSeq
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// waitFor settles into exchangeSettledMsg once p is done.
func waitFor(p *chatctl.Pending) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return exchangeSettledMsg{}
	}
}

// refresh re-reads the session and re-renders the transcript.
func (m *Model) refresh() {
	m.messages = m.ctrl.Messages()
	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() == 0
	m.viewport.SetContent(m.renderMessages())
	if atBottom {
		m.viewport.GotoBottom()
	}
}
