// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     browser
// Description: Terminal browser with voice assistant
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/lauscher/internal/voiceassistant"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
)

// Assistant is what the model needs from the controller
type Assistant interface {
	RequestSessionAction(ctx context.Context, fn func(session.Session, voiceassistant.Display) error) error
	AnalyzePage(ctx context.Context) voiceassistant.PageAnalysisResult
	SpeakAnswer(ctx context.Context)
}

// Model is the terminal browser. It is the foreground: the session and
// the panel are only used from Update.
type Model struct {
	ctx       context.Context
	assistant Assistant
	session   session.Session
	panel     *Panel
	homeURL   string

	// Components
	urlInput textinput.Model
	answer   viewport.Model
	spinner  spinner.Model

	// State
	width     int
	height    int
	ready     bool
	busy      string
	err       error
	shownURL  string
	listening voiceassistant.ListeningState
}

// NewModel creates the browser model
func NewModel(ctx context.Context, assistant Assistant, sess session.Session, panel *Panel, homeURL string) Model {
	ti := textinput.New()
	ti.Placeholder = "Adresse eingeben..."
	ti.Prompt = "URL: "
	ti.CharLimit = 2048
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		ctx:       ctx,
		assistant: assistant,
		session:   sess,
		panel:     panel,
		homeURL:   homeURL,
		urlInput:  ti,
		answer:    viewport.New(80, 10),
		spinner:   sp,
	}
}

// Init loads the home page
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.homeURL != "" {
		cmds = append(cmds, m.open(m.homeURL))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			url := voiceassistant.NormalizeTypedURL(m.urlInput.Value())
			if url == "" || m.busy != "" {
				return m, nil
			}
			m.busy = "Lade " + url
			return m, m.open(url)

		case "alt+left":
			return m.start("Zurück", m.step("back", session.Session.Back))

		case "alt+right":
			return m.start("Vorwärts", m.step("forward", session.Session.Forward))

		case "ctrl+r", "f5":
			return m.start("Neu laden", m.step("reload", session.Session.Reload))

		case "f2":
			return m.start(voiceassistant.StatusAnalyzing, m.analyze())

		case "f3":
			return m.start("Spreche Antwort", m.speakAnswer())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.urlInput.Width = max(msg.Width-12, 10)
		m.answer.Width = max(msg.Width-4, 10)
		m.answer.Height = max(msg.Height-9, 3)
		m.refreshAnswer()

	case runMsg:
		msg.fn()
		m.syncPage()
		m.refreshAnswer()
		return m, nil

	case actionDoneMsg:
		m.busy = ""
		m.err = msg.err
		m.syncPage()
		return m, nil

	case analysisDoneMsg:
		m.busy = ""
		m.err = msg.result.Err
		m.refreshAnswer()
		return m, nil

	case StateMsg:
		m.listening = msg.State
		return m, nil

	case PageMsg:
		m.syncPage()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.urlInput, cmd = m.urlInput.Update(msg)
	cmds = append(cmds, cmd)

	m.answer, cmd = m.answer.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) start(label string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.busy != "" {
		return m, nil
	}
	m.busy = label
	m.err = nil
	return m, cmd
}

func (m Model) open(url string) tea.Cmd {
	return m.step("open", func(s session.Session, ctx context.Context) error {
		return s.Navigate(ctx, url)
	})
}

// step runs one session operation through the assistant, so it is
// serialized with voice commands on the foreground.
func (m Model) step(action string, op func(session.Session, context.Context) error) tea.Cmd {
	ctx, assistant := m.ctx, m.assistant
	return func() tea.Msg {
		err := assistant.RequestSessionAction(ctx, func(s session.Session, _ voiceassistant.Display) error {
			return op(s, ctx)
		})
		return actionDoneMsg{action: action, err: err}
	}
}

func (m Model) analyze() tea.Cmd {
	ctx, assistant := m.ctx, m.assistant
	return func() tea.Msg {
		return analysisDoneMsg{result: assistant.AnalyzePage(ctx)}
	}
}

func (m Model) speakAnswer() tea.Cmd {
	ctx, assistant := m.ctx, m.assistant
	return func() tea.Msg {
		assistant.SpeakAnswer(ctx)
		return actionDoneMsg{action: "speak"}
	}
}

func (m *Model) syncPage() {
	url := m.session.URL()
	if url != m.shownURL {
		m.shownURL = url
		m.urlInput.SetValue(url)
		m.urlInput.CursorEnd()
	}
}

func (m *Model) refreshAnswer() {
	text := m.panel.Answer()
	if m.answer.Width > 0 {
		text = lipgloss.NewStyle().Width(m.answer.Width).Render(text)
	}
	m.answer.SetContent(text)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade..."
	}

	var s strings.Builder

	title := m.session.Title()
	if title == "" {
		title = "(keine Seite)"
	}
	s.WriteString(TitleStyle.Render("Lauscher"))
	s.WriteString("  ")
	s.WriteString(PageTitleStyle.Render(title))
	s.WriteString("\n")

	s.WriteString(URLBarStyle.Render(m.urlInput.View()))
	s.WriteString("\n")

	s.WriteString(AnswerStyle.Render(m.answer.View()))
	s.WriteString("\n")

	s.WriteString(m.renderStatus())
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Enter: Öffnen  Alt+←/→: Zurück/Vorwärts  Ctrl+R: Neu laden  F2: Seite analysieren  F3: Antwort vorlesen  Esc: Beenden"))

	return s.String()
}

func (m Model) renderStatus() string {
	parts := []string{StatusBarStyle.Render(m.panel.Status())}

	if m.listening == voiceassistant.CapturingCommand {
		parts = append(parts, ListeningStyle.Render("● Höre Befehl"))
	} else if m.listening == voiceassistant.CapturingAmbient {
		parts = append(parts, HelpStyle.Render("○ Lausche"))
	}

	if m.busy != "" {
		parts = append(parts, BusyStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), m.busy)))
	}
	if m.err != nil {
		parts = append(parts, ErrorStyle.Render("Fehler: "+m.err.Error()))
	}

	return strings.Join(parts, "  ")
}
