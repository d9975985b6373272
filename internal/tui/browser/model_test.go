package browser

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/lauscher/internal/voiceassistant"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
)

type stubSession struct {
	url    string
	title  string
	opened []string
	backs  int
	err    error
}

func (s *stubSession) Navigate(ctx context.Context, url string) error {
	if s.err != nil {
		return s.err
	}
	s.opened = append(s.opened, url)
	s.url, s.title = url, "Title of "+url
	return nil
}
func (s *stubSession) Back(ctx context.Context) error    { s.backs++; return s.err }
func (s *stubSession) Forward(ctx context.Context) error { return s.err }
func (s *stubSession) Reload(ctx context.Context) error  { return s.err }
func (s *stubSession) ExtractContent(ctx context.Context) (string, error) {
	return "content", nil
}
func (s *stubSession) URL() string   { return s.url }
func (s *stubSession) Title() string { return s.title }
func (s *stubSession) Close() error  { return nil }

// stubAssistant runs session actions inline
type stubAssistant struct {
	sess     *stubSession
	panel    *Panel
	analyzed int
	spoken   int
}

func (a *stubAssistant) RequestSessionAction(ctx context.Context, fn func(session.Session, voiceassistant.Display) error) error {
	return fn(a.sess, a.panel)
}

func (a *stubAssistant) AnalyzePage(ctx context.Context) voiceassistant.PageAnalysisResult {
	a.analyzed++
	a.panel.ShowAnswer("summary")
	a.panel.SetStatus(voiceassistant.StatusComplete)
	return voiceassistant.PageAnalysisResult{SourceURL: a.sess.url, Summary: "summary"}
}

func (a *stubAssistant) SpeakAnswer(ctx context.Context) { a.spoken++ }

func newTestModel(home string) (Model, *stubAssistant) {
	panel := NewPanel()
	a := &stubAssistant{sess: &stubSession{}, panel: panel}
	m := NewModel(context.Background(), a, a.sess, panel, home)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), a
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestModel_TypedURLGetsHTTPScheme(t *testing.T) {
	m, a := newTestModel("")
	m.urlInput.SetValue("example.com")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, "Lade http://example.com", m.busy)

	m, _ = update(t, m, cmd())
	assert.Empty(t, m.busy)
	assert.NoError(t, m.err)
	assert.Equal(t, []string{"http://example.com"}, a.sess.opened)
	assert.Equal(t, "http://example.com", m.urlInput.Value())
	assert.Contains(t, m.View(), "Title of http://example.com")
}

func TestModel_BusyIgnoresSecondAction(t *testing.T) {
	m, _ := newTestModel("")
	m.urlInput.SetValue("example.com")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	assert.Nil(t, cmd)
}

func TestModel_BackShowsError(t *testing.T) {
	m, a := newTestModel("")
	a.sess.err = session.ErrNoHistory

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyLeft, Alt: true})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.Equal(t, 1, a.sess.backs)
	assert.True(t, errors.Is(m.err, session.ErrNoHistory))
	assert.Contains(t, m.View(), "no history entry")
}

func TestModel_AnalyzeAndSpeak(t *testing.T) {
	m, a := newTestModel("")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyF2})
	require.NotNil(t, cmd)
	assert.Equal(t, voiceassistant.StatusAnalyzing, m.busy)
	m, _ = update(t, m, cmd())

	assert.Equal(t, 1, a.analyzed)
	view := m.View()
	assert.Contains(t, view, "summary")
	assert.Contains(t, view, voiceassistant.StatusComplete)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyF3})
	require.NotNil(t, cmd)
	_, _ = update(t, m, cmd())
	assert.Equal(t, 1, a.spoken)
}

func TestModel_RunsPostedFunctions(t *testing.T) {
	m, a := newTestModel("")
	ran := false

	m, _ = update(t, m, runMsg{fn: func() {
		ran = true
		a.panel.ShowAnswer("from voice")
		_ = a.sess.Navigate(context.Background(), "https://www.example.org")
	}})

	assert.True(t, ran)
	assert.Equal(t, "https://www.example.org", m.urlInput.Value())
	assert.Contains(t, m.View(), "from voice")
}

func TestModel_ListeningIndicator(t *testing.T) {
	m, _ := newTestModel("")
	m, _ = update(t, m, StateMsg{State: voiceassistant.CapturingCommand})
	assert.Contains(t, m.View(), "Höre Befehl")
}

func TestModel_InitLoadsHome(t *testing.T) {
	m, _ := newTestModel("https://www.google.com")
	assert.NotNil(t, m.Init())
}

func TestBridge_NotAttachedAndClosed(t *testing.T) {
	b := NewBridge()
	assert.Error(t, b.Post(func() {}))
	assert.Error(t, b.Run())

	select {
	case <-b.Done():
	default:
		t.Fatal("done not closed after Run")
	}
	assert.ErrorIs(t, b.Post(func() {}), voiceassistant.ErrForegroundClosed)
}
