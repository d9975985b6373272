package voiceassistant

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/msto63/lauscher/internal/voiceassistant/audio"
	"github.com/msto63/lauscher/internal/voiceassistant/client"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
	"github.com/msto63/lauscher/internal/voiceassistant/speech"
)

type fakeSession struct {
	url      string
	content  string
	navErr   error
	backErr  error
	opened   []string
	backs    int
	forwards int
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	if s.navErr != nil {
		return s.navErr
	}
	s.opened = append(s.opened, url)
	s.url = url
	return nil
}

func (s *fakeSession) Back(ctx context.Context) error {
	if s.backErr != nil {
		return s.backErr
	}
	s.backs++
	return nil
}

func (s *fakeSession) Forward(ctx context.Context) error {
	s.forwards++
	return nil
}

func (s *fakeSession) Reload(ctx context.Context) error { return nil }

func (s *fakeSession) ExtractContent(ctx context.Context) (string, error) {
	return s.content, nil
}

func (s *fakeSession) URL() string   { return s.url }
func (s *fakeSession) Title() string { return "" }
func (s *fakeSession) Close() error  { return nil }

type fakeDisplay struct {
	statuses []string
	answer   string
}

func (d *fakeDisplay) SetStatus(status string) { d.statuses = append(d.statuses, status) }
func (d *fakeDisplay) ShowAnswer(text string)  { d.answer = text }
func (d *fakeDisplay) Answer() string          { return d.answer }

type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	requests [][]client.Message
}

func (l *fakeLLM) Complete(ctx context.Context, messages []client.Message) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests = append(l.requests, messages)
	return l.reply, l.err
}

func (l *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (l *fakeLLM) Model() string                         { return "fake" }

func (l *fakeLLM) last() []client.Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.requests) == 0 {
		return nil
	}
	return l.requests[len(l.requests)-1]
}

type recordingSpeaker struct {
	mu    sync.Mutex
	texts []string
}

func (s *recordingSpeaker) Speak(ctx context.Context, req speech.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, req.Text)
	return nil
}

func (s *recordingSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

type captureStep struct {
	err error
}

// scriptedCapturer replays steps, then reports no speech
type scriptedCapturer struct {
	mu    sync.Mutex
	steps []captureStep
	calls int
}

func (c *scriptedCapturer) Capture(ctx context.Context) (speech.Segment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if len(c.steps) == 0 {
		time.Sleep(5 * time.Millisecond)
		return speech.Segment{}, audio.ErrNoSpeech
	}
	step := c.steps[0]
	c.steps = c.steps[1:]
	if step.err != nil {
		return speech.Segment{}, step.err
	}
	return speech.Segment{Samples: make([]float32, 160), SampleRate: 16000}, nil
}

type transcript struct {
	text string
	err  error
}

type scriptedTranscriber struct {
	mu      sync.Mutex
	results []transcript
}

func (t *scriptedTranscriber) Transcribe(ctx context.Context, seg speech.Segment) (speech.Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.results) == 0 {
		return speech.Result{}, speech.ErrUnintelligible
	}
	r := t.results[0]
	t.results = t.results[1:]
	return speech.Result{Text: r.text}, r.err
}

type harness struct {
	ctrl    *Controller
	session *fakeSession
	display *fakeDisplay
	llm     *fakeLLM
	speaker *recordingSpeaker
	rec     *scriptedCapturer
	stt     *scriptedTranscriber
}

// newHarness builds a controller with fakes and a running foreground loop
func newHarness(t *testing.T, transcripts ...transcript) *harness {
	t.Helper()

	h := &harness{
		session: &fakeSession{url: "https://www.example.com"},
		display: &fakeDisplay{},
		llm:     &fakeLLM{reply: "a summary"},
		speaker: &recordingSpeaker{},
		rec:     &scriptedCapturer{},
		stt:     &scriptedTranscriber{results: transcripts},
	}
	for range transcripts {
		h.rec.steps = append(h.rec.steps, captureStep{})
	}

	fg := NewForegroundLoop()
	ctx, cancel := context.WithCancel(context.Background())
	go fg.Run(ctx)
	t.Cleanup(cancel)

	cfg := DefaultConfig()
	cfg.Listener.ErrorBackoff = 10 * time.Millisecond

	ctrl, err := New(cfg, Deps{
		Recorder:    h.rec,
		Transcriber: h.stt,
		Speaker:     h.speaker,
		LLM:         h.llm,
		Session:     h.session,
		Display:     h.display,
		Foreground:  fg,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctrl.Stop)
	h.ctrl = ctrl
	return h
}

var _ session.Session = (*fakeSession)(nil)
