// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Controller
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/msto63/lauscher/internal/voiceassistant/client"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// Speaker plays one speech request to completion; satisfied by
// *audio.Engine
type Speaker interface {
	Speak(ctx context.Context, req speech.Request) error
}

// Config holds the controller settings
type Config struct {
	Listener   ListenerConfig
	Dispatcher DispatcherConfig
	Voice      speech.VoiceConfig

	// SpeakTimeout bounds one synthesis and playback
	SpeakTimeout time.Duration
}

// DefaultConfig returns the built-in controller settings
func DefaultConfig() Config {
	return Config{
		Listener: ListenerConfig{
			WakeWords:       []string{DefaultWakeWord},
			Acknowledgement: PhraseAcknowledge,
			ErrorBackoff:    time.Second,
		},
		Dispatcher:   DefaultDispatcherConfig(),
		SpeakTimeout: 2 * time.Minute,
	}
}

// Deps are the collaborators of the controller. Recorder and Transcriber
// are only needed for Start.
type Deps struct {
	Recorder    Capturer
	Transcriber Transcriber
	Speaker     Speaker
	LLM         client.LLM
	Session     session.Session
	Display     Display
	Foreground  Foreground
}

// Controller owns the listener lifecycle and is the single entry point for
// speech and for session access from outside the foreground.
type Controller struct {
	cfg        Config
	deps       Deps
	state      *StateMachine
	dispatcher *Dispatcher
	listener   *Listener
	logger     *logging.Logger

	mu      sync.Mutex
	running bool
	stopped bool
	stop    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a controller
func New(cfg Config, deps Deps) (*Controller, error) {
	switch {
	case deps.Speaker == nil:
		return nil, errors.New("speaker is required")
	case deps.LLM == nil:
		return nil, errors.New("llm is required")
	case deps.Session == nil:
		return nil, errors.New("session is required")
	case deps.Display == nil:
		return nil, errors.New("display is required")
	case deps.Foreground == nil:
		return nil, errors.New("foreground is required")
	}
	if cfg.SpeakTimeout == 0 {
		cfg.SpeakTimeout = 2 * time.Minute
	}

	c := &Controller{
		cfg:    cfg,
		deps:   deps,
		state:  NewStateMachine(),
		logger: logging.New("controller"),
	}

	c.dispatcher = NewDispatcher(cfg.Dispatcher, c, deps.LLM, c.speakFromListener)
	if deps.Recorder != nil && deps.Transcriber != nil {
		c.listener = NewListener(cfg.Listener, deps.Recorder, deps.Transcriber, c.state,
			c.speakFromListener, c.dispatcher.Respond)
	}

	return c, nil
}

// Dispatcher returns the command dispatcher
func (c *Controller) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// Start launches the listener goroutine
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.stopped:
		return ErrStopped
	case c.running:
		return ErrAlreadyRunning
	case c.listener == nil:
		return ErrNoMicrophone
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.stop = make(chan struct{})
	c.cancel = cancel
	c.running = true

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.listener.Run(ctx, c.stop)
	}()

	c.logger.Info("Assistant started")
	return nil
}

// Stop signals the listener, waits for it and moves to Stopped. Calling
// Stop again is a no-op. Must not be called from the foreground while the
// listener may be waiting on it.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	running := c.running
	c.mu.Unlock()

	if running {
		close(c.stop)
		c.wg.Wait()
		c.cancel()
	}

	c.state.Transition(Stopped)
	c.logger.Info("Assistant stopped")
}

// State returns the listening state
func (c *Controller) State() ListeningState {
	return c.state.Current()
}

// OnStateChange registers a state listener
func (c *Controller) OnStateChange(listener StateChangeListener) {
	c.state.AddListener(listener)
}

// RequestSpeak speaks text and blocks until playback finished. Failures
// are logged only.
func (c *Controller) RequestSpeak(ctx context.Context, text string) {
	c.speak(ctx, text, speech.OriginForeground)
}

func (c *Controller) speakFromListener(ctx context.Context, text string) {
	c.speak(ctx, text, speech.OriginListener)
}

func (c *Controller) speak(ctx context.Context, text string, origin speech.Origin) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.SpeakTimeout)
	defer cancel()

	req := speech.NewRequest(text, c.cfg.Voice, origin)
	if err := c.deps.Speaker.Speak(ctx, req); err != nil {
		c.logger.Warn("Speech failed", "id", req.ID, "origin", string(origin), "error", err)
	}
}

// RequestSessionAction runs fn on the foreground with the session and
// display and returns its error. Must not be called from the foreground.
func (c *Controller) RequestSessionAction(ctx context.Context, fn func(session.Session, Display) error) error {
	done := make(chan error, 1)

	err := c.deps.Foreground.Post(func() {
		done <- fn(c.deps.Session, c.deps.Display)
	})
	if err != nil {
		return fmt.Errorf("session action: %w", err)
	}

	select {
	case err := <-done:
		return err
	case <-c.deps.Foreground.Done():
		return fmt.Errorf("session action: %w", ErrForegroundClosed)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AnalyzePage summarizes the current page, shows and speaks the result
func (c *Controller) AnalyzePage(ctx context.Context) PageAnalysisResult {
	res := c.dispatcher.AnalyzePage(ctx)
	if res.Err != nil {
		c.RequestSpeak(ctx, analysisFailed(res.Err))
	} else {
		c.RequestSpeak(ctx, res.Summary)
	}
	return res
}

// SpeakAnswer speaks the answer currently shown, if any
func (c *Controller) SpeakAnswer(ctx context.Context) {
	answer := make(chan string, 1)
	err := c.RequestSessionAction(ctx, func(_ session.Session, d Display) error {
		answer <- d.Answer()
		return nil
	})
	if err != nil {
		c.logger.Warn("Could not read answer", "error", err)
		return
	}
	if text := <-answer; text != "" {
		c.RequestSpeak(ctx, text)
	}
}

// Ask runs one typed command through the dispatcher and speaks the result
func (c *Controller) Ask(ctx context.Context, text string) string {
	phrase := c.dispatcher.Dispatch(ctx, Classify(text))
	c.RequestSpeak(ctx, phrase)
	return phrase
}
