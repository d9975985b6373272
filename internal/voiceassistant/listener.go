// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Ambient wake word listener
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/msto63/lauscher/internal/voiceassistant/audio"
	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// DefaultWakeWord triggers the command cycle
const DefaultWakeWord = "hey apple"

// Capturer records one utterance; satisfied by *audio.Recorder
type Capturer interface {
	Capture(ctx context.Context) (speech.Segment, error)
}

// Transcriber converts one utterance to text; satisfied by *speech.Adapter
type Transcriber interface {
	Transcribe(ctx context.Context, seg speech.Segment) (speech.Result, error)
}

// ListenerConfig holds wake word settings
type ListenerConfig struct {
	WakeWords       []string
	Acknowledgement string

	// ErrorBackoff is the pause after a capture or backend failure
	ErrorBackoff time.Duration
}

// Listener runs the ambient capture loop
type Listener struct {
	cfg     ListenerConfig
	rec     Capturer
	stt     Transcriber
	state   *StateMachine
	speak   func(ctx context.Context, text string)
	respond func(ctx context.Context, text string, err error) string
	logger  *logging.Logger
}

// NewListener creates a listener. respond turns a command transcription
// into the phrase to speak.
func NewListener(cfg ListenerConfig, rec Capturer, stt Transcriber, state *StateMachine,
	speak func(context.Context, string), respond func(context.Context, string, error) string) *Listener {
	if len(cfg.WakeWords) == 0 {
		cfg.WakeWords = []string{DefaultWakeWord}
	}
	if cfg.Acknowledgement == "" {
		cfg.Acknowledgement = PhraseAcknowledge
	}
	if cfg.ErrorBackoff == 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Listener{
		cfg:     cfg,
		rec:     rec,
		stt:     stt,
		state:   state,
		speak:   speak,
		respond: respond,
		logger:  logging.New("listener"),
	}
}

// Run loops until stop is closed or ctx is done. Stop is observed between
// iterations; a running capture is not interrupted.
func (l *Listener) Run(ctx context.Context, stop <-chan struct{}) {
	l.logger.Info("Listening for wake word", "wake_words", l.cfg.WakeWords)
	defer l.logger.Info("Listener stopped")

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := l.iterate(ctx); err != nil {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-time.After(l.cfg.ErrorBackoff):
			}
		}
	}
}

// iterate runs one ambient cycle and ends in Idle. It returns an error
// only for failures worth backing off from.
func (l *Listener) iterate(ctx context.Context) error {
	l.state.Transition(CapturingAmbient)
	defer l.state.Transition(Idle)

	seg, err := l.rec.Capture(ctx)
	if err != nil {
		if errors.Is(err, audio.ErrNoSpeech) {
			return nil
		}
		l.logger.Warn("Ambient capture failed", "error", err)
		return err
	}

	result, err := l.stt.Transcribe(ctx, seg)
	if err != nil {
		if errors.Is(err, speech.ErrUnintelligible) {
			return nil
		}
		l.logger.Warn("Ambient transcription failed", "error", err)
		return err
	}

	word, ok := MatchWakeWord(result.Text, l.cfg.WakeWords)
	if !ok {
		l.logger.Debug("No wake word", "text", result.Text)
		return nil
	}

	l.logger.Info("Wake word detected", "wake_word", word)
	l.state.Transition(CapturingCommand)
	l.speak(ctx, l.cfg.Acknowledgement)
	l.commandCycle(ctx)
	return nil
}

// commandCycle captures, transcribes and answers one command
func (l *Listener) commandCycle(ctx context.Context) {
	var text string
	seg, err := l.rec.Capture(ctx)
	if err == nil {
		var result speech.Result
		result, err = l.stt.Transcribe(ctx, seg)
		text = result.Text
	}
	if err == nil {
		l.logger.Info("Command received", "text", text)
	}

	l.speak(ctx, l.respond(ctx, text, err))
}

// MatchWakeWord reports the first wake word contained in text
func MatchWakeWord(text string, wakeWords []string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return "", false
	}
	for _, w := range wakeWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" && strings.Contains(normalized, w) {
			return w, true
		}
	}
	return "", false
}
