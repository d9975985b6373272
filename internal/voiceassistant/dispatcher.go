// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Command dispatch
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/msto63/lauscher/internal/voiceassistant/audio"
	"github.com/msto63/lauscher/internal/voiceassistant/client"
	"github.com/msto63/lauscher/internal/voiceassistant/session"
	"github.com/msto63/lauscher/internal/voiceassistant/speech"
	"github.com/msto63/lauscher/pkg/core/logging"
)

// Spoken phrases
const (
	PhraseAcknowledge    = "Hello, how can I help you?"
	PhraseGoingBack      = "Going back"
	PhraseGoingForward   = "Going forward"
	PhraseAnalyzing      = "Analyzing the current page"
	PhraseProcessing     = "Processing your query"
	PhraseUnintelligible = "Sorry, I didn't understand that. Can you please repeat?"
	PhraseRequestError   = "Sorry, there was an error processing your request."
)

// Analysis prompt defaults
const (
	DefaultSystemPrompt = "You are a helpful AI assistant that analyzes web page content."
	DefaultQuestion     = "You are an AI powered browser for blind people. Summarize the main content of this webpage."
	DefaultContentLimit = 4000
)

// SessionRunner runs fn on the foreground and waits for it
type SessionRunner interface {
	RequestSessionAction(ctx context.Context, fn func(session.Session, Display) error) error
}

// PageAnalysisResult is the outcome of one page summary
type PageAnalysisResult struct {
	SourceURL string
	Summary   string
	Err       error
}

// DispatcherConfig holds the analysis settings
type DispatcherConfig struct {
	SystemPrompt string
	Question     string
	ContentLimit int
}

// DefaultDispatcherConfig returns the built-in analysis settings
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		SystemPrompt: DefaultSystemPrompt,
		Question:     DefaultQuestion,
		ContentLimit: DefaultContentLimit,
	}
}

// Dispatcher executes classified commands and produces the phrase to speak
type Dispatcher struct {
	cfg    DispatcherConfig
	runner SessionRunner
	llm    client.LLM
	speak  func(ctx context.Context, text string)
	logger *logging.Logger
}

// NewDispatcher creates a dispatcher. speak is used for progress phrases
// and may be nil.
func NewDispatcher(cfg DispatcherConfig, runner SessionRunner, llm client.LLM, speak func(context.Context, string)) *Dispatcher {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.Question == "" {
		cfg.Question = DefaultQuestion
	}
	if cfg.ContentLimit <= 0 {
		cfg.ContentLimit = DefaultContentLimit
	}
	if speak == nil {
		speak = func(context.Context, string) {}
	}
	return &Dispatcher{
		cfg:    cfg,
		runner: runner,
		llm:    llm,
		speak:  speak,
		logger: logging.New("dispatcher"),
	}
}

// Respond turns a transcription outcome into the phrase to speak
func (d *Dispatcher) Respond(ctx context.Context, text string, err error) string {
	switch {
	case errors.Is(err, speech.ErrUnintelligible), errors.Is(err, audio.ErrNoSpeech):
		return PhraseUnintelligible
	case err != nil:
		d.logger.Warn("Command transcription failed", "error", err)
		return PhraseRequestError
	}
	return d.Dispatch(ctx, Classify(text))
}

// Dispatch executes intent. It never fails; failures become apology
// phrases.
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent) string {
	d.logger.Info("Dispatching command", "intent", intent.Kind.String(), "target", intent.Target)

	switch intent.Kind {
	case AnalyzePage:
		d.speak(ctx, PhraseAnalyzing)
		res := d.AnalyzePage(ctx)
		if res.Err != nil {
			return analysisFailed(res.Err)
		}
		return res.Summary

	case NavigateBack:
		if err := d.navigate(ctx, "back", session.Session.Back); err != nil {
			return fmt.Sprintf("Sorry, I couldn't go back. Error: %v", err)
		}
		return PhraseGoingBack

	case NavigateForward:
		if err := d.navigate(ctx, "forward", session.Session.Forward); err != nil {
			return fmt.Sprintf("Sorry, I couldn't go forward. Error: %v", err)
		}
		return PhraseGoingForward

	case OpenURL:
		url := NormalizeURL(intent.Target)
		err := d.navigate(ctx, "open", func(s session.Session, ctx context.Context) error {
			return s.Navigate(ctx, url)
		})
		if err != nil {
			return fmt.Sprintf("Sorry, I couldn't open the URL. Error: %v", err)
		}
		return "Opening " + intent.Target

	case FreeFormQuery:
		d.speak(ctx, PhraseProcessing)
		answer, err := d.llm.Complete(ctx, []client.Message{
			{Role: client.RoleUser, Content: intent.Text},
		})
		if err != nil {
			d.logger.Error("Query failed", "error", err)
			return PhraseRequestError
		}
		_ = d.runner.RequestSessionAction(ctx, func(_ session.Session, disp Display) error {
			disp.ShowAnswer(answer)
			return nil
		})
		return answer

	default:
		return PhraseUnintelligible
	}
}

// AnalyzePage summarizes the current page and shows the result
func (d *Dispatcher) AnalyzePage(ctx context.Context) PageAnalysisResult {
	var res PageAnalysisResult
	page := make(chan [2]string, 1)

	err := d.runner.RequestSessionAction(ctx, func(s session.Session, disp Display) error {
		disp.SetStatus(StatusAnalyzing)
		content, err := s.ExtractContent(ctx)
		page <- [2]string{s.URL(), content}
		return err
	})
	if err == nil {
		p := <-page
		res.SourceURL = p[0]
		prompt := BuildAnalysisPrompt(res.SourceURL, d.cfg.Question, p[1], d.cfg.ContentLimit)
		res.Summary, err = d.llm.Complete(ctx, []client.Message{
			{Role: client.RoleSystem, Content: d.cfg.SystemPrompt},
			{Role: client.RoleUser, Content: prompt},
		})
	}
	res.Err = err

	if res.Err != nil {
		d.logger.Error("Page analysis failed", "url", res.SourceURL, "error", res.Err)
	}

	answer, status := res.Summary, StatusComplete
	if res.Err != nil {
		answer, status = analysisFailed(res.Err), StatusFailed
	}
	_ = d.runner.RequestSessionAction(ctx, func(_ session.Session, disp Display) error {
		disp.ShowAnswer(answer)
		disp.SetStatus(status)
		return nil
	})

	return res
}

func (d *Dispatcher) navigate(ctx context.Context, op string, step func(session.Session, context.Context) error) error {
	err := d.runner.RequestSessionAction(ctx, func(s session.Session, _ Display) error {
		return step(s, ctx)
	})
	if err != nil {
		d.logger.Warn("Navigation failed", "op", op, "error", err)
		return fmt.Errorf("%w: %w", ErrNavigation, err)
	}
	return nil
}

func analysisFailed(err error) string {
	return fmt.Sprintf("Sorry, the page analysis failed. Error: %v", err)
}
