// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Answer display
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import (
	"github.com/msto63/lauscher/pkg/core/logging"
)

// Status line texts
const (
	StatusReady     = "AI is ready"
	StatusAnalyzing = "AI is analyzing the page..."
	StatusComplete  = "AI analysis complete"
	StatusFailed    = "AI analysis failed"
)

// Display shows status and answers to the user. It belongs to the
// foreground and is only touched from there.
type Display interface {
	SetStatus(status string)
	ShowAnswer(text string)

	// Answer returns the text currently shown
	Answer() string
}

// LogDisplay writes status and answers to the log. Used in headless mode.
type LogDisplay struct {
	status string
	answer string
	logger *logging.Logger
}

// NewLogDisplay creates a log backed display
func NewLogDisplay() *LogDisplay {
	return &LogDisplay{
		status: StatusReady,
		logger: logging.New("display"),
	}
}

// SetStatus records and logs the status
func (d *LogDisplay) SetStatus(status string) {
	d.status = status
	d.logger.Info("Status", "status", status)
}

// ShowAnswer records and logs the answer
func (d *LogDisplay) ShowAnswer(text string) {
	d.answer = text
	d.logger.Info("Answer", "text", text)
}

// Answer returns the last answer
func (d *LogDisplay) Answer() string {
	return d.answer
}

// Status returns the last status
func (d *LogDisplay) Status() string {
	return d.status
}
