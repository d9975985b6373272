// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     browser
// Description: Message types for async operations
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package browser

import "github.com/msto63/lauscher/internal/voiceassistant"

// runMsg carries a function posted by the assistant
type runMsg struct {
	fn func()
}

// actionDoneMsg is sent when a navigation or speech action finished
type actionDoneMsg struct {
	action string
	err    error
}

// analysisDoneMsg is sent when the page analysis finished
type analysisDoneMsg struct {
	result voiceassistant.PageAnalysisResult
}

// StateMsg reports a listening state change
type StateMsg struct {
	State voiceassistant.ListeningState
}

// PageMsg reports that the session changed page on its own
type PageMsg struct{}
