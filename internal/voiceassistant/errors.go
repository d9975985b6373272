// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Errors
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import "errors"

var (
	// ErrNavigation wraps a navigation step the session rejected
	ErrNavigation = errors.New("navigation failed")

	// ErrStopped is returned by Start after Stop
	ErrStopped = errors.New("assistant stopped")

	// ErrAlreadyRunning is returned by a second Start
	ErrAlreadyRunning = errors.New("assistant already running")

	// ErrNoMicrophone is returned by Start when no capture path is configured
	ErrNoMicrophone = errors.New("no recorder or transcriber configured")

	// ErrForegroundClosed is returned when posting to a finished foreground
	ErrForegroundClosed = errors.New("foreground closed")
)
