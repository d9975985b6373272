// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     session
// Description: Content session contract (navigation and extraction)
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"errors"
)

var (
	// ErrNoHistory is returned by Back/Forward at the end of the history
	ErrNoHistory = errors.New("no history entry")

	// ErrNoPage is returned when nothing has been loaded yet
	ErrNoPage = errors.New("no page loaded")
)

// Session is a single browsing session. Implementations are not safe for
// concurrent use; callers confine a Session to one goroutine.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Reload(ctx context.Context) error

	// ExtractContent returns the readable text of the current page
	ExtractContent(ctx context.Context) (string, error)

	URL() string
	Title() string
	Close() error
}

// Page is a snapshot of the current page
type Page struct {
	URL   string
	Title string
}

// Observer is notified after the current page changed
type Observer func(Page)
