// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Foreground execution context
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import (
	"context"
	"sync"
)

// Foreground is the single context that owns the session and the display.
// Post schedules fn to run there; Done is closed once nothing posted will
// run anymore.
type Foreground interface {
	Post(fn func()) error
	Done() <-chan struct{}
}

// ForegroundLoop is a channel backed Foreground for headless use
type ForegroundLoop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewForegroundLoop creates a loop; call Run to start executing
func NewForegroundLoop() *ForegroundLoop {
	return &ForegroundLoop{
		queue: make(chan func(), 16),
		done:  make(chan struct{}),
	}
}

// Post queues fn
func (l *ForegroundLoop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrForegroundClosed
	default:
	}

	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrForegroundClosed
	}
}

// Done is closed when Run returned
func (l *ForegroundLoop) Done() <-chan struct{} {
	return l.done
}

// Run executes posted functions in order until ctx is cancelled
func (l *ForegroundLoop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}
