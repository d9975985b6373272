// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     browser
// Description: Foreground bridge between the assistant and the tea program
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package browser

import (
	"errors"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/lauscher/internal/voiceassistant"
)

var errNotAttached = errors.New("foreground not attached")

// Bridge makes the tea program the assistant's foreground. Posted
// functions run inside Update.
type Bridge struct {
	program atomic.Pointer[tea.Program]
	done    chan struct{}
	once    sync.Once
}

// NewBridge creates an unattached bridge
func NewBridge() *Bridge {
	return &Bridge{done: make(chan struct{})}
}

// Attach binds the program. Must be called before anything is posted.
func (b *Bridge) Attach(p *tea.Program) {
	b.program.Store(p)
}

// Post schedules fn inside the program's Update
func (b *Bridge) Post(fn func()) error {
	select {
	case <-b.done:
		return voiceassistant.ErrForegroundClosed
	default:
	}
	p := b.program.Load()
	if p == nil {
		return errNotAttached
	}
	p.Send(runMsg{fn: fn})
	return nil
}

// Done is closed once the program exited
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Notify sends msg to the program without blocking the caller
func (b *Bridge) Notify(msg tea.Msg) {
	if p := b.program.Load(); p != nil {
		go p.Send(msg)
	}
}

// Run runs the attached program until it quits
func (b *Bridge) Run() error {
	defer b.once.Do(func() { close(b.done) })

	p := b.program.Load()
	if p == nil {
		return errNotAttached
	}
	_, err := p.Run()
	return err
}
