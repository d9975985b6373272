// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Listening state machine
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import (
	"sync"
	"time"

	"github.com/msto63/lauscher/pkg/core/logging"
)

// ListeningState is the state of the ambient listening loop
type ListeningState int

const (
	// Idle - between listener iterations
	Idle ListeningState = iota

	// CapturingAmbient - recording and checking for a wake phrase
	CapturingAmbient

	// CapturingCommand - a wake phrase was heard, handling one command
	CapturingCommand

	// Stopped - terminal
	Stopped
)

// String returns the string representation of the state
func (s ListeningState) String() string {
	switch s {
	case Idle:
		return "idle"
	case CapturingAmbient:
		return "capturing-ambient"
	case CapturingCommand:
		return "capturing-command"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var validTransitions = map[ListeningState][]ListeningState{
	Idle:             {CapturingAmbient, Stopped},
	CapturingAmbient: {Idle, CapturingCommand},
	CapturingCommand: {Idle},
}

// StateChangeListener is called when state changes
type StateChangeListener func(oldState, newState ListeningState)

// StateMachine manages state transitions
type StateMachine struct {
	mu           sync.RWMutex
	currentState ListeningState
	stateTime    time.Time
	listeners    []StateChangeListener
	logger       *logging.Logger
}

// NewStateMachine creates a new state machine in Idle
func NewStateMachine() *StateMachine {
	return &StateMachine{
		currentState: Idle,
		stateTime:    time.Now(),
		logger:       logging.New("state"),
	}
}

// Current returns the current state
func (sm *StateMachine) Current() ListeningState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// StateDuration returns how long we've been in the current state
func (sm *StateMachine) StateDuration() time.Duration {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return time.Since(sm.stateTime)
}

// Transition changes to a new state. Invalid transitions are logged and
// rejected.
func (sm *StateMachine) Transition(newState ListeningState) bool {
	sm.mu.Lock()
	oldState := sm.currentState

	if !isValidTransition(oldState, newState) {
		sm.mu.Unlock()
		sm.logger.Warn("Rejected state transition", "from", oldState.String(), "to", newState.String())
		return false
	}

	sm.currentState = newState
	sm.stateTime = time.Now()
	listeners := sm.listeners
	sm.mu.Unlock()

	for _, listener := range listeners {
		listener(oldState, newState)
	}

	return true
}

// AddListener adds a state change listener
func (sm *StateMachine) AddListener(listener StateChangeListener) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.listeners = append(sm.listeners, listener)
}

func isValidTransition(from, to ListeningState) bool {
	for _, valid := range validTransitions[from] {
		if valid == to {
			return true
		}
	}
	return false
}
