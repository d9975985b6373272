package voiceassistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateMachine_Transitions(t *testing.T) {
	sm := NewStateMachine()
	assert.Equal(t, Idle, sm.Current())

	// command capture only follows ambient capture
	assert.False(t, sm.Transition(CapturingCommand))
	assert.True(t, sm.Transition(CapturingAmbient))
	assert.False(t, sm.Transition(Stopped))
	assert.True(t, sm.Transition(CapturingCommand))
	assert.False(t, sm.Transition(CapturingAmbient))
	assert.True(t, sm.Transition(Idle))
	assert.True(t, sm.Transition(Stopped))

	// terminal
	assert.False(t, sm.Transition(Idle))
	assert.False(t, sm.Transition(CapturingAmbient))
	assert.Equal(t, Stopped, sm.Current())
}

func TestStateMachine_Listeners(t *testing.T) {
	sm := NewStateMachine()

	var changes [][2]ListeningState
	sm.AddListener(func(oldState, newState ListeningState) {
		changes = append(changes, [2]ListeningState{oldState, newState})
	})

	sm.Transition(CapturingAmbient)
	sm.Transition(CapturingCommand) // valid
	sm.Transition(Stopped)          // rejected, not reported
	sm.Transition(Idle)

	assert.Equal(t, [][2]ListeningState{
		{Idle, CapturingAmbient},
		{CapturingAmbient, CapturingCommand},
		{CapturingCommand, Idle},
	}, changes)
}

func TestListeningState_String(t *testing.T) {
	assert.Equal(t, "capturing-ambient", CapturingAmbient.String())
	assert.Equal(t, "unknown", ListeningState(42).String())
}
