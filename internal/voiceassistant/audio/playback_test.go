package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
)

type pcmSynth struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (s *pcmSynth) Synthesize(ctx context.Context, text string, voice speech.VoiceConfig) (speech.Audio, error) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()
	if s.err != nil {
		return speech.Audio{}, s.err
	}
	// first byte carries a marker so the output can tell requests apart
	return speech.Audio{Data: []byte{byte(len(text)), 0, 0, 0}, Format: "pcm", SampleRate: 16000}, nil
}

type event struct {
	kind string
	text int
}

// gatedOutput blocks every Play until the test releases it
type gatedOutput struct {
	mu      sync.Mutex
	events  []event
	started chan int
	gate    chan struct{}
	active  int32
	maxSeen int32
	err     error
}

func newGatedOutput() *gatedOutput {
	return &gatedOutput{started: make(chan int, 64), gate: make(chan struct{})}
}

func (o *gatedOutput) Play(ctx context.Context, pcm PCM) error {
	marker := int(pcm.Samples[0]*32768 + 0.5)
	n := atomic.AddInt32(&o.active, 1)
	for {
		m := atomic.LoadInt32(&o.maxSeen)
		if n <= m || atomic.CompareAndSwapInt32(&o.maxSeen, m, n) {
			break
		}
	}

	o.mu.Lock()
	o.events = append(o.events, event{"start", marker})
	o.mu.Unlock()
	o.started <- marker

	<-o.gate

	o.mu.Lock()
	o.events = append(o.events, event{"end", marker})
	o.mu.Unlock()
	atomic.AddInt32(&o.active, -1)
	return o.err
}

func TestEngine_SerializesInSubmissionOrder(t *testing.T) {
	synth := &pcmSynth{}
	out := newGatedOutput()
	engine := NewEngine(synth, out)

	var wg sync.WaitGroup
	speak := func(text string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, engine.Speak(context.Background(), speech.NewRequest(text, speech.VoiceConfig{}, speech.OriginListener)))
		}()
	}

	speak("a")
	require.Equal(t, 1, <-out.started)

	speak("bb")
	require.Eventually(t, func() bool { return engine.Pending() == 2 }, time.Second, time.Millisecond)

	select {
	case m := <-out.started:
		t.Fatalf("request %d started while another was playing", m)
	case <-time.After(30 * time.Millisecond):
	}

	out.gate <- struct{}{}
	require.Equal(t, 2, <-out.started)
	out.gate <- struct{}{}
	wg.Wait()

	assert.Equal(t, []event{{"start", 1}, {"end", 1}, {"start", 2}, {"end", 2}}, out.events)
	assert.Equal(t, 0, engine.Pending())
}

func TestEngine_NoOverlapUnderLoad(t *testing.T) {
	out := newGatedOutput()
	close(out.gate)
	engine := NewEngine(&pcmSynth{}, out)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engine.Speak(context.Background(), speech.Request{Text: fmt.Sprintf("%*s", i, "x")})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&out.maxSeen))
	assert.Len(t, out.events, 40)
}

func TestEngine_FailureReleasesOutput(t *testing.T) {
	synth := &pcmSynth{err: errors.New("quota exceeded")}
	out := newGatedOutput()
	close(out.gate)
	engine := NewEngine(synth, out)

	err := engine.Speak(context.Background(), speech.Request{Text: "hello"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlayback)
	assert.Contains(t, err.Error(), "quota exceeded")

	synth.err = nil
	assert.NoError(t, engine.Speak(context.Background(), speech.Request{Text: "again"}))
	assert.Equal(t, 0, engine.Pending())
}

func TestEngine_DecodeFailure(t *testing.T) {
	out := newGatedOutput()
	close(out.gate)
	engine := NewEngine(&pcmSynth{}, out)
	engine.decode = func(speech.Audio) (PCM, error) { return PCM{}, errors.New("corrupt frame") }

	err := engine.Speak(context.Background(), speech.Request{Text: "hello"})
	assert.ErrorIs(t, err, ErrPlayback)
	assert.Empty(t, out.events)
}

func TestEngine_OutputFailure(t *testing.T) {
	out := newGatedOutput()
	close(out.gate)
	out.err = errors.New("device busy")
	engine := NewEngine(&pcmSynth{}, out)

	err := engine.Speak(context.Background(), speech.Request{Text: "hello"})
	assert.ErrorIs(t, err, ErrPlayback)
	assert.Equal(t, 0, engine.Pending())
}

func TestEngine_BlankTextIsNoop(t *testing.T) {
	synth := &pcmSynth{}
	engine := NewEngine(synth, newGatedOutput())

	assert.NoError(t, engine.Speak(context.Background(), speech.Request{Text: "   "}))
	assert.Empty(t, synth.texts)
}
