package vad

import (
	"testing"
	"time"
)

const frame = 10 * time.Millisecond

func feed(tr *SpeechTracker, speech bool, n int) Decision {
	d := Continue
	for i := 0; i < n && d == Continue; i++ {
		d = tr.Update(speech, frame)
	}
	return d
}

func testConfig() Config {
	return Config{
		SampleRate:        16000,
		SilenceDuration:   100 * time.Millisecond,
		MinSpeechDuration: 50 * time.Millisecond,
		MaxDuration:       2 * time.Second,
		NoSpeechTimeout:   500 * time.Millisecond,
	}
}

func TestSpeechTracker_CompleteAfterSilence(t *testing.T) {
	tr := NewSpeechTracker(testConfig())

	if d := feed(tr, true, 20); d != Continue {
		t.Fatalf("during speech got %v", d)
	}
	if d := feed(tr, false, 9); d != Continue {
		t.Fatalf("before silence threshold got %v", d)
	}
	if d := tr.Update(false, frame); d != Complete {
		t.Errorf("at silence threshold got %v, want complete", d)
	}
	if tr.SpeechDuration() != 200*time.Millisecond {
		t.Errorf("SpeechDuration = %v", tr.SpeechDuration())
	}
}

func TestSpeechTracker_ShortBurstDiscarded(t *testing.T) {
	tr := NewSpeechTracker(testConfig())

	feed(tr, true, 2)
	if d := feed(tr, false, 20); d != Discard {
		t.Errorf("got %v, want discard", d)
	}
}

func TestSpeechTracker_NoSpeech(t *testing.T) {
	tr := NewSpeechTracker(testConfig())

	if d := feed(tr, false, 100); d != NoSpeech {
		t.Errorf("got %v, want no-speech", d)
	}
	if tr.Started() {
		t.Error("Started() should be false")
	}
}

func TestSpeechTracker_MaxDuration(t *testing.T) {
	tr := NewSpeechTracker(testConfig())

	if d := feed(tr, true, 1000); d != Complete {
		t.Errorf("got %v, want complete at max duration", d)
	}
}

func TestSpeechTracker_SilenceResetBySpeech(t *testing.T) {
	tr := NewSpeechTracker(testConfig())

	feed(tr, true, 10)
	feed(tr, false, 5)
	feed(tr, true, 1)
	if d := feed(tr, false, 9); d != Continue {
		t.Errorf("silence counter should restart after speech, got %v", d)
	}

	tr.Reset()
	if tr.Started() || tr.SpeechDuration() != 0 {
		t.Error("Reset() did not clear state")
	}
}

func TestDecision_String(t *testing.T) {
	tests := map[Decision]string{
		Continue:     "continue",
		Complete:     "complete",
		Discard:      "discard",
		NoSpeech:     "no-speech",
		Decision(42): "unknown",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %v, want %v", d, got, want)
		}
	}
}

func TestEnergy(t *testing.T) {
	e := NewEnergy()

	quiet := make([]float32, 160)
	loud := make([]float32, 160)
	for i := range loud {
		if i%2 == 0 {
			loud[i] = 0.5
		} else {
			loud[i] = -0.5
		}
	}

	if s, _ := e.IsSpeech(quiet); s {
		t.Error("silence classified as speech")
	}
	if s, _ := e.IsSpeech(loud); !s {
		t.Error("loud frame classified as silence")
	}
	if RMS(nil) != 0 {
		t.Error("RMS(nil) should be 0")
	}
}

func TestWebRTC_Silence(t *testing.T) {
	w, err := NewWebRTC(Config{SampleRate: 16000, Mode: 3})
	if err != nil {
		t.Fatalf("NewWebRTC() error = %v", err)
	}
	defer w.Close()

	speech, err := w.IsSpeech(make([]float32, FrameSize(16000)))
	if err != nil {
		t.Fatalf("IsSpeech() error = %v", err)
	}
	if speech {
		t.Error("digital silence classified as speech")
	}
}

func TestWebRTC_InvalidRate(t *testing.T) {
	if _, err := NewWebRTC(Config{SampleRate: 11025}); err == nil {
		t.Error("expected error for unsupported sample rate")
	}
}
