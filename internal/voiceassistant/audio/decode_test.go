package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/lauscher/internal/voiceassistant/speech"
)

func wavBytes(t *testing.T, rate, channels int, data []int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		SourceBitDepth: 16,
		Data:           data,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return b
}

func TestDecode_WAV(t *testing.T) {
	data := wavBytes(t, 22050, 2, []int{0, 16384, -16384, 32767})

	pcm, err := Decode(speech.Audio{Data: data, Format: "wav"})
	require.NoError(t, err)

	assert.Equal(t, 22050, pcm.SampleRate)
	assert.Equal(t, 2, pcm.Channels)
	require.Len(t, pcm.Samples, 4)
	assert.InDelta(t, 0.5, pcm.Samples[1], 0.001)
	assert.InDelta(t, -0.5, pcm.Samples[2], 0.001)
}

func TestDecode_PCM16(t *testing.T) {
	pcm, err := Decode(speech.Audio{Data: []byte{0x00, 0x40, 0x00, 0xC0}, Format: "pcm", SampleRate: 16000})
	require.NoError(t, err)

	assert.Equal(t, []float32{0.5, -0.5}, pcm.Samples)
	assert.Equal(t, 1, pcm.Channels)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		audio speech.Audio
	}{
		{"unknown format", speech.Audio{Data: []byte{1}, Format: "ogg"}},
		{"garbage mp3", speech.Audio{Data: []byte("definitely not audio"), Format: "mp3"}},
		{"garbage wav", speech.Audio{Data: []byte("RIFFnope"), Format: "wav"}},
		{"pcm without rate", speech.Audio{Data: []byte{0, 0}, Format: "pcm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.audio)
			assert.Error(t, err)
		})
	}
}

func TestPCM_Duration(t *testing.T) {
	pcm := PCM{Samples: make([]float32, 44100*2), SampleRate: 44100, Channels: 2}
	assert.Equal(t, time.Second, pcm.Duration())
	assert.Equal(t, time.Duration(0), PCM{}.Duration())
}
