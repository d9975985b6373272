package voiceassistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForegroundLoop_RunsInOrder(t *testing.T) {
	fg := NewForegroundLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		require.NoError(t, fg.Post(func() {
			got = append(got, i)
			if i == 4 {
				close(done)
			}
		}))
	}

	go fg.Run(ctx)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted functions did not run")
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)

	cancel()
	<-fg.Done()
	assert.ErrorIs(t, fg.Post(func() {}), ErrForegroundClosed)
}
