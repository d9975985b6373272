package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge emulates the browser side of the WebSocket protocol
type fakeBridge struct {
	history []string
	pos     int
	pushOn  string
	repeat  int // extra copies of every reply
}

func (b *fakeBridge) handle(req RemoteRequest) RemoteResponse {
	resp := RemoteResponse{ID: req.ID}
	switch req.Method {
	case MethodNavigate:
		if strings.Contains(req.Params["url"], "bad") {
			resp.Error = "net::ERR_NAME_NOT_RESOLVED"
			return resp
		}
		b.history = append(b.history[:b.pos+1], req.Params["url"])
		b.pos = len(b.history) - 1
	case MethodBack:
		if b.pos == 0 {
			resp.Error = "no history entry"
			return resp
		}
		b.pos--
	case MethodForward:
		if b.pos == len(b.history)-1 {
			resp.Error = "no history entry"
			return resp
		}
		b.pos++
	case MethodExtract:
		resp.Content = "content of " + b.history[b.pos]
	case MethodState, MethodReload:
	}
	resp.URL = b.history[b.pos]
	resp.Title = "Title " + b.history[b.pos]
	return resp
}

func bridgeServer(t *testing.T, b *fakeBridge) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req RemoteRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if req.Method == MethodReload && b.pushOn != "" {
				_ = conn.WriteJSON(RemoteResponse{Event: EventPage, URL: b.pushOn, Title: "Pushed"})
			}
			resp := b.handle(req)
			for i := 0; i <= b.repeat; i++ {
				if err := conn.WriteJSON(resp); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRemote_Commands(t *testing.T) {
	ctx := context.Background()
	url := bridgeServer(t, &fakeBridge{history: []string{"https://start"}})

	r, err := DialRemote(ctx, RemoteConfig{URL: url, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "https://start", r.URL())

	require.NoError(t, r.Navigate(ctx, "https://www.example.com"))
	assert.Equal(t, "https://www.example.com", r.URL())
	assert.Equal(t, "Title https://www.example.com", r.Title())

	content, err := r.ExtractContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "content of https://www.example.com", content)

	require.NoError(t, r.Back(ctx))
	assert.Equal(t, "https://start", r.URL())
	require.NoError(t, r.Forward(ctx))
	assert.Equal(t, "https://www.example.com", r.URL())
}

func TestRemote_ErrorReply(t *testing.T) {
	ctx := context.Background()
	url := bridgeServer(t, &fakeBridge{history: []string{"https://start"}})

	r, err := DialRemote(ctx, RemoteConfig{URL: url, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer r.Close()

	err = r.Navigate(ctx, "https://bad.host")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERR_NAME_NOT_RESOLVED")
	assert.Equal(t, "https://start", r.URL())

	err = r.Back(ctx)
	require.Error(t, err)
}

func TestRemote_PageEvent(t *testing.T) {
	ctx := context.Background()
	url := bridgeServer(t, &fakeBridge{history: []string{"https://start"}, pushOn: "https://pushed"})

	r, err := DialRemote(ctx, RemoteConfig{URL: url, Timeout: 2 * time.Second})
	require.NoError(t, err)
	defer r.Close()

	pages := make(chan Page, 4)
	r.OnChange(func(p Page) { pages <- p })

	require.NoError(t, r.Reload(ctx))

	select {
	case p := <-pages:
		assert.Equal(t, "https://pushed", p.URL)
	case <-time.After(2 * time.Second):
		t.Fatal("no page event")
	}
}

func TestRemote_DuplicateReplies(t *testing.T) {
	ctx := context.Background()
	url := bridgeServer(t, &fakeBridge{history: []string{"https://start"}, repeat: 3})

	r, err := DialRemote(ctx, RemoteConfig{URL: url, Timeout: time.Second})
	require.NoError(t, err)
	defer r.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Reload(ctx), "reload %d", i)
	}
	content, err := r.ExtractContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, "content of https://start", content)
}

func TestRemote_Closed(t *testing.T) {
	ctx := context.Background()
	url := bridgeServer(t, &fakeBridge{history: []string{"https://start"}})

	r, err := DialRemote(ctx, RemoteConfig{URL: url, Timeout: 2 * time.Second})
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	assert.ErrorIs(t, r.Reload(ctx), ErrClosed)
}

func TestDialRemote_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := DialRemote(ctx, RemoteConfig{URL: "ws://127.0.0.1:1/none"})
	require.Error(t, err)
}
