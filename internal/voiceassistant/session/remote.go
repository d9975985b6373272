// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     session
// Description: Remote-controlled browser session over WebSocket
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/msto63/lauscher/pkg/core/logging"
)

// Remote methods understood by the browser bridge
const (
	MethodNavigate = "navigate"
	MethodBack     = "back"
	MethodForward  = "forward"
	MethodReload   = "reload"
	MethodExtract  = "extract"
	MethodState    = "state"
)

// EventPage is pushed by the bridge when the page changed on its own
const EventPage = "page"

// ErrClosed is returned for calls on a closed remote session
var ErrClosed = errors.New("remote session closed")

// RemoteRequest is sent to the browser bridge
type RemoteRequest struct {
	ID     string            `json:"id"`
	Method string            `json:"method"`
	Params map[string]string `json:"params,omitempty"`
}

// RemoteResponse is a reply or an unsolicited event from the bridge
type RemoteResponse struct {
	ID      string `json:"id,omitempty"`
	Event   string `json:"event,omitempty"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RemoteConfig holds the bridge connection settings
type RemoteConfig struct {
	URL     string
	Timeout time.Duration
}

// Remote drives an external browser through a WebSocket bridge.
// Requests are correlated with responses by id.
type Remote struct {
	cfg  RemoteConfig
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]chan RemoteResponse
	page     Page
	observer Observer
	closed   bool
	readErr  error

	done   chan struct{}
	logger *logging.Logger
}

// DialRemote connects to the bridge and fetches the current page state
func DialRemote(ctx context.Context, cfg RemoteConfig) (*Remote, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, err)
	}

	r := &Remote{
		cfg:     cfg,
		conn:    conn,
		pending: make(map[string]chan RemoteResponse),
		done:    make(chan struct{}),
		logger:  logging.New("session-remote"),
	}
	go r.readLoop()

	if _, err := r.call(ctx, MethodState, nil); err != nil {
		r.Close()
		return nil, err
	}

	r.logger.Info("Connected to browser bridge", "url", cfg.URL)
	return r, nil
}

// OnChange registers the page change observer
func (r *Remote) OnChange(o Observer) {
	r.mu.Lock()
	r.observer = o
	r.mu.Unlock()
}

// Navigate asks the browser to load url
func (r *Remote) Navigate(ctx context.Context, url string) error {
	_, err := r.call(ctx, MethodNavigate, map[string]string{"url": url})
	return err
}

// Back steps back in the browser history
func (r *Remote) Back(ctx context.Context) error {
	_, err := r.call(ctx, MethodBack, nil)
	return err
}

// Forward steps forward in the browser history
func (r *Remote) Forward(ctx context.Context) error {
	_, err := r.call(ctx, MethodForward, nil)
	return err
}

// Reload reloads the current page
func (r *Remote) Reload(ctx context.Context) error {
	_, err := r.call(ctx, MethodReload, nil)
	return err
}

// ExtractContent returns the page text as reported by the browser
func (r *Remote) ExtractContent(ctx context.Context) (string, error) {
	resp, err := r.call(ctx, MethodExtract, nil)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// URL returns the last known address
func (r *Remote) URL() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.URL
}

// Title returns the last known title
func (r *Remote) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page.Title
}

// Close closes the connection and fails all pending calls
func (r *Remote) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.writeMu.Lock()
	_ = r.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	r.writeMu.Unlock()

	err := r.conn.Close()
	<-r.done
	return err
}

func (r *Remote) call(ctx context.Context, method string, params map[string]string) (RemoteResponse, error) {
	req := RemoteRequest{
		ID:     uuid.NewString(),
		Method: method,
		Params: params,
	}
	reply := make(chan RemoteResponse, 1)

	r.mu.Lock()
	if r.closed || r.readErr != nil {
		err := r.readErr
		r.mu.Unlock()
		if err == nil {
			err = ErrClosed
		}
		return RemoteResponse{}, fmt.Errorf("%s: %w", method, err)
	}
	r.pending[req.ID] = reply
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.pending, req.ID)
		r.mu.Unlock()
	}()

	r.writeMu.Lock()
	_ = r.conn.SetWriteDeadline(time.Now().Add(r.cfg.Timeout))
	err := r.conn.WriteJSON(req)
	r.writeMu.Unlock()
	if err != nil {
		return RemoteResponse{}, fmt.Errorf("failed to send %s: %w", method, err)
	}

	timer := time.NewTimer(r.cfg.Timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-reply:
		if !ok {
			return RemoteResponse{}, fmt.Errorf("%s: %w", method, ErrClosed)
		}
		if resp.Error != "" {
			return resp, fmt.Errorf("%s: %s", method, resp.Error)
		}
		return resp, nil
	case <-timer.C:
		return RemoteResponse{}, fmt.Errorf("%s: timed out after %s", method, r.cfg.Timeout)
	case <-ctx.Done():
		return RemoteResponse{}, ctx.Err()
	}
}

func (r *Remote) readLoop() {
	defer close(r.done)

	for {
		var resp RemoteResponse
		if err := r.conn.ReadJSON(&resp); err != nil {
			r.mu.Lock()
			if !r.closed {
				r.readErr = err
				r.logger.Warn("Browser bridge connection lost", "error", err)
			}
			for id, ch := range r.pending {
				close(ch)
				delete(r.pending, id)
			}
			r.mu.Unlock()
			return
		}

		r.mu.Lock()
		var notify Observer
		if resp.URL != "" && (resp.ID != "" || resp.Event == EventPage) {
			changed := resp.URL != r.page.URL || resp.Title != r.page.Title
			r.page = Page{URL: resp.URL, Title: resp.Title}
			if changed {
				notify = r.observer
			}
		}
		// first reply wins; duplicates find no entry
		ch, ok := r.pending[resp.ID]
		if ok {
			delete(r.pending, resp.ID)
		}
		page := r.page
		r.mu.Unlock()

		if ok {
			ch <- resp
		}
		if notify != nil {
			notify(page)
		}
	}
}
