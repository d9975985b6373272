// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     session
// Description: Headless HTTP session with back/forward history
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/msto63/lauscher/pkg/core/logging"
)

// HeadlessConfig holds HTTP settings
type HeadlessConfig struct {
	UserAgent string
	Timeout   time.Duration

	// MaxBodyBytes limits how much of a response is parsed
	MaxBodyBytes int64
}

type entry struct {
	url   string
	title string
	text  string
}

// Headless fetches pages over HTTP and keeps their text in a history
type Headless struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	history   []entry
	pos       int
	observer  Observer
	logger    *logging.Logger
}

// NewHeadless creates a headless session
func NewHeadless(cfg HeadlessConfig) *Headless {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 5 << 20
	}
	return &Headless{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		pos:       -1,
		logger:    logging.New("session"),
	}
}

// OnChange registers the page change observer
func (h *Headless) OnChange(o Observer) {
	h.observer = o
}

// Navigate loads url and drops any forward history
func (h *Headless) Navigate(ctx context.Context, url string) error {
	e, err := h.fetch(ctx, url)
	if err != nil {
		return err
	}
	h.history = append(h.history[:h.pos+1], e)
	h.pos = len(h.history) - 1
	h.changed()
	return nil
}

// Back moves one entry back in history
func (h *Headless) Back(ctx context.Context) error {
	if h.pos <= 0 {
		return ErrNoHistory
	}
	h.pos--
	h.changed()
	return nil
}

// Forward moves one entry forward in history
func (h *Headless) Forward(ctx context.Context) error {
	if h.pos < 0 || h.pos >= len(h.history)-1 {
		return ErrNoHistory
	}
	h.pos++
	h.changed()
	return nil
}

// Reload fetches the current page again
func (h *Headless) Reload(ctx context.Context) error {
	if h.pos < 0 {
		return ErrNoPage
	}
	e, err := h.fetch(ctx, h.history[h.pos].url)
	if err != nil {
		return err
	}
	h.history[h.pos] = e
	h.changed()
	return nil
}

// ExtractContent returns the text of the current page
func (h *Headless) ExtractContent(ctx context.Context) (string, error) {
	if h.pos < 0 {
		return "", ErrNoPage
	}
	return h.history[h.pos].text, nil
}

// URL returns the current address or "" before the first navigation
func (h *Headless) URL() string {
	if h.pos < 0 {
		return ""
	}
	return h.history[h.pos].url
}

// Title returns the current page title
func (h *Headless) Title() string {
	if h.pos < 0 {
		return ""
	}
	return h.history[h.pos].title
}

// Close releases idle connections
func (h *Headless) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

func (h *Headless) fetch(ctx context.Context, url string) (entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entry{}, fmt.Errorf("invalid url %q: %w", url, err)
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return entry{}, fmt.Errorf("failed to load %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return entry{}, fmt.Errorf("failed to load %s: %s", url, resp.Status)
	}

	title, text, err := ExtractText(io.LimitReader(resp.Body, h.maxBody))
	if err != nil {
		return entry{}, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	final := resp.Request.URL.String()
	h.logger.Debug("Page loaded", "url", final, "title", title, "chars", len(text), "took", time.Since(start))
	return entry{url: final, title: title, text: text}, nil
}

func (h *Headless) changed() {
	if h.observer != nil {
		h.observer(Page{URL: h.URL(), Title: h.Title()})
	}
}
