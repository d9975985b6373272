// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     speech
// Description: Synthesizer decorator caching rendered phrases
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/msto63/lauscher/pkg/core/cache"
)

// CachingSynthesizer remembers rendered audio per voice and text so that
// fixed phrases are synthesized once.
type CachingSynthesizer struct {
	next  Synthesizer
	cache *cache.Cache[string, Audio]
}

// NewCachingSynthesizer wraps next with a phrase cache
func NewCachingSynthesizer(next Synthesizer, cfg cache.Config) *CachingSynthesizer {
	return &CachingSynthesizer{
		next:  next,
		cache: cache.New[string, Audio](cfg),
	}
}

// Name returns the wrapped backend name
func (c *CachingSynthesizer) Name() string {
	return c.next.Name()
}

// Synthesize returns cached audio or renders and stores it
func (c *CachingSynthesizer) Synthesize(ctx context.Context, text string, voice VoiceConfig) (Audio, error) {
	return c.cache.GetOrSet(phraseKey(text, voice), func() (Audio, error) {
		return c.next.Synthesize(ctx, text, voice)
	})
}

// Stats returns hit and miss counters of the phrase cache
func (c *CachingSynthesizer) Stats() (hits, misses int64) {
	hits, misses, _ = c.cache.Stats()
	return hits, misses
}

func phraseKey(text string, voice VoiceConfig) string {
	h := sha256.New()
	fmt.Fprintf(h, "%+v\x00%s", voice, text)
	return hex.EncodeToString(h.Sum(nil))
}
