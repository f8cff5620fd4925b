// Package tts memoizes synthesized prompt audio by stable key. Synthesis
// is slow and remote; a miss never blocks a turn — the caller plays the
// plain text prompt and the cache fills in the background for next time.
package tts

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Synthesizer turns prompt text into a playable audio reference.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Cache is a concurrent prompt-key to audio-URL memo.
type Cache struct {
	synth   Synthesizer
	timeout time.Duration
	logger  zerolog.Logger

	mu       sync.Mutex
	audio    map[string]string
	inflight map[string]bool
}

// NewCache creates a cache over the given synthesizer. synth may be nil,
// in which case every lookup misses and nothing is scheduled.
func NewCache(synth Synthesizer, timeout time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{
		synth:    synth,
		timeout:  timeout,
		logger:   logger,
		audio:    make(map[string]string),
		inflight: make(map[string]bool),
	}
}

// Get returns the cached audio URL for key. On a miss it schedules
// background synthesis (at most one per key at a time) and reports !ok;
// the next access after a successful synthesis hits.
func (c *Cache) Get(key, text string) (string, bool) {
	c.mu.Lock()
	if url, ok := c.audio[key]; ok {
		c.mu.Unlock()
		return url, true
	}
	if c.synth == nil || c.inflight[key] {
		c.mu.Unlock()
		return "", false
	}
	c.inflight[key] = true
	c.mu.Unlock()

	go c.fill(key, text)
	return "", false
}

// Warm pre-synthesizes a set of prompts, typically at startup.
func (c *Cache) Warm(prompts map[string]string) {
	for key, text := range prompts {
		c.Get(key, text)
	}
}

func (c *Cache) fill(key, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	url, err := c.synth.Synthesize(ctx, text)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil && url != "" {
		c.audio[key] = url
	}
	c.mu.Unlock()

	if err != nil {
		// Retried on the next access for this key.
		c.logger.Warn().Err(err).Str("key", key).Msg("prompt synthesis failed")
	}
}
