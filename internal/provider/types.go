package provider

import (
	"context"

	"github.com/dgnsrekt/gensay/internal/audio"
)

// Provider is a text-to-speech backend.
type Provider interface {
	// Name returns the provider identifier (e.g. "say", "openai").
	Name() string

	// Synthesize converts text to encoded audio bytes. Implementations
	// must consult the cache before calling their vendor and store the
	// result afterwards; a cache failure degrades to a regeneration,
	// never an error.
	Synthesize(ctx context.Context, text string, opts Options) ([]byte, error)

	// Voices lists the voices the provider can speak with.
	Voices(ctx context.Context) ([]Voice, error)

	// SupportedFormats returns the output formats the provider can
	// produce, directly or through conversion.
	SupportedFormats() []audio.Format

	// Validate checks that the provider is usable: binary present,
	// credentials configured, service reachable.
	Validate() error
}

// Options are the per-request synthesis parameters. Zero fields fall
// back to the provider's configured defaults.
type Options struct {
	Voice  string
	Rate   int // words per minute
	Format audio.Format
}

// WithDefaults fills zero fields from cfg.
func (o Options) WithDefaults(cfg Config) Options {
	if o.Voice == "" {
		o.Voice = cfg.Voice
	}
	if o.Rate == 0 {
		o.Rate = cfg.Rate
	}
	if o.Format == "" {
		o.Format = cfg.Format
	}
	return o
}

// Voice describes one selectable voice.
type Voice struct {
	ID       string
	Name     string
	Language string // BCP 47-ish tag as reported by the vendor
	Gender   string
}

// Config carries the settings shared by all providers.
type Config struct {
	// Voice is the default voice ID; empty means the provider's own
	// default.
	Voice string

	// Rate is the default speaking rate in words per minute.
	Rate int

	// Format is the default output format.
	Format audio.Format

	// CacheDir is the directory for the audio cache.
	CacheDir string

	// CacheEnabled turns the audio cache on or off.
	CacheEnabled bool

	// Extra holds provider-specific knobs, e.g. "model" for OpenAI and
	// ElevenLabs or "engine" for Polly.
	Extra map[string]string
}

// DefaultConfig returns the baseline provider configuration.
func DefaultConfig() Config {
	return Config{
		Rate:         200,
		Format:       audio.FormatMP3,
		CacheEnabled: true,
	}
}

// ExtraOr returns Extra[key], or def when unset.
func (c Config) ExtraOr(key, def string) string {
	if v, ok := c.Extra[key]; ok && v != "" {
		return v
	}
	return def
}
