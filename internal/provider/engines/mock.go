package engines

import (
	"context"
	"encoding/binary"
	"math"
	"strings"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/cache"
	"github.com/dgnsrekt/gensay/internal/provider"
)

const (
	mockSampleRate = 22050

	// Mock clip length is derived from word count but kept short.
	mockMaxDurationSec = 5.0
	mockMinDurationSec = 0.2
)

// Mock is a provider that fabricates audio locally: a WAV-wrapped sine
// tone whose pitch depends on the voice and whose length tracks the word
// count and rate. Output is fully deterministic, which makes it the
// fixture for cache and CLI tests. The payload is always WAV regardless
// of the requested format; callers treat it as opaque bytes anyway.
type Mock struct {
	cfg   provider.Config
	cache *cache.Cache
}

// NewMock creates the mock provider.
func NewMock(cfg provider.Config) (*Mock, error) {
	return &Mock{cfg: cfg, cache: cache.New(cfg.CacheDir, cfg.CacheEnabled)}, nil
}

// Name implements provider.Provider.
func (m *Mock) Name() string { return "mock" }

// Validate implements provider.Provider. The mock is always available.
func (m *Mock) Validate() error { return nil }

// SupportedFormats implements provider.Provider.
func (m *Mock) SupportedFormats() []audio.Format {
	return []audio.Format{audio.FormatWAV, audio.FormatMP3, audio.FormatM4A, audio.FormatOGG}
}

// Synthesize implements provider.Provider.
func (m *Mock) Synthesize(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyText
	}
	opts = opts.WithDefaults(m.cfg)
	if opts.Voice == "" {
		opts.Voice = "mock-alto"
	}

	tag := "mock/v1/" + string(opts.Format)
	return cachedSynthesis(ctx, m.cache, tag, text, opts, func(context.Context) ([]byte, error) {
		return mockWAV(text, opts.Voice, opts.Rate), nil
	})
}

// Voices implements provider.Provider.
func (m *Mock) Voices(context.Context) ([]provider.Voice, error) {
	return []provider.Voice{
		{ID: "mock-alto", Name: "Mock Alto", Language: "en-US", Gender: "female"},
		{ID: "mock-bass", Name: "Mock Bass", Language: "en-US", Gender: "male"},
	}, nil
}

// mockWAV renders a deterministic mono 16-bit WAV tone.
func mockWAV(text, voice string, wpm int) []byte {
	words := len(strings.Fields(text))
	if wpm <= 0 {
		wpm = provider.NormalWPM
	}
	duration := float64(words) / float64(wpm) * 60
	if duration < mockMinDurationSec {
		duration = mockMinDurationSec
	}
	if duration > mockMaxDurationSec {
		duration = mockMaxDurationSec
	}

	// Pitch varies per voice so distinct voices produce distinct bytes.
	freq := 220.0
	for _, r := range voice {
		freq += float64(r % 32)
	}

	samples := int(duration * mockSampleRate)
	pcm := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / mockSampleRate)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(int16(v*16000)))
	}
	return wrapWAV(pcm, mockSampleRate, 1)
}

// wrapWAV prefixes raw 16-bit PCM with a minimal RIFF header.
func wrapWAV(pcm []byte, sampleRate, channels int) []byte {
	blockAlign := channels * 2
	byteRate := sampleRate * blockAlign

	buf := make([]byte, 0, 44+len(pcm))
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(36+len(pcm)))
	buf = append(buf, "WAVE"...)
	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, 1) // PCM
	buf = binary.LittleEndian.AppendUint16(buf, uint16(channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(sampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(byteRate))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(blockAlign))
	buf = binary.LittleEndian.AppendUint16(buf, 16) // bits per sample
	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pcm)))
	return append(buf, pcm...)
}

var _ provider.Provider = (*Mock)(nil)
