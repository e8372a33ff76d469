package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/cache"
	"github.com/dgnsrekt/gensay/internal/provider"
)

// DefaultChatterboxURL is where a locally running Chatterbox server
// listens unless GENSAY_CHATTERBOX_URL says otherwise.
const DefaultChatterboxURL = "http://127.0.0.1:8123"

const chatterboxDefaultVoice = "default"

// Chatterbox synthesizes through a locally hosted Chatterbox TTS server.
// The server speaks a small JSON-in, WAV-out HTTP protocol.
type Chatterbox struct {
	baseURL string
	client  *http.Client

	cfg       provider.Config
	cache     *cache.Cache
	converter *audio.Converter
}

type chatterboxRequest struct {
	Text  string  `json:"text"`
	Voice string  `json:"voice,omitempty"`
	Speed float64 `json:"speed,omitempty"`
}

// NewChatterbox creates the Chatterbox provider against baseURL.
func NewChatterbox(cfg provider.Config, baseURL string) (*Chatterbox, error) {
	if baseURL == "" {
		baseURL = DefaultChatterboxURL
	}
	return &Chatterbox{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    newHTTPClient(),
		cfg:       cfg,
		cache:     cache.New(cfg.CacheDir, cfg.CacheEnabled),
		converter: audio.NewConverter(cfg.ExtraOr("ffmpeg", ""), ""),
	}, nil
}

// Name implements provider.Provider.
func (c *Chatterbox) Name() string { return "chatterbox" }

// Validate implements provider.Provider by probing the server's health
// endpoint with a short timeout.
func (c *Chatterbox) Validate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", provider.ErrProviderUnavailable, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: chatterbox server not reachable at %s", provider.ErrProviderUnavailable, c.baseURL)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: chatterbox health check returned %d", provider.ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}

// SupportedFormats implements provider.Provider. The server emits WAV;
// everything else is converted locally.
func (c *Chatterbox) SupportedFormats() []audio.Format {
	return []audio.Format{audio.FormatWAV, audio.FormatMP3, audio.FormatOGG, audio.FormatM4A}
}

// Synthesize implements provider.Provider.
func (c *Chatterbox) Synthesize(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyText
	}
	opts = opts.WithDefaults(c.cfg)
	if opts.Voice == "" {
		opts.Voice = chatterboxDefaultVoice
	}

	tag := "chatterbox/v1/" + string(opts.Format)
	return cachedSynthesis(ctx, c.cache, tag, text, opts, func(ctx context.Context) ([]byte, error) {
		wav, err := c.speech(ctx, text, opts)
		if err != nil {
			return nil, err
		}
		if opts.Format == audio.FormatWAV {
			return wav, nil
		}
		return c.converter.Convert(ctx, wav, audio.FormatWAV, opts.Format)
	})
}

func (c *Chatterbox) speech(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	body, err := json.Marshal(chatterboxRequest{
		Text:  text,
		Voice: opts.Voice,
		Speed: provider.SpeedMultiplier(opts.Rate),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/tts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatterbox request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &provider.APIError{Provider: "chatterbox", StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}
	return io.ReadAll(resp.Body)
}

// Voices implements provider.Provider.
func (c *Chatterbox) Voices(ctx context.Context) ([]provider.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatterbox voice listing failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.APIError{Provider: "chatterbox", StatusCode: resp.StatusCode}
	}

	var parsed []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("unable to decode voice listing: %w", err)
	}

	voices := make([]provider.Voice, 0, len(parsed))
	for _, v := range parsed {
		voices = append(voices, provider.Voice{ID: v.ID, Name: v.Name, Language: v.Language})
	}
	return voices, nil
}

var _ provider.Provider = (*Chatterbox)(nil)
