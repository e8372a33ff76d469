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

	"golang.org/x/time/rate"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/cache"
	"github.com/dgnsrekt/gensay/internal/provider"
)

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io/v1"
	elevenLabsDefaultModel = "eleven_multilingual_v2"

	// Rachel, the ElevenLabs default voice.
	elevenLabsDefaultVoice = "21m00Tcm4TlvDq8ikWAM"

	elevenLabsMaxTextSize       = 5000
	elevenLabsRequestsPerMinute = 30
)

// ElevenLabs synthesizes through the ElevenLabs text-to-speech API. The
// API returns MP3; other formats are converted locally.
type ElevenLabs struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter

	cfg       provider.Config
	cache     *cache.Cache
	converter *audio.Converter
}

type elevenLabsRequest struct {
	Text          string              `json:"text"`
	ModelID       string              `json:"model_id"`
	VoiceSettings elevenLabsVoiceOpts `json:"voice_settings"`
}

type elevenLabsVoiceOpts struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed,omitempty"`
}

type elevenLabsVoicesResponse struct {
	Voices []struct {
		VoiceID string            `json:"voice_id"`
		Name    string            `json:"name"`
		Labels  map[string]string `json:"labels"`
	} `json:"voices"`
}

// NewElevenLabs creates the ElevenLabs provider.
func NewElevenLabs(cfg provider.Config, apiKey string) (*ElevenLabs, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ELEVENLABS_API_KEY", provider.ErrMissingAPIKey)
	}
	return &ElevenLabs{
		apiKey:    apiKey,
		model:     cfg.ExtraOr("model", elevenLabsDefaultModel),
		baseURL:   elevenLabsBaseURL,
		client:    newHTTPClient(),
		limiter:   rate.NewLimiter(rate.Every(time.Minute/elevenLabsRequestsPerMinute), 1),
		cfg:       cfg,
		cache:     cache.New(cfg.CacheDir, cfg.CacheEnabled),
		converter: audio.NewConverter(cfg.ExtraOr("ffmpeg", ""), ""),
	}, nil
}

// Name implements provider.Provider.
func (e *ElevenLabs) Name() string { return "elevenlabs" }

// Validate implements provider.Provider.
func (e *ElevenLabs) Validate() error {
	if e.apiKey == "" {
		return provider.ErrMissingAPIKey
	}
	return nil
}

// SupportedFormats implements provider.Provider.
func (e *ElevenLabs) SupportedFormats() []audio.Format {
	return []audio.Format{audio.FormatMP3, audio.FormatWAV, audio.FormatOGG, audio.FormatM4A}
}

// Synthesize implements provider.Provider.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyText
	}
	if len(text) > elevenLabsMaxTextSize {
		return nil, fmt.Errorf("%w: %d characters (max %d)", provider.ErrTextTooLong, len(text), elevenLabsMaxTextSize)
	}
	opts = opts.WithDefaults(e.cfg)
	if opts.Voice == "" {
		opts.Voice = elevenLabsDefaultVoice
	}

	tag := "elevenlabs/" + e.model + "/" + string(opts.Format)
	return cachedSynthesis(ctx, e.cache, tag, text, opts, func(ctx context.Context) ([]byte, error) {
		mp3, err := e.speech(ctx, text, opts)
		if err != nil {
			return nil, err
		}
		if opts.Format == audio.FormatMP3 {
			return mp3, nil
		}
		return e.converter.Convert(ctx, mp3, audio.FormatMP3, opts.Format)
	})
}

func (e *ElevenLabs) speech(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: e.model,
		VoiceSettings: elevenLabsVoiceOpts{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Speed:           provider.SpeedMultiplier(opts.Rate),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to encode request: %w", err)
	}

	url := e.baseURL + "/text-to-speech/" + opts.Voice
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", audio.FormatMP3.MIME())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ElevenLabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &provider.APIError{Provider: "ElevenLabs", StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}
	return io.ReadAll(resp.Body)
}

// Voices implements provider.Provider.
func (e *ElevenLabs) Voices(ctx context.Context) ([]provider.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ElevenLabs voice listing failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.APIError{Provider: "ElevenLabs", StatusCode: resp.StatusCode}
	}

	var parsed elevenLabsVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("unable to decode voice listing: %w", err)
	}

	voices := make([]provider.Voice, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		voices = append(voices, provider.Voice{
			ID:       v.VoiceID,
			Name:     v.Name,
			Language: v.Labels["language"],
			Gender:   v.Labels["gender"],
		})
	}
	return voices, nil
}

var _ provider.Provider = (*ElevenLabs)(nil)
