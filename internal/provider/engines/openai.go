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
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "tts-1"
	openAIDefaultVoice = "alloy"

	// The speech endpoint rejects inputs beyond 4096 characters.
	openAIMaxTextSize = 4096

	// Requests per minute; conservative against the API tier limits.
	openAIRequestsPerMinute = 50
)

// OpenAI synthesizes through the OpenAI speech endpoint.
type OpenAI struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter

	cfg       provider.Config
	cache     *cache.Cache
	converter *audio.Converter
}

// openAISpeechRequest is the JSON body for /audio/speech.
type openAISpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	Speed          float64 `json:"speed,omitempty"`
	ResponseFormat string  `json:"response_format,omitempty"`
}

// NewOpenAI creates the OpenAI provider. The model defaults to tts-1 and
// can be switched (e.g. to tts-1-hd) through cfg.Extra["model"].
func NewOpenAI(cfg provider.Config, apiKey string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", provider.ErrMissingAPIKey)
	}
	return &OpenAI{
		apiKey:    apiKey,
		model:     cfg.ExtraOr("model", openAIDefaultModel),
		baseURL:   openAIBaseURL,
		client:    newHTTPClient(),
		limiter:   rate.NewLimiter(rate.Every(time.Minute/openAIRequestsPerMinute), 1),
		cfg:       cfg,
		cache:     cache.New(cfg.CacheDir, cfg.CacheEnabled),
		converter: audio.NewConverter(cfg.ExtraOr("ffmpeg", ""), ""),
	}, nil
}

// Name implements provider.Provider.
func (o *OpenAI) Name() string { return "openai" }

// Validate implements provider.Provider.
func (o *OpenAI) Validate() error {
	if o.apiKey == "" {
		return provider.ErrMissingAPIKey
	}
	return nil
}

// SupportedFormats implements provider.Provider.
func (o *OpenAI) SupportedFormats() []audio.Format {
	return []audio.Format{audio.FormatMP3, audio.FormatWAV, audio.FormatOGG, audio.FormatM4A}
}

// responseFormat maps our format names onto the API's response_format
// values. OGG is requested as opus, M4A as aac.
func openAIResponseFormat(f audio.Format) (string, error) {
	switch f {
	case audio.FormatMP3:
		return "mp3", nil
	case audio.FormatWAV:
		return "wav", nil
	case audio.FormatOGG:
		return "opus", nil
	case audio.FormatM4A:
		return "aac", nil
	default:
		return "", fmt.Errorf("%w: %s", provider.ErrUnsupportedFormat, f)
	}
}

// Synthesize implements provider.Provider.
func (o *OpenAI) Synthesize(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyText
	}
	if len(text) > openAIMaxTextSize {
		return nil, fmt.Errorf("%w: %d characters (max %d)", provider.ErrTextTooLong, len(text), openAIMaxTextSize)
	}
	opts = opts.WithDefaults(o.cfg)
	if opts.Voice == "" {
		opts.Voice = openAIDefaultVoice
	}

	respFormat, err := openAIResponseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	tag := "openai/" + o.model + "/" + string(opts.Format)
	return cachedSynthesis(ctx, o.cache, tag, text, opts, func(ctx context.Context) ([]byte, error) {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}

		body, err := json.Marshal(openAISpeechRequest{
			Model:          o.model,
			Input:          text,
			Voice:          opts.Voice,
			Speed:          provider.SpeedMultiplier(opts.Rate),
			ResponseFormat: respFormat,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to encode request: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/audio/speech", bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("unable to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := o.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("OpenAI request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, &provider.APIError{Provider: "OpenAI", StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("unable to read audio response: %w", err)
		}
		return data, nil
	})
}

// Voices implements provider.Provider. The speech endpoint has a fixed
// voice roster, so no API call is involved.
func (o *OpenAI) Voices(context.Context) ([]provider.Voice, error) {
	names := []string{"alloy", "echo", "fable", "onyx", "nova", "shimmer"}
	voices := make([]provider.Voice, 0, len(names))
	for _, name := range names {
		voices = append(voices, provider.Voice{ID: name, Name: name, Language: "en-US"})
	}
	return voices, nil
}

var _ provider.Provider = (*OpenAI)(nil)
