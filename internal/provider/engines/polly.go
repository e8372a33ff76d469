package engines

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/cache"
	"github.com/dgnsrekt/gensay/internal/provider"
)

const (
	pollyDefaultVoice  = "Joanna"
	pollyDefaultEngine = "standard"

	// Polly's limit for SSML input, including tags.
	pollyMaxTextSize = 6000
)

// pollyAPI is the subset of the Polly client the provider uses, split
// out so tests can substitute a fake.
type pollyAPI interface {
	SynthesizeSpeech(ctx context.Context, in *polly.SynthesizeSpeechInput, opts ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
	DescribeVoices(ctx context.Context, in *polly.DescribeVoicesInput, opts ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error)
}

// Polly synthesizes through Amazon Polly. Credentials come from the
// standard AWS environment/config chain.
type Polly struct {
	client pollyAPI
	engine string

	cfg       provider.Config
	cache     *cache.Cache
	converter *audio.Converter
}

// NewPolly creates the Polly provider. The synthesis engine defaults to
// standard and can be switched to neural via cfg.Extra["engine"].
func NewPolly(cfg provider.Config) (*Polly, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS configuration: %w", err)
	}
	return &Polly{
		client:    polly.NewFromConfig(awsCfg),
		engine:    cfg.ExtraOr("engine", pollyDefaultEngine),
		cfg:       cfg,
		cache:     cache.New(cfg.CacheDir, cfg.CacheEnabled),
		converter: audio.NewConverter(cfg.ExtraOr("ffmpeg", ""), ""),
	}, nil
}

// Name implements provider.Provider.
func (p *Polly) Name() string { return "polly" }

// Validate implements provider.Provider. Credential problems surface on
// the first API call; construction already verified config loading.
func (p *Polly) Validate() error {
	if p.client == nil {
		return provider.ErrProviderUnavailable
	}
	return nil
}

// SupportedFormats implements provider.Provider.
func (p *Polly) SupportedFormats() []audio.Format {
	return []audio.Format{audio.FormatMP3, audio.FormatOGG, audio.FormatWAV, audio.FormatM4A}
}

// Synthesize implements provider.Provider. The speaking rate is applied
// through an SSML prosody wrapper since Polly has no plain rate knob.
func (p *Polly) Synthesize(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyText
	}
	opts = opts.WithDefaults(p.cfg)
	if opts.Voice == "" {
		opts.Voice = pollyDefaultVoice
	}

	ssml := pollySSML(text, opts.Rate)
	if len(ssml) > pollyMaxTextSize {
		return nil, fmt.Errorf("%w: %d characters (max %d)", provider.ErrTextTooLong, len(ssml), pollyMaxTextSize)
	}

	tag := "polly/" + p.engine + "/" + string(opts.Format)
	return cachedSynthesis(ctx, p.cache, tag, text, opts, func(ctx context.Context) ([]byte, error) {
		mp3, err := p.speech(ctx, ssml, opts.Voice)
		if err != nil {
			return nil, err
		}
		if opts.Format == audio.FormatMP3 {
			return mp3, nil
		}
		return p.converter.Convert(ctx, mp3, audio.FormatMP3, opts.Format)
	})
}

func (p *Polly) speech(ctx context.Context, ssml, voice string) ([]byte, error) {
	out, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		OutputFormat: pollytypes.OutputFormatMp3,
		Text:         aws.String(ssml),
		TextType:     pollytypes.TextTypeSsml,
		VoiceId:      pollytypes.VoiceId(voice),
		Engine:       pollytypes.Engine(p.engine),
	})
	if err != nil {
		return nil, fmt.Errorf("Polly synthesis failed: %w", err)
	}
	defer out.AudioStream.Close()

	data, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("unable to read Polly audio stream: %w", err)
	}
	return data, nil
}

// pollySSML wraps text in a prosody element carrying the requested rate.
func pollySSML(text string, wpm int) string {
	return fmt.Sprintf(`<speak><prosody rate="%d%%">%s</prosody></speak>`,
		provider.RatePercent(wpm), escapeSSML(text))
}

// escapeSSML escapes the characters with meaning inside an SSML document.
func escapeSSML(text string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(text)
}

// Voices implements provider.Provider, following DescribeVoices pagination.
func (p *Polly) Voices(ctx context.Context) ([]provider.Voice, error) {
	var voices []provider.Voice
	in := &polly.DescribeVoicesInput{}
	for {
		out, err := p.client.DescribeVoices(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("Polly voice listing failed: %w", err)
		}
		for _, v := range out.Voices {
			voices = append(voices, provider.Voice{
				ID:       string(v.Id),
				Name:     aws.ToString(v.Name),
				Language: string(v.LanguageCode),
				Gender:   string(v.Gender),
			})
		}
		if out.NextToken == nil {
			return voices, nil
		}
		in.NextToken = out.NextToken
	}
}

var _ provider.Provider = (*Polly)(nil)
