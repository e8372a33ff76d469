package engines

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/cache"
	"github.com/dgnsrekt/gensay/internal/provider"
)

const (
	sayBinary       = "say"
	sayDefaultVoice = "Alex"
	sayTimeout      = 60 * time.Second
)

// sayVoiceLine matches one line of `say -v ?` output:
//
//	Alex                en_US    # Most people recognize me by my voice.
var sayVoiceLine = regexp.MustCompile(`^(.+?)\s{2,}([a-zA-Z]{2}[_-][a-zA-Z0-9_-]+)\s+#\s*(.*)$`)

// Say synthesizes through the macOS say binary. It costs nothing and
// works offline, but only exists on darwin.
type Say struct {
	cfg       provider.Config
	cache     *cache.Cache
	converter *audio.Converter
	tempDir   string
}

// NewSay creates the macOS say provider.
func NewSay(cfg provider.Config) (*Say, error) {
	s := &Say{
		cfg:       cfg,
		cache:     cache.New(cfg.CacheDir, cfg.CacheEnabled),
		converter: audio.NewConverter(cfg.ExtraOr("ffmpeg", ""), ""),
		tempDir:   os.TempDir(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Name implements provider.Provider.
func (s *Say) Name() string { return "say" }

// Validate checks that the say binary exists on this system.
func (s *Say) Validate() error {
	if runtime.GOOS != "darwin" {
		return fmt.Errorf("%w: say requires macOS", provider.ErrProviderUnavailable)
	}
	if _, err := exec.LookPath(sayBinary); err != nil {
		return fmt.Errorf("%w: say binary not found", provider.ErrProviderUnavailable)
	}
	return nil
}

// SupportedFormats implements provider.Provider. say emits m4a natively;
// everything else goes through ffmpeg.
func (s *Say) SupportedFormats() []audio.Format {
	return []audio.Format{audio.FormatM4A, audio.FormatMP3, audio.FormatWAV, audio.FormatOGG}
}

// Synthesize implements provider.Provider.
func (s *Say) Synthesize(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyText
	}
	opts = opts.WithDefaults(s.cfg)
	if opts.Voice == "" {
		opts.Voice = sayDefaultVoice
	}

	tag := "say/v1/" + string(opts.Format)
	return cachedSynthesis(ctx, s.cache, tag, text, opts, func(ctx context.Context) ([]byte, error) {
		m4a, err := s.speakToFile(ctx, text, opts)
		if err != nil {
			return nil, err
		}
		if opts.Format == audio.FormatM4A {
			return m4a, nil
		}
		return s.converter.Convert(ctx, m4a, audio.FormatM4A, opts.Format)
	})
}

// speakToFile runs say with an m4a output file and returns its contents.
func (s *Say) speakToFile(ctx context.Context, text string, opts provider.Options) ([]byte, error) {
	out, err := os.CreateTemp(s.tempDir, "gensay-*.m4a")
	if err != nil {
		return nil, fmt.Errorf("unable to create temp output file: %w", err)
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	ctx, cancel := context.WithTimeout(ctx, sayTimeout)
	defer cancel()

	args := sayArgs(text, opts.Voice, opts.Rate, outPath)
	cmd := exec.CommandContext(ctx, sayBinary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("say timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("say failed: %w, stderr: %s", err, stderr.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read say output: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("say produced no audio, stderr: %s", stderr.String())
	}
	return data, nil
}

// sayArgs builds the argument list for one say invocation.
func sayArgs(text, voice string, rate int, outPath string) []string {
	args := []string{
		"-v", voice,
		"-r", strconv.Itoa(rate),
		"-o", outPath,
		"--file-format=m4af",
	}
	return append(args, text)
}

// Voices implements provider.Provider by parsing `say -v ?`.
func (s *Say) Voices(ctx context.Context) ([]provider.Voice, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, sayBinary, "-v", "?")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("unable to list say voices: %w, stderr: %s", err, stderr.String())
	}
	return parseSayVoices(stdout.String()), nil
}

// parseSayVoices extracts voices from `say -v ?` output. Unparseable
// lines are skipped rather than failing the whole listing.
func parseSayVoices(output string) []provider.Voice {
	var voices []provider.Voice
	for _, line := range strings.Split(output, "\n") {
		m := sayVoiceLine.FindStringSubmatch(strings.TrimRight(line, " \r"))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		voices = append(voices, provider.Voice{
			ID:       name,
			Name:     name,
			Language: strings.ReplaceAll(m[2], "_", "-"),
		})
	}
	return voices
}

var _ provider.Provider = (*Say)(nil)
