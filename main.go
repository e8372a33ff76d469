// Package main provides the entry point for the gensay CLI, a
// text-to-speech front end over multiple synthesis providers with a
// shared audio cache.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/provider"
	"github.com/dgnsrekt/gensay/internal/provider/engines"
	"github.com/dgnsrekt/gensay/internal/text"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	providerName string
	voiceName    string
	rateWPM      int
	formatName   string
	outputPath   string
	playAudio    bool
	useClipboard bool
	noCache      bool

	rootCmd = &cobra.Command{
		Use:   "gensay [TEXT|FILE|-]",
		Short: "Speak text with your favorite TTS provider",
		Long: paragraph(fmt.Sprintf(
			"\nTurn text into speech with %s, %s, %s, %s or %s, with synthesized audio cached on disk so repeated phrases cost nothing.",
			keyword("macOS say"), keyword("OpenAI"), keyword("ElevenLabs"), keyword("Amazon Polly"), keyword("Chatterbox"),
		)),
		Example: paragraph("gensay \"Hello, world!\"\ngensay --provider openai --voice nova -o hello.mp3 \"Hello\"\ncat notes.md | gensay --provider say -"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(*cobra.Command) error {
	providerName = viper.GetString("provider")
	voiceName = viper.GetString("voice")
	rateWPM = viper.GetInt("rate")
	formatName = viper.GetString("format")

	if rateWPM < 50 || rateWPM > 700 {
		return fmt.Errorf("rate must be between 50 and 700 words per minute, got %d", rateWPM)
	}
	if _, err := audio.ParseFormat(formatName); err != nil {
		return err
	}
	return nil
}

// providerConfig assembles the provider configuration from viper state.
func providerConfig() (provider.Config, error) {
	cfg := provider.DefaultConfig()
	cfg.Voice = voiceName
	cfg.Rate = rateWPM

	format, err := audio.ParseFormat(formatName)
	if err != nil {
		return cfg, err
	}
	cfg.Format = format

	dir := viper.GetString("cache.dir")
	if dir == "" {
		dir, err = defaultCacheDir()
		if err != nil {
			return cfg, err
		}
	}
	dir, err = homedir.Expand(dir)
	if err != nil {
		return cfg, fmt.Errorf("unable to expand cache directory: %w", err)
	}
	cfg.CacheDir = dir
	cfg.CacheEnabled = viper.GetBool("cache.enabled") && !noCache

	// Per-provider knobs live under the provider's own config section,
	// e.g. openai.model or polly.engine.
	cfg.Extra = viper.GetStringMapString(providerName)
	return cfg, nil
}

func defaultCacheDir() (string, error) {
	scope := gap.NewScope(gap.User, "gensay")
	dir, err := scope.CacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to determine cache directory: %w", err)
	}
	return filepath.Join(dir, "audio"), nil
}

// resolveText turns the CLI argument into the text to speak: clipboard
// contents, stdin, a file on disk, or the argument itself. Markdown
// files are reduced to plain prose first.
func resolveText(arg string) (string, error) {
	switch {
	case useClipboard:
		content, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("unable to read clipboard: %w", err)
		}
		return content, nil

	case arg == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		return string(b), nil
	}

	if st, err := os.Stat(arg); err == nil && !st.IsDir() {
		b, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("unable to read file: %w", err)
		}
		if text.IsMarkdownPath(arg) {
			return text.StripMarkdown(string(b)), nil
		}
		return string(b), nil
	}

	return arg, nil
}

func execute(cmd *cobra.Command, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	// A pipe with no argument behaves like an explicit "-".
	if arg == "" && !useClipboard {
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if yes {
			arg = "-"
		} else {
			return errors.New("nothing to say: pass text, a file, - for stdin, or --clipboard")
		}
	}

	speech, err := resolveText(arg)
	if err != nil {
		return err
	}
	speech = strings.TrimSpace(speech)
	if speech == "" {
		return provider.ErrEmptyText
	}

	cfg, err := providerConfig()
	if err != nil {
		return err
	}

	p, err := engines.New(providerName, cfg)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := provider.Options{Voice: voiceName, Rate: rateWPM}
	if outputPath != "" {
		opts.Format = outputFormat(outputPath, cfg.Format, cmd.Flags().Changed("format"))
	}

	log.Debug("Synthesizing", "provider", providerName, "voice", opts.Voice, "rate", rateWPM, "chars", len(speech))
	data, err := p.Synthesize(ctx, speech, opts)
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("unable to write output file: %w", err)
		}
		log.Info("Wrote audio", "path", outputPath, "bytes", len(data))
		if !playAudio {
			return nil
		}
	}

	format := opts.Format
	if format == "" {
		format = cfg.Format
	}
	return playBytes(ctx, data, format)
}

// outputFormat picks the format for --output. An explicit --format wins
// over the file extension; without one, the extension decides.
func outputFormat(path string, configured audio.Format, explicit bool) audio.Format {
	inferred := audio.FormatForPath(path, configured)
	if explicit && inferred != configured {
		log.Warn("Output extension does not match --format, using --format", "path", path, "format", configured)
		return configured
	}
	return inferred
}

// playBytes decodes audio to PCM and plays it on the default device.
func playBytes(ctx context.Context, data []byte, format audio.Format) error {
	converter := audio.NewConverter("", "")
	if !converter.Available() {
		return errors.New("playback requires ffmpeg on PATH; use --output to save audio instead")
	}

	layout := audio.DefaultPlayerConfig()
	pcm, err := converter.DecodeToPCM(ctx, data, format, layout.SampleRate, layout.Channels)
	if err != nil {
		return fmt.Errorf("unable to decode audio for playback: %w", err)
	}

	player, err := audio.NewPlayer(layout)
	if err != nil {
		return err
	}
	defer player.Close() //nolint:errcheck
	return player.Play(ctx, pcm)
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&providerName, "provider", "P", "", fmt.Sprintf("TTS provider (%s)", strings.Join(engines.Names(), ", ")))
	rootCmd.Flags().StringVarP(&voiceName, "voice", "v", "", "voice to speak with (provider default when empty)")
	rootCmd.Flags().IntVarP(&rateWPM, "rate", "r", 0, "speaking rate in words per minute")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "audio format (m4a, mp3, wav, ogg)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write audio to file instead of playing it")
	rootCmd.Flags().BoolVarP(&playAudio, "play", "p", false, "play audio even when --output is set")
	rootCmd.Flags().BoolVarP(&useClipboard, "clipboard", "c", false, "speak the clipboard contents")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the audio cache for this invocation")

	_ = viper.BindPFlag("provider", rootCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("rate", rootCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))

	viper.SetDefault("provider", "say")
	viper.SetDefault("voice", "")
	viper.SetDefault("rate", 200)
	viper.SetDefault("format", "mp3")
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dir", "")

	rootCmd.AddCommand(voicesCmd, cacheCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "gensay")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "gensay")}, dirs...)
	}

	if c := os.Getenv("GENSAY_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("gensay")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("gensay")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "gensay.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
