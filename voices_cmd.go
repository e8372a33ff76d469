package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/dgnsrekt/gensay/internal/provider"
	"github.com/dgnsrekt/gensay/internal/provider/engines"
)

var (
	voiceSearch   string
	voiceLanguage string

	voicesCmd = &cobra.Command{
		Use:     "voices",
		Short:   "List the voices the selected provider offers",
		Example: paragraph("gensay voices\ngensay voices --provider openai\ngensay voices --search sam --language en"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f := cmd.Flags().Lookup("provider"); f != nil && f.Changed {
				providerName = f.Value.String()
			}
			cfg, err := providerConfig()
			if err != nil {
				return err
			}
			p, err := engines.New(providerName, cfg)
			if err != nil {
				return err
			}

			voices, err := p.Voices(cmd.Context())
			if err != nil {
				return err
			}
			voices = filterVoices(voices, voiceSearch, voiceLanguage)
			if len(voices) == 0 {
				fmt.Println("No matching voices.")
				return nil
			}

			printVoices(voices)
			return nil
		},
	}
)

// filterVoices applies the fuzzy name search and the language filter.
func filterVoices(voices []provider.Voice, search, lang string) []provider.Voice {
	if lang != "" {
		want, err := language.Parse(lang)
		if err == nil {
			wantBase, _ := want.Base()
			var kept []provider.Voice
			for _, v := range voices {
				tag, err := language.Parse(v.Language)
				if err != nil {
					continue
				}
				base, _ := tag.Base()
				if base == wantBase {
					kept = append(kept, v)
				}
			}
			voices = kept
		}
	}

	if search == "" {
		return voices
	}

	names := make([]string, len(voices))
	for i, v := range voices {
		names[i] = v.Name
	}
	matches := fuzzy.Find(search, names)

	kept := make([]provider.Voice, 0, len(matches))
	for _, m := range matches {
		kept = append(kept, voices[m.Index])
	}
	return kept
}

// printVoices renders an aligned table sized to the terminal.
func printVoices(voices []provider.Voice) {
	sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })

	nameWidth := 0
	for _, v := range voices {
		if w := runewidth.StringWidth(v.Name); w > nameWidth {
			nameWidth = w
		}
	}

	width := 80
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	for _, v := range voices {
		line := runewidth.FillRight(v.Name, nameWidth) + "  " + v.Language
		if v.Gender != "" {
			line += "  " + strings.ToLower(v.Gender)
		}
		if runewidth.StringWidth(line) > width {
			line = runewidth.Truncate(line, width, "…")
		}
		fmt.Println(line)
	}
}

func init() {
	voicesCmd.Flags().StringVarP(&providerName, "provider", "P", "", "TTS provider to list voices for")
	voicesCmd.Flags().StringVarP(&voiceSearch, "search", "s", "", "fuzzy-match voices by name")
	voicesCmd.Flags().StringVarP(&voiceLanguage, "language", "l", "", "only voices for this language (e.g. en, fr-CA)")
}
