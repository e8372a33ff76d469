package main

import (
	"testing"

	"github.com/dgnsrekt/gensay/internal/audio"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		configured audio.Format
		explicit   bool
		want       audio.Format
	}{
		{"extension decides by default", "out.wav", audio.FormatMP3, false, audio.FormatWAV},
		{"explicit flag wins over extension", "out.mp3", audio.FormatWAV, true, audio.FormatWAV},
		{"explicit flag matching extension", "out.wav", audio.FormatWAV, true, audio.FormatWAV},
		{"no extension falls back to configured", "out", audio.FormatOGG, false, audio.FormatOGG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputFormat(tt.path, tt.configured, tt.explicit)
			if got != tt.want {
				t.Errorf("outputFormat(%q, %v, explicit=%v) = %v, want %v",
					tt.path, tt.configured, tt.explicit, got, tt.want)
			}
		})
	}
}
