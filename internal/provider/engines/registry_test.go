package engines

import (
	"errors"
	"testing"

	"github.com/dgnsrekt/gensay/internal/provider"
)

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New("festival", provider.DefaultConfig())
	if !errors.Is(err, provider.ErrUnknownProvider) {
		t.Errorf("New(festival) error = %v, want ErrUnknownProvider", err)
	}
}

func TestNew_Mock(t *testing.T) {
	cfg := provider.DefaultConfig()
	cfg.CacheDir = t.TempDir()

	p, err := New("mock", cfg)
	if err != nil {
		t.Fatalf("New(mock) failed: %v", err)
	}
	if p.Name() != "mock" {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestNew_OpenAIWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := New("openai", provider.DefaultConfig())
	if !errors.Is(err, provider.ErrMissingAPIKey) {
		t.Errorf("New(openai) without key error = %v, want ErrMissingAPIKey", err)
	}
}

func TestNew_ChatterboxURL(t *testing.T) {
	cfg := provider.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	cfg.Extra = map[string]string{"url": "http://box.local:9000"}

	t.Setenv("GENSAY_CHATTERBOX_URL", "")
	p, err := New("chatterbox", cfg)
	if err != nil {
		t.Fatalf("New(chatterbox) failed: %v", err)
	}
	if got := p.(*Chatterbox).baseURL; got != "http://box.local:9000" {
		t.Errorf("baseURL = %q, want the configured url", got)
	}

	t.Setenv("GENSAY_CHATTERBOX_URL", "http://env.local:7000")
	p, err = New("chatterbox", cfg)
	if err != nil {
		t.Fatalf("New(chatterbox) failed: %v", err)
	}
	if got := p.(*Chatterbox).baseURL; got != "http://env.local:7000" {
		t.Errorf("baseURL = %q, environment should win over config", got)
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GENSAY_CHATTERBOX_URL", "http://localhost:9999")

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials failed: %v", err)
	}
	if creds.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q", creds.OpenAIKey)
	}
	if creds.ChatterboxURL != "http://localhost:9999" {
		t.Errorf("ChatterboxURL = %q", creds.ChatterboxURL)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("Names() is empty")
	}
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("Duplicate provider name %q", n)
		}
		seen[n] = true
	}
	if !seen["mock"] || !seen["say"] {
		t.Errorf("Expected providers missing from %v", names)
	}
}
