package engines

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/dgnsrekt/gensay/internal/provider"
)

// Credentials are the secrets and endpoints read from the environment.
type Credentials struct {
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	ElevenLabsKey string `env:"ELEVENLABS_API_KEY"`
	ChatterboxURL string `env:"GENSAY_CHATTERBOX_URL"`
}

// LoadCredentials reads provider credentials from the environment. AWS
// credentials are not listed here; the AWS SDK resolves its own chain.
func LoadCredentials() (Credentials, error) {
	return env.ParseAs[Credentials]()
}

// Names lists the registered providers in the order shown to users.
func Names() []string {
	return []string{"say", "openai", "elevenlabs", "polly", "chatterbox", "mock"}
}

// New constructs the named provider. Cloud providers fail fast here when
// their credentials are missing so the user hears about it before any
// text is processed.
func New(name string, cfg provider.Config) (provider.Provider, error) {
	creds, err := LoadCredentials()
	if err != nil {
		return nil, fmt.Errorf("unable to read provider credentials: %w", err)
	}

	switch name {
	case "say":
		return NewSay(cfg)
	case "openai":
		return NewOpenAI(cfg, creds.OpenAIKey)
	case "elevenlabs":
		return NewElevenLabs(cfg, creds.ElevenLabsKey)
	case "polly":
		return NewPolly(cfg)
	case "chatterbox":
		// Environment wins over the config file's chatterbox.url.
		url := creds.ChatterboxURL
		if url == "" {
			url = cfg.ExtraOr("url", "")
		}
		return NewChatterbox(cfg, url)
	case "mock":
		return NewMock(cfg)
	default:
		return nil, fmt.Errorf("%w: %q (choose from %s)",
			provider.ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}
}
