package engines

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/cache"
	"github.com/dgnsrekt/gensay/internal/provider"
)

type fakePolly struct {
	lastSynthesize *polly.SynthesizeSpeechInput
	audio          []byte
	voicePages     [][]pollytypes.Voice
	page           int
}

func (f *fakePolly) SynthesizeSpeech(_ context.Context, in *polly.SynthesizeSpeechInput, _ ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error) {
	f.lastSynthesize = in
	return &polly.SynthesizeSpeechOutput{
		AudioStream: io.NopCloser(bytes.NewReader(f.audio)),
	}, nil
}

func (f *fakePolly) DescribeVoices(_ context.Context, _ *polly.DescribeVoicesInput, _ ...func(*polly.Options)) (*polly.DescribeVoicesOutput, error) {
	out := &polly.DescribeVoicesOutput{Voices: f.voicePages[f.page]}
	if f.page < len(f.voicePages)-1 {
		out.NextToken = aws.String("more")
		f.page++
	}
	return out, nil
}

func newTestPolly(t *testing.T, fake *fakePolly) *Polly {
	t.Helper()
	cfg := provider.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	return &Polly{
		client:    fake,
		engine:    pollyDefaultEngine,
		cfg:       cfg,
		cache:     cache.New(cfg.CacheDir, cfg.CacheEnabled),
		converter: audio.NewConverter("", ""),
	}
}

func TestPolly_Synthesize(t *testing.T) {
	fake := &fakePolly{audio: []byte("fake mp3")}
	p := newTestPolly(t, fake)

	got, err := p.Synthesize(context.Background(), "Hi this is Joanna from Amazon Polly",
		provider.Options{Voice: "Joanna", Rate: 150, Format: audio.FormatMP3})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !bytes.Equal(got, fake.audio) {
		t.Errorf("Synthesize returned %q", got)
	}

	in := fake.lastSynthesize
	if in.VoiceId != "Joanna" || in.TextType != pollytypes.TextTypeSsml {
		t.Errorf("Unexpected input: voice=%v textType=%v", in.VoiceId, in.TextType)
	}
	if !strings.Contains(aws.ToString(in.Text), `rate="100%"`) {
		t.Errorf("SSML missing prosody rate: %s", aws.ToString(in.Text))
	}
}

func TestPolly_Voices_Pagination(t *testing.T) {
	fake := &fakePolly{
		voicePages: [][]pollytypes.Voice{
			{{Id: "Joanna", Name: aws.String("Joanna"), LanguageCode: "en-US", Gender: "Female"}},
			{{Id: "Matthew", Name: aws.String("Matthew"), LanguageCode: "en-US", Gender: "Male"}},
		},
	}
	p := newTestPolly(t, fake)

	voices, err := p.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("len(voices) = %d, want 2", len(voices))
	}
	if voices[1].ID != "Matthew" || voices[1].Gender != "Male" {
		t.Errorf("voices[1] = %+v", voices[1])
	}
}

func TestPollySSML(t *testing.T) {
	got := pollySSML("Tom & Jerry <3", 150)
	if strings.Contains(got, "&a <") && !strings.Contains(got, "&amp;") {
		t.Errorf("SSML not escaped: %s", got)
	}
	if !strings.Contains(got, "&amp;") || !strings.Contains(got, "&lt;") {
		t.Errorf("SSML escaping incomplete: %s", got)
	}
	if !strings.HasPrefix(got, "<speak>") || !strings.HasSuffix(got, "</speak>") {
		t.Errorf("SSML missing speak wrapper: %s", got)
	}
}
