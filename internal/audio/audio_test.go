package audio

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"mp3", FormatMP3, false},
		{"MP3", FormatMP3, false},
		{".wav", FormatWAV, false},
		{"m4a", FormatM4A, false},
		{"ogg", FormatOGG, false},
		{"pcm", FormatPCM, false},
		{"flac", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"out.mp3", FormatMP3},
		{"dir/speech.M4A", FormatM4A},
		{"noext", FormatMP3},
		{"weird.xyz", FormatMP3},
	}
	for _, tt := range tests {
		if got := FormatForPath(tt.path, FormatMP3); got != tt.want {
			t.Errorf("FormatForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFormatMIME(t *testing.T) {
	tests := []struct {
		f    Format
		want string
	}{
		{FormatMP3, "audio/mpeg"},
		{FormatM4A, "audio/mp4"},
		{FormatWAV, "audio/wav"},
		{FormatOGG, "audio/ogg"},
		{FormatPCM, "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := tt.f.MIME(); got != tt.want {
			t.Errorf("%v.MIME() = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestEncodeArgs(t *testing.T) {
	if got := encodeArgs(FormatMP3); !reflect.DeepEqual(got, []string{"-f", "mp3"}) {
		t.Errorf("encodeArgs(mp3) = %v", got)
	}
	if got := encodeArgs(FormatOGG); got[1] != "libopus" {
		t.Errorf("encodeArgs(ogg) should select libopus, got %v", got)
	}
	if got := encodeArgs(FormatM4A); got[3] != "ipod" {
		t.Errorf("encodeArgs(m4a) should use the ipod muxer, got %v", got)
	}
}

func TestPCMArgs(t *testing.T) {
	got := pcmArgs(44100, 1)
	want := []string{"-f", "s16le", "-acodec", "pcm_s16le", "-ar", "44100", "-ac", "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pcmArgs = %v, want %v", got, want)
	}
}

func TestConvert_SameFormatPassthrough(t *testing.T) {
	c := NewConverter("ffmpeg-that-does-not-exist", t.TempDir())
	data := []byte{1, 2, 3}
	got, err := c.Convert(context.Background(), data, FormatMP3, FormatMP3)
	if err != nil {
		t.Fatalf("same-format convert should not invoke ffmpeg: %v", err)
	}
	if &got[0] != &data[0] {
		t.Error("same-format convert should return the input unchanged")
	}
}

func TestMockSink(t *testing.T) {
	sink := NewMockSink()
	ctx := context.Background()

	if err := sink.Play(ctx, []byte{1, 2}); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if err := sink.Play(ctx, []byte{3}); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	played := sink.Played()
	if len(played) != 2 || len(played[0]) != 2 || len(played[1]) != 1 {
		t.Errorf("Played() = %v", played)
	}

	wantErr := errors.New("device gone")
	sink.FailWith(wantErr)
	if err := sink.Play(ctx, []byte{4}); !errors.Is(err, wantErr) {
		t.Errorf("Play after FailWith = %v, want %v", err, wantErr)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	sink.FailWith(nil)
	if err := sink.Play(canceled, []byte{5}); !errors.Is(err, context.Canceled) {
		t.Errorf("Play with canceled context = %v", err)
	}

	sink.Close()
	if !sink.Closed() {
		t.Error("Closed() = false after Close")
	}
}
