package audio

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Sink plays raw PCM audio to completion.
type Sink interface {
	// Play blocks until the audio finishes or ctx is canceled.
	Play(ctx context.Context, pcm []byte) error

	// Close releases the audio device.
	Close() error
}

// PlayerConfig holds the PCM layout the player is opened with.
type PlayerConfig struct {
	SampleRate int // 44100 or 48000 Hz
	Channels   int // 1 = mono, 2 = stereo
}

// DefaultPlayerConfig returns the layout used for speech playback.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 44100,
		Channels:   1,
	}
}

// Player implements Sink on top of an oto context. The context is created
// once and reused; oto only allows one per process.
type Player struct {
	context *oto.Context
	config  PlayerConfig

	// Keeps the PCM buffer alive for the duration of playback. Oto reads
	// from it asynchronously, so letting it get collected produces static.
	active []byte
}

// NewPlayer opens the audio device for signed 16-bit little-endian PCM.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if config.SampleRate != 44100 && config.SampleRate != 48000 {
		return nil, fmt.Errorf("sample rate must be 44100 or 48000 Hz, got %d", config.SampleRate)
	}
	if config.Channels != 1 && config.Channels != 2 {
		return nil, fmt.Errorf("channel count must be 1 or 2, got %d", config.Channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatSignedInt16LE,
	}
	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("unable to open audio device: %w", err)
	}
	<-ready

	return &Player{context: otoCtx, config: config}, nil
}

// Play writes pcm to the audio device and blocks until playback drains
// or ctx is canceled.
func (p *Player) Play(ctx context.Context, pcm []byte) error {
	if len(pcm) == 0 {
		return nil
	}

	p.active = pcm
	defer func() { p.active = nil }()

	player := p.context.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Close implements Sink. The oto context itself has no teardown.
func (p *Player) Close() error {
	return nil
}
