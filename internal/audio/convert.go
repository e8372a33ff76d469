package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// convertTimeout bounds a single ffmpeg invocation.
const convertTimeout = 30 * time.Second

// Converter transcodes audio between formats by shelling out to ffmpeg.
type Converter struct {
	binary  string
	tempDir string
}

// NewConverter returns a converter using the given ffmpeg binary name
// (empty means "ffmpeg" on PATH) and temp directory (empty means the
// system default).
func NewConverter(binary, tempDir string) *Converter {
	if binary == "" {
		binary = "ffmpeg"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Converter{binary: binary, tempDir: tempDir}
}

// Available reports whether the ffmpeg binary can be found.
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Convert transcodes data from one container format to another.
func (c *Converter) Convert(ctx context.Context, data []byte, from, to Format) ([]byte, error) {
	if from == to {
		return data, nil
	}
	return c.run(ctx, data, from, encodeArgs(to))
}

// DecodeToPCM decodes data to raw signed 16-bit little-endian samples at
// the given sample rate and channel count, the layout the player expects.
func (c *Converter) DecodeToPCM(ctx context.Context, data []byte, from Format, sampleRate, channels int) ([]byte, error) {
	return c.run(ctx, data, from, pcmArgs(sampleRate, channels))
}

// encodeArgs returns the ffmpeg output arguments for a target format.
func encodeArgs(to Format) []string {
	switch to {
	case FormatOGG:
		return []string{"-c:a", "libopus", "-f", "ogg"}
	case FormatM4A:
		return []string{"-c:a", "aac", "-f", "ipod"}
	default:
		return []string{"-f", string(to)}
	}
}

// pcmArgs returns the ffmpeg output arguments for raw PCM decoding.
func pcmArgs(sampleRate, channels int) []string {
	return []string{
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
	}
}

// run feeds data to ffmpeg through a temp file and captures the output.
// Temp files are used instead of pipes because several demuxers need a
// seekable input.
func (c *Converter) run(ctx context.Context, data []byte, from Format, outArgs []string) ([]byte, error) {
	in, err := os.CreateTemp(c.tempDir, "gensay-*"+from.Ext())
	if err != nil {
		return nil, fmt.Errorf("unable to create temp audio file: %w", err)
	}
	defer os.Remove(in.Name())

	if _, err := in.Write(data); err != nil {
		in.Close()
		return nil, fmt.Errorf("unable to write temp audio file: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("unable to write temp audio file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	args := append([]string{"-hide_banner", "-loglevel", "error", "-i", in.Name()}, outArgs...)
	args = append(args, "-") // encoded audio on stdout

	cmd := exec.CommandContext(ctx, c.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("audio conversion timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}

	out := stdout.Bytes()
	if len(out) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output, stderr: %s", stderr.String())
	}
	return out, nil
}
