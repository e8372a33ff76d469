// Package audio provides thin glue around audio formats: format
// identification, conversion through an external ffmpeg binary, and
// speaker playback via oto. No codec is implemented here; synthesized
// audio is treated as opaque bytes everywhere else in the program.
package audio
