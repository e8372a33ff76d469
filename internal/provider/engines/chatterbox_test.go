package engines

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgnsrekt/gensay/internal/audio"
	"github.com/dgnsrekt/gensay/internal/provider"
)

func newTestChatterbox(t *testing.T, handler http.Handler) *Chatterbox {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := provider.DefaultConfig()
	cfg.CacheDir = t.TempDir()

	c, err := NewChatterbox(cfg, srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestChatterbox_Synthesize(t *testing.T) {
	fakeWAV := []byte("RIFFfake")

	c := newTestChatterbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tts" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req chatterboxRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if req.Text != "Hi this is chatterbox" || req.Voice != "default" {
			t.Errorf("Unexpected request: %+v", req)
		}
		w.Write(fakeWAV)
	}))

	got, err := c.Synthesize(context.Background(), "Hi this is chatterbox",
		provider.Options{Rate: 150, Format: audio.FormatWAV})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !bytes.Equal(got, fakeWAV) {
		t.Errorf("Synthesize returned %q", got)
	}
}

func TestChatterbox_Validate(t *testing.T) {
	healthy := newTestChatterbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	if err := healthy.Validate(); err != nil {
		t.Errorf("Validate against healthy server failed: %v", err)
	}

	cfg := provider.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	down, _ := NewChatterbox(cfg, "http://127.0.0.1:1") // nothing listens here
	if err := down.Validate(); err == nil {
		t.Error("Validate against dead server should fail")
	}
}

func TestChatterbox_Voices(t *testing.T) {
	c := newTestChatterbox(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/voices" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "default", "name": "Default", "language": "en-US"},
		})
	}))

	voices, err := c.Voices(context.Background())
	if err != nil {
		t.Fatalf("Voices failed: %v", err)
	}
	if len(voices) != 1 || voices[0].ID != "default" {
		t.Errorf("voices = %+v", voices)
	}
}
