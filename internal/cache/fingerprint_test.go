package cache

import (
	"regexp"
	"testing"
)

var hexKey = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestFingerprint_Format(t *testing.T) {
	key := Fingerprint("Hello, world!", "Alex", 200, "")
	if !hexKey.MatchString(key) {
		t.Errorf("Key is not 64 lowercase hex chars: %q", key)
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("Hello, world!", "Alex", 200, "say/v1")
	b := Fingerprint("Hello, world!", "Alex", 200, "say/v1")
	if a != b {
		t.Errorf("Identical inputs produced different keys: %s vs %s", a, b)
	}
}

func TestFingerprint_Differentiation(t *testing.T) {
	base := Fingerprint("Test text", "Alex", 200, "")

	variants := map[string]string{
		"voice": Fingerprint("Test text", "Samantha", 200, ""),
		"rate":  Fingerprint("Test text", "Alex", 250, ""),
		"text":  Fingerprint("Different text", "Alex", 200, ""),
		"extra": Fingerprint("Test text", "Alex", 200, "openai/tts-1"),
	}

	seen := map[string]string{"base": base}
	for name, key := range variants {
		if key == base {
			t.Errorf("Changing %s did not change the key", name)
		}
		if !hexKey.MatchString(key) {
			t.Errorf("Key for %s is not 64 lowercase hex chars: %q", name, key)
		}
		for other, otherKey := range seen {
			if key == otherKey {
				t.Errorf("Keys for %s and %s collide", name, other)
			}
		}
		seen[name] = key
	}
}

func TestFingerprint_FieldBoundaries(t *testing.T) {
	// Field contents must not bleed into each other: moving a character
	// from text to voice has to produce a different digest.
	a := Fingerprint("ab", "c", 200, "")
	b := Fingerprint("a", "bc", 200, "")
	if a == b {
		t.Error("Adjacent fields collided across the field boundary")
	}

	c := Fingerprint("x", "", 200, "tag")
	d := Fingerprint("x", "tag", 200, "")
	if c == d {
		t.Error("Voice and extra fields collided across the field boundary")
	}
}

func TestFingerprint_CorpusDistinct(t *testing.T) {
	texts := []string{"", "a", "Hello, world!", "First message", "Second message"}
	voices := []string{"Alex", "Samantha", "nova", ""}
	rates := []int{100, 150, 200, 250}

	seen := make(map[string]string)
	for _, text := range texts {
		for _, voice := range voices {
			for _, rate := range rates {
				key := Fingerprint(text, voice, rate, "")
				id := text + "|" + voice + "|" + string(rune(rate))
				if prev, ok := seen[key]; ok {
					t.Fatalf("Collision between %q and %q", prev, id)
				}
				seen[key] = id
			}
		}
	}
}
