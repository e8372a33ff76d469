package engines

import (
	"reflect"
	"testing"
)

func TestParseSayVoices(t *testing.T) {
	output := `Alex                en_US    # Most people recognize me by my voice.
Amélie              fr_CA    # Bonjour! Je m'appelle Amélie.
Samantha            en_US    # Hello, my name is Samantha.
garbage line without structure
`
	voices := parseSayVoices(output)
	if len(voices) != 3 {
		t.Fatalf("len(voices) = %d, want 3", len(voices))
	}
	if voices[0].ID != "Alex" || voices[0].Language != "en-US" {
		t.Errorf("voices[0] = %+v", voices[0])
	}
	if voices[1].Name != "Amélie" || voices[1].Language != "fr-CA" {
		t.Errorf("voices[1] = %+v", voices[1])
	}
}

func TestParseSayVoices_Empty(t *testing.T) {
	if voices := parseSayVoices(""); len(voices) != 0 {
		t.Errorf("parseSayVoices(\"\") = %+v", voices)
	}
}

func TestSayArgs(t *testing.T) {
	got := sayArgs("Hello, world!", "Alex", 200, "/tmp/out.m4a")
	want := []string{"-v", "Alex", "-r", "200", "-o", "/tmp/out.m4a", "--file-format=m4af", "Hello, world!"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sayArgs = %v, want %v", got, want)
	}
}
