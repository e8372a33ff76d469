package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Fingerprint computes the cache key for a synthesis request. The key is a
// 64-character lowercase hex SHA-256 digest, stable across processes and
// runs: identical (text, voice, rate, extra) tuples always map to the same
// key, and any difference in one field produces a different key.
//
// Fields are length-prefixed before hashing so adjacent fields cannot
// bleed into each other ("ab"+"c" hashes differently from "a"+"bc").
//
// The extra field carries a provider or engine-version tag. Switching
// engines or models therefore invalidates audio cached for the same
// (text, voice, rate) tuple instead of silently replaying audio encoded
// by a different engine.
func Fingerprint(text, voice string, rate int, extra string) string {
	h := sha256.New()
	for _, field := range []string{text, voice, strconv.Itoa(rate), extra} {
		h.Write([]byte(strconv.Itoa(len(field))))
		h.Write([]byte{':'})
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
