// Package cache provides a content-addressed disk store for synthesized
// audio. Entries are keyed by a deterministic fingerprint of the synthesis
// request (text, voice, rate, plus a provider tag) and persisted as one
// file per key. The store keeps no index; statistics are recomputed from
// the filesystem on demand.
package cache
