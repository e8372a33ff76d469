// Package provider defines the contract for text-to-speech backends and
// the configuration they share. Concrete engines live in the engines
// subpackage; every one of them computes a cache fingerprint before
// calling its vendor and routes synthesized audio through the shared
// disk cache.
package provider
