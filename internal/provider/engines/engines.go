package engines

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzhttp"

	"github.com/dgnsrekt/gensay/internal/cache"
	"github.com/dgnsrekt/gensay/internal/provider"
)

// newHTTPClient returns the client the cloud engines share: a sane
// timeout and transparent gzip decompression on responses.
func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: gzhttp.Transport(http.DefaultTransport),
		Timeout:   60 * time.Second,
	}
}

// cachedSynthesis wraps a vendor call with the cache protocol: compute
// the fingerprint, return the entry on a hit, otherwise generate and
// store. The tag names the engine, model and output format so switching
// any of them invalidates previously cached audio instead of replaying
// bytes another engine produced. Cache write failures are logged and
// swallowed; they must never block the synthesis path.
func cachedSynthesis(ctx context.Context, c *cache.Cache, tag, text string, opts provider.Options, generate func(context.Context) ([]byte, error)) ([]byte, error) {
	key := cache.Fingerprint(text, opts.Voice, opts.Rate, tag)
	if data, ok := c.Get(key); ok {
		log.Debug("Audio cache hit", "tag", tag, "key", key)
		return data, nil
	}

	data, err := generate(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Put(key, data); err != nil {
		log.Warn("Unable to cache synthesized audio", "key", key, "error", err)
	}
	return data, nil
}
