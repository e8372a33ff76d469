package cache

// bytesPerMB is the divisor for SizeMB. Decimal megabytes (1,000,000
// bytes), not mebibytes; consumers that need the raw figure should use
// TotalBytes.
const bytesPerMB = 1_000_000

// Stats is a point-in-time view of the cache, recomputed from the
// filesystem on every call. It is never stored.
type Stats struct {
	// Enabled reports whether caching is active for this instance.
	Enabled bool

	// Dir is the directory backing the cache.
	Dir string

	// Items is the number of entry files on disk.
	Items int

	// TotalBytes is the summed size of all entry files.
	TotalBytes int64

	// SizeMB is TotalBytes in decimal megabytes.
	SizeMB float64
}
