package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// setupLog configures the global logger. Logging is quiet by default so
// audio tooling stays pipe-friendly; GENSAY_DEBUG turns on debug output
// and GENSAY_LOGFILE redirects everything to a file. The returned closer
// flushes the log file, when one is open.
func setupLog() (func() error, error) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)

	if os.Getenv("GENSAY_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	}

	if path := os.Getenv("GENSAY_LOGFILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		return f.Close, nil
	}

	return func() error { return nil }, nil
}
