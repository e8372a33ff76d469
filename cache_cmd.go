package main

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/gensay/internal/cache"
)

var (
	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the audio cache",
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show how many entries the cache holds and how much disk they use",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			stats := c.Stats()

			fmt.Printf("%s %s\n", keyword("Directory:"), stats.Dir)
			if !stats.Enabled {
				fmt.Printf("%s disabled\n", keyword("Caching:"))
				return nil
			}
			fmt.Printf("%s %d\n", keyword("Entries:"), stats.Items)
			fmt.Printf("%s %s (%.2f MB)\n", keyword("Size:"), humanize.Bytes(uint64(stats.TotalBytes)), stats.SizeMB)
			return nil
		},
	}

	cacheClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached audio entry",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			c, err := openCache()
			if err != nil {
				return err
			}
			before := c.Stats()
			if err := c.Clear(); err != nil {
				return err
			}
			fmt.Printf("Removed %d entries (%s).\n", before.Items, humanize.Bytes(uint64(before.TotalBytes)))
			return nil
		},
	}
)

func openCache() (*cache.Cache, error) {
	cfg, err := providerConfig()
	if err != nil {
		return nil, err
	}
	return cache.New(cfg.CacheDir, cfg.CacheEnabled), nil
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
