package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dshills/prscan/internal/cache"
	"github.com/dshills/prscan/internal/config"
	"github.com/spf13/cobra"
)

var flagExpiredOnly bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the GitHub response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached GitHub responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(true)
		if err != nil {
			return err
		}
		var n int
		if flagExpiredOnly {
			n, err = c.Prune()
		} else {
			n, err = c.Clear()
		}
		if err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Cache cleared (%d entries removed).\n", n)
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCache(false)
		if err != nil {
			return err
		}
		if !c.Enabled() {
			fmt.Fprintln(os.Stdout, "Cache is disabled.")
			return nil
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Directory\t%s\n", stats.Dir)
		fmt.Fprintf(w, "Entries\t%d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Fprintf(w, "Size\t%d bytes\n", stats.TotalBytes)
		for _, k := range stats.Kinds() {
			fmt.Fprintf(w, "  %s\t%d\n", k, stats.ByKind[k])
		}
		return w.Flush()
	},
}

// openCache opens the configured cache directory. force opens it even when
// caching is disabled in the config, so clear still works.
func openCache(force bool) (*cache.Cache, error) {
	cfg, err := config.Load(flagConfigPath, nil)
	if err != nil {
		return nil, err
	}
	c, err := cache.New(force || cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return c, nil
}

func init() {
	cacheClearCmd.Flags().BoolVar(&flagExpiredOnly, "expired", false, "Only remove entries older than the cache TTL")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
