package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dshills/prscan/internal/association"
	"github.com/dshills/prscan/internal/config"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze every range in the range file",
	Long: "Load the repository list and range file, resolve each GitHub range to its commits and " +
		"pull requests, write the results document, and print a summary.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, ok := loadConfig()
		if !ok {
			return nil
		}

		ranges, err := config.LoadRanges(cfg.RangesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		repos, err := config.LoadRepoList(cfg.RepoListFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		targets, skipped := config.Targets(ranges, repos)
		for _, s := range skipped {
			slog.Warn("skipping range not hosted on GitHub", "repository", s.RepositoryName)
		}
		if len(targets) == 0 {
			fmt.Fprintln(os.Stderr, "No GitHub ranges to analyze.")
		}

		forge, err := newForge(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		slog.Info("starting analysis", "ranges", len(targets), "parallel", cfg.MaxParallelRequests)
		doc := analyze(cfg, forge, requestsFrom(targets))
		report(cfg, doc, cfg.OutputFile)
		return nil
	},
}

func requestsFrom(targets []config.Target) []association.Request {
	reqs := make([]association.Request, 0, len(targets))
	for _, t := range targets {
		reqs = append(reqs, association.Request{
			Repository: t.Name,
			Owner:      t.Owner,
			Repo:       t.Repo,
			OldCommit:  t.OldCommit,
			NewCommit:  t.NewCommit,
		})
	}
	return reqs
}

func init() {
	addAnalysisFlags(runCmd)
	runCmd.Flags().StringVar(&flagOut, "out", "", "Results document path (default: results.json)")
	runCmd.Flags().StringVar(&flagRanges, "ranges", "", "Range file (JSON, YAML or TOML)")
	runCmd.Flags().StringVar(&flagRepoList, "repos", "", "Repository list file (JSON, YAML or TOML)")
}
