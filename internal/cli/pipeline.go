package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/dshills/prscan/internal/association"
	"github.com/dshills/prscan/internal/batch"
	"github.com/dshills/prscan/internal/cache"
	"github.com/dshills/prscan/internal/config"
	"github.com/dshills/prscan/internal/github"
	"github.com/dshills/prscan/internal/output"
	"github.com/spf13/cobra"
)

// Shared analysis flags
var (
	flagFormat    string
	flagOut       string
	flagParallel  int
	flagDelayMs   int
	flagNoCache   bool
	flagAPIURL    string
	flagToken     string
	flagInspect   int
	flagRanges    string
	flagRepoList  string
	flagCandDelay int
)

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagOut != "" {
		m["outputFile"] = flagOut
	}
	if flagParallel > 0 {
		m["maxParallelRequests"] = strconv.Itoa(flagParallel)
	}
	if flagDelayMs >= 0 {
		m["rateLimitDelayMs"] = strconv.Itoa(flagDelayMs)
	}
	if flagCandDelay >= 0 {
		m["candidateDelayMs"] = strconv.Itoa(flagCandDelay)
	}
	if flagInspect > 0 {
		m["candidateInspectLimit"] = strconv.Itoa(flagInspect)
	}
	if flagAPIURL != "" {
		m["apiURL"] = flagAPIURL
	}
	if flagToken != "" {
		m["githubToken"] = flagToken
	}
	if flagRanges != "" {
		m["rangesFile"] = flagRanges
	}
	if flagRepoList != "" {
		m["repoListFile"] = flagRepoList
	}
	if flagNoCache {
		m["cache.enabled"] = "false"
	}
	return m
}

// loadConfig loads and validates the effective configuration. On failure it
// prints the error, sets the exit code and returns false.
func loadConfig() (config.Config, bool) {
	cfg, err := config.Load(flagConfigPath, buildOverrides())
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if config.IsCredentialError(err) {
			exitCode = ExitAuthError
		} else {
			exitCode = ExitUsageError
		}
		return config.Config{}, false
	}
	return cfg, true
}

// newForge builds the GitHub client, wrapped with the response cache when enabled.
func newForge(cfg config.Config) (association.Forge, error) {
	client, err := github.NewClient(github.Options{
		Token:      cfg.GitHubToken,
		APIURL:     cfg.APIURL,
		Timeout:    cfg.RequestTimeout(),
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return client, nil
	}
	c, err := cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		slog.Warn("response cache unavailable", "error", err)
		return client, nil
	}
	return github.NewCachingClient(client, c, client.APIURL()), nil
}

func engineOptions(cfg config.Config) association.Options {
	return association.Options{
		CommitDelay:           cfg.RateLimitDelay(),
		CandidateDelay:        cfg.CandidateDelay(),
		CandidateFetchLimit:   cfg.CandidateFetchLimit,
		CandidateInspectLimit: cfg.CandidateInspectLimit,
		Secrets:               []string{cfg.GitHubToken, cfg.AzureDevOpsToken},
		Logger:                slog.Default(),
	}
}

// analyze runs every request through the dispatcher and returns the run document.
func analyze(cfg config.Config, forge association.Forge, reqs []association.Request) *batch.Document {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := association.NewEngine(forge, engineOptions(cfg))
	d := batch.NewDispatcher(engine, cfg.MaxParallelRequests, slog.Default())

	start := time.Now()
	results := d.Run(ctx, reqs)
	doc := batch.NewDocument(results, time.Now())
	slog.Info("analysis completed",
		"repositories", doc.TotalRepositories,
		"failed", doc.FailedRepositories,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return &doc
}

// report writes the document to outPath (when set) and the console summary to stdout.
func report(cfg config.Config, doc *batch.Document, outPath string) {
	if outPath != "" {
		if err := output.WriteFile(outPath, doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
	}

	writer, err := output.GetWriter(cfg.Format, flagNoColor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return
	}
	if err := writer.Write(os.Stdout, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing summary: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Detailed results saved to: %s\n", outPath)
	}
}

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "format", "", "Console output format (text, json, markdown)")
	cmd.Flags().IntVar(&flagParallel, "parallel", 0, "Maximum repositories analyzed at once")
	cmd.Flags().IntVar(&flagDelayMs, "delay-ms", -1, "Pause before each commit lookup in milliseconds")
	cmd.Flags().IntVar(&flagCandDelay, "candidate-delay-ms", -1, "Pause after each candidate pull request in milliseconds")
	cmd.Flags().IntVar(&flagInspect, "candidates", 0, "Merged pull requests inspected per commit in the fallback search")
	cmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Do not read or write the response cache")
	cmd.Flags().StringVar(&flagAPIURL, "api-url", "", "GitHub API base URL (for GitHub Enterprise)")
	cmd.Flags().StringVar(&flagToken, "token", "", "GitHub token (prefer GITHUB_TOKEN)")
}
