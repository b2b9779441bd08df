package cli

import (
	"fmt"
	"os"

	"github.com/dshills/prscan/internal/association"
	"github.com/dshills/prscan/internal/gitctx"
	"github.com/spf13/cobra"
)

var (
	flagOld     string
	flagNew     string
	flagDir     string
	flagRemote  string
	flagDryRun  bool
	flagRangeTo string
)

var rangeCmd = &cobra.Command{
	Use:   "range [owner/repo]",
	Short: "Analyze a single commit range",
	Long: "Resolve one range to its commits and pull requests. When owner/repo is omitted it is " +
		"read from the local checkout's remote, and --new defaults to the local HEAD.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		var local *gitctx.Repo
		if name == "" || flagNew == "" || flagDryRun {
			r, err := gitctx.Open(flagDir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\nPass owner/repo and --new to run outside a git checkout.\n", err)
				exitCode = ExitUsageError
				return nil
			}
			local = r
		}

		if name == "" {
			owner, repo, err := local.Coordinates(flagRemote)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\nPass owner/repo explicitly.\n", err)
				exitCode = ExitUsageError
				return nil
			}
			name = owner + "/" + repo
		}

		newRef := flagNew
		if newRef == "" {
			sha, _, err := local.Head()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitUsageError
				return nil
			}
			newRef = sha
		}

		if flagDryRun {
			return previewRange(local, name, flagOld, newRef)
		}

		cfg, ok := loadConfig()
		if !ok {
			return nil
		}
		forge, err := newForge(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		fmt.Fprintf(os.Stderr, "Analyzing %s %s...%s\n", name, flagOld, association.ShortSHA(newRef))
		doc := analyze(cfg, forge, []association.Request{{
			Repository: name,
			OldCommit:  flagOld,
			NewCommit:  newRef,
		}})
		report(cfg, doc, flagRangeTo)
		return nil
	},
}

// previewRange lists the range's commits from local history without calling the API.
func previewRange(local *gitctx.Repo, name, oldRef, newRef string) error {
	commits, err := local.CommitsBetween(oldRef, newRef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return nil
	}
	fmt.Fprintf(os.Stdout, "%s: %d commits in %s...%s (local history)\n", name, len(commits), oldRef, association.ShortSHA(newRef))
	for _, c := range commits {
		marker := " "
		if c.Parents > 1 {
			marker = "M"
		}
		fmt.Fprintf(os.Stdout, "  %s %s %s\n", marker, association.ShortSHA(c.SHA), c.Subject)
	}
	return nil
}

func init() {
	addAnalysisFlags(rangeCmd)
	rangeCmd.Flags().StringVar(&flagOld, "old", "", "Older ref (commit, tag or branch) of the range")
	rangeCmd.Flags().StringVar(&flagNew, "new", "", "Newer ref of the range (default: local HEAD)")
	rangeCmd.Flags().StringVar(&flagDir, "dir", ".", "Local checkout used for defaults")
	rangeCmd.Flags().StringVar(&flagRemote, "remote", "origin", "Remote whose URL names the GitHub repository")
	rangeCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "List the range's commits from local history without calling GitHub")
	rangeCmd.Flags().StringVar(&flagRangeTo, "out", "", "Also write the results document to this path")
	_ = rangeCmd.MarkFlagRequired("old")
}
