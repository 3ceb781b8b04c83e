package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/buildinfo"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	repo string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Double-entry bookkeeping ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.repo, "repo", ".", "ledger directory")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAccountCommand(opts),
		newAssetCommand(opts),
		newFundCommand(opts),
		newTxnCommand(opts),
		newBalanceCommand(opts),
	)

	return rootCmd
}
