package cli

import (
	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter"
)

// newCleanCmd creates the clean command.
func newCleanCmd(a *app) *cobra.Command {
	var excludes []string

	cmd := &cobra.Command{
		Use:   "clean <worktree>",
		Short: "Remove untracked files and directories from a working tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.adapter.Clean(cmd.Context(), args[0], gitadapter.CleanOptions{Excludes: excludes})
		},
	}

	cmd.Flags().StringArrayVarP(&excludes, "exclude", "e", nil, "pattern to keep (shell backend only)")

	return cmd
}

// newResetCmd creates the reset command.
func newResetCmd(a *app) *cobra.Command {
	var hard bool

	cmd := &cobra.Command{
		Use:   "reset <worktree> <ref>",
		Short: "Reset a working tree to a ref",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.adapter.Reset(cmd.Context(), args[0], args[1], gitadapter.ResetOptions{Hard: hard})
		},
	}

	cmd.Flags().BoolVar(&hard, "hard", false, "also overwrite the working tree")

	return cmd
}
