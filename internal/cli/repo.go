package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newBlobCmd creates the blob command.
func newBlobCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blob <repository> <ref> <path>",
		Short: "Print the content of a file at a ref",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.adapter.BlobAt(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// newBranchesCmd creates the branches command.
func newBranchesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "branches <repository>",
		Short: "List local branches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := a.adapter.BranchList(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, b := range branches {
				fmt.Fprintln(cmd.OutOrStdout(), b)
			}
			return nil
		},
	}
}

// newResolveCmd creates the resolve command.
func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <repository> <ref>",
		Short: "Print the commit a ref points at",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sha, err := a.adapter.ResolveCommit(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), sha)
			return nil
		},
	}
}

// newLogCmd creates the log command.
func newLogCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log <repository> [ref]",
		Short: "Show commits reachable from a ref, newest first",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := "HEAD"
			if len(args) == 2 {
				ref = args[1]
			}

			commits, err := a.adapter.Log(cmd.Context(), args[0], ref, limit)
			if err != nil {
				return err
			}

			for _, c := range commits {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", c.ID, c.Subject)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "max-count", "n", 10, "number of commits to show (0 for all)")

	return cmd
}
