package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter"
)

// newCloneCmd creates the clone command.
func newCloneCmd(a *app) *cobra.Command {
	var opts gitadapter.CloneOptions

	cmd := &cobra.Command{
		Use:   "clone <url> <path>",
		Short: "Clone a repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.adapter.Clone(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Bare, "bare", false, "create a bare repository")
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "branch to check out")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "create a shallow clone with this many commits")

	return cmd
}

// newFetchCmd creates the fetch command.
func newFetchCmd(a *app) *cobra.Command {
	var opts gitadapter.FetchOptions

	cmd := &cobra.Command{
		Use:   "fetch <repository>",
		Short: "Fetch refs from a remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.adapter.Fetch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Remote, "remote", "origin", "remote to fetch from")
	cmd.Flags().BoolVar(&opts.Prune, "prune", false, "remove refs that no longer exist on the remote")
	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "limit fetched history to this many commits")
	cmd.Flags().StringArrayVar(&opts.RefSpecs, "refspec", nil, "refspec to fetch instead of the configured ones")

	return cmd
}

// newCacheSyncCmd creates the cache-sync command.
func newCacheSyncCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "cache-sync <url>...",
		Short: "Create or update bare mirrors of remotes in the cache directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.CacheDir
			}
			cache := gitadapter.NewCache(a.adapter, dir)

			for _, remote := range args {
				path, err := cache.Sync(cmd.Context(), remote)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "cache-dir", "", "cache directory (defaults to the XDG cache directory)")

	return cmd
}
