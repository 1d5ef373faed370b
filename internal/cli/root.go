// Package cli implements the gitadapter command line tool.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-libs/gitadapter"
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/config"
	"github.com/input-output-hk/catalyst-forge-libs/gitadapter/internal/logger"
)

// app holds the state shared by every subcommand. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	configPath string
	backend    string
	logLevel   string
	logJSON    bool

	cfg     *config.Config
	logger  *slog.Logger
	adapter *gitadapter.Adapter
}

// NewRootCmd creates the root cobra command.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "gitadapter",
		Short: "Inspect and manipulate Git repositories through a single adapter",
		Long: `gitadapter reads blobs, lists branches, resolves refs and resets or cleans
working trees, reporting every failure as a single normalized error.

Configuration is read from --config or from gitadapter/config.yaml in the
XDG config directories.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to the configuration file")
	flags.StringVar(&a.backend, "backend", "", "engine to use: gogit or shell")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&a.logJSON, "log-json", false, "log in JSON format")

	// Add subcommands
	rootCmd.AddCommand(
		newBlobCmd(a),
		newBranchesCmd(a),
		newResolveCmd(a),
		newLogCmd(a),
		newCleanCmd(a),
		newResetCmd(a),
		newCloneCmd(a),
		newFetchCmd(a),
		newCacheSyncCmd(a),
	)

	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the adapter.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadDefault(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("backend") {
		cfg.Backend = a.backend
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if a.logJSON {
		cfg.Log.Format = string(logger.FormatJSON)
	}

	a.cfg = cfg
	a.logger = logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: logger.Format(cfg.Log.Format),
		Output: cmd.ErrOrStderr(),
	})

	opts, err := adapterOptions(cfg, a.logger)
	if err != nil {
		return err
	}

	a.adapter, err = gitadapter.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create adapter: %w", err)
	}

	return nil
}

// adapterOptions converts configuration into adapter options.
func adapterOptions(cfg *config.Config, log *slog.Logger) ([]gitadapter.Option, error) {
	backend, err := gitadapter.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}

	opts := []gitadapter.Option{
		gitadapter.WithBackend(backend),
		gitadapter.WithLogger(log),
		gitadapter.WithMaxBlobSize(cfg.MaxBlobSize),
		gitadapter.WithStorerCacheSize(cfg.StorerCacheSize),
	}
	if cfg.GitBinary != "" {
		opts = append(opts, gitadapter.WithGitBinary(cfg.GitBinary))
	}

	auth, err := authProvider(cfg.Auth)
	if err != nil {
		return nil, err
	}
	if auth != nil {
		opts = append(opts, gitadapter.WithAuth(auth))
	}

	return opts, nil
}

// authProvider builds the provider chain described by cfg. It returns nil
// when nothing is configured.
//
//nolint:ireturn // AuthProvider is the option type
func authProvider(cfg config.AuthConfig) (gitadapter.AuthProvider, error) {
	var providers []gitadapter.AuthProvider

	for _, h := range cfg.HTTPS {
		if h.Username == "" {
			providers = append(providers, gitadapter.NewHTTPSTokenAuth(h.Token, h.Hosts...))
		} else {
			providers = append(providers, gitadapter.NewHTTPSBasicAuth(h.Username, h.Token, h.Hosts...))
		}
	}

	if ssh := cfg.SSH; ssh != nil {
		if ssh.KeyPath != "" {
			p, err := gitadapter.NewSSHKeyAuth(ssh.KeyPath, ssh.Passphrase, ssh.KnownHosts...)
			if err != nil {
				return nil, err
			}
			providers = append(providers, p)
		}
		if ssh.Agent {
			providers = append(providers, gitadapter.NewSSHAgentAuth())
		}
	}

	switch len(providers) {
	case 0:
		return nil, nil
	case 1:
		return providers[0], nil
	default:
		return gitadapter.NewCompositeAuth(providers...), nil
	}
}
