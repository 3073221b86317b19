// Package cli implements the triq command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/triq/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string
	LogLevel   string
	Stats      bool

	// config is resolved once per invocation in PersistentPreRunE
	config *config.Config
}

// NewRootCommand creates the root command for the triq CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "triq",
		Short: "triq - triple-pattern queries over an in-memory RDF store",
		Long: "triq evaluates ASK, CONSTRUCT and DESCRIBE queries built from triple patterns\n" +
			"against a library catalogue held in an in-memory triple store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolveConfig()
			if err != nil {
				return err
			}
			opts.config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", "", "output format (overrides output.ask_format / output.graph_format)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&opts.Stats, "stats", false, "print query counters after running")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAskCommand(opts))
	cmd.AddCommand(NewConstructCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))

	return cmd
}

// resolveConfig layers the config file and command line flags over the defaults.
func (o *RootOptions) resolveConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.ConfigPath != "" {
		fileCfg, err := config.LoadFromFile(o.ConfigPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = fileCfg
	}
	cfg.Merge(&config.Config{Log: config.LogConfig{Level: o.LogLevel}})

	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	return cfg, nil
}
