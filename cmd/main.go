package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krisalay/gql-cache-patch/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type cli struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "gqlpatch",
		Short:         "Patch normalized GraphQL cache data through drafts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(c.newDemoCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gqlpatch version %s\n", version)
		},
	})
	return root
}

// load resolves the config file and flag overrides and builds the logger.
func (c *cli) load() (config.Config, *zap.Logger, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		if cfg, err = config.Load(c.configPath); err != nil {
			return cfg, nil, err
		}
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
		if err := cfg.Validate(); err != nil {
			return cfg, nil, err
		}
	}

	logger, err := cfg.Logger()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gqlpatch:", err)
		os.Exit(1)
	}
}
