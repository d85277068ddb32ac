package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// cli carries state shared by subcommands.
type cli struct {
	cfgFile string
	verbose bool
	cfg     *fileConfig
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - a blog engine for Markdown and MDX content",
		Long: `folio turns a directory of Markdown/MDX posts with front matter into a blog.

Usage examples:
  folio new myblog        # scaffold a new site
  folio build             # write the static site to ./dist
  folio serve             # serve the site and reload on content changes`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newBuildCmd(c),
		newServeCmd(c),
		newNewCmd(),
		newVersionCmd(),
	)
	return root
}

// init loads configuration and the logger for commands that need them.
func (c *cli) init() error {
	cfg, err := loadConfig(c.cfgFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	level := cfg.Logging.Level
	if c.verbose {
		level = "debug"
	}
	c.logger = folio.NewLogger(os.Stderr, cfg.Logging.Format, level)
	slog.SetDefault(c.logger)
	c.logger.Debug("configuration loaded",
		"content", cfg.Paths.Content,
		"output", cfg.Paths.Output,
		"base_path", cfg.Site.BasePath,
	)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
		},
	}
}
