package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
	"github.com/eringen/folio/views"
)

func newBuildCmd(c *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the static site",
		Long: `The build command loads every post in content/blog, renders the home page,
the post listing, one page per post, the RSS feed and the sitemap, copies the
public directory and writes everything to the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.init(); err != nil {
				return err
			}
			if out != "" {
				c.cfg.Paths.Output = out
			}
			site := c.cfg.siteConfig()
			store := folio.NewFileStore(site.ContentDir)
			store.IncludeDrafts = site.IncludeDrafts

			v, err := views.NewWithLayouts(site, c.cfg.Paths.Layouts)
			if err != nil {
				return err
			}
			b := folio.NewBuilder(site, store, v.Funcs(), folio.WithLogger(c.logger))
			report, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Built %d pages from %d posts in %s\n",
				report.Pages, report.Entries, report.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (overrides paths.output)")
	return cmd
}
