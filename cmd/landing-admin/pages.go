package main

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fractionaljobs/landing/internal/content"
)

func newPagesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List the landing page catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := content.Default()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if err := writef(tw, "SLUG\tTITLE\tSCOPE\n"); err != nil {
				return err
			}
			for _, p := range catalog.Pages() {
				if err := writef(tw, "/%s\t%s\t%s\n", p.Slug, p.Title, p.Filter.Key()); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}
}
