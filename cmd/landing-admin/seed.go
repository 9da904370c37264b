package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/fractionaljobs/landing/internal/bootstrap"
	"github.com/fractionaljobs/landing/internal/devseed"
)

func newSeedCmd(a *app) *cobra.Command {
	var opts devseed.Options
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd, false, func(ctx context.Context, store bootstrap.ListingBackend) error {
				res, err := devseed.Run(ctx, store, opts, a.logger)
				if err != nil {
					return err
				}
				if err := writef(cmd.OutOrStdout(), "deleted %d, inserted %d listings\n", res.Deleted, res.Inserted); err != nil {
					return err
				}
				return a.invalidateCache(ctx, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().IntVar(&opts.Count, "count", devseed.DefaultCount, "number of listings to insert")
	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "delete all listings first")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed; the same seed yields the same listings")
	return cmd
}
