package main

import (
	"context"
	"encoding/json"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fractionaljobs/landing/internal/bootstrap"
	"github.com/fractionaljobs/landing/internal/domain/recency"
	"github.com/fractionaljobs/landing/internal/service"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the stats summary for a scope as JSON",
		Args:  cobra.NoArgs,
	}
	category, location := filterFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		filter, err := buildFilter(*category, *location)
		if err != nil {
			return err
		}
		return a.withStore(cmd, true, func(ctx context.Context, store bootstrap.ListingBackend) error {
			agg := service.NewStatsAggregator(service.StatsAggregatorOptions{
				Store:  store,
				Logger: a.logger,
				Config: service.StatsAggregatorConfig{QueryTimeout: a.cfg.Stats.QueryTimeout},
			})
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(agg.GetStats(ctx, filter))
		})
	}
	return cmd
}

func newRecentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Print the most recent active listings for a scope",
		Args:  cobra.NoArgs,
	}
	category, location := filterFlags(cmd)
	limit := cmd.Flags().Int("limit", 10, "maximum listings to print")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		filter, err := buildFilter(*category, *location)
		if err != nil {
			return err
		}
		return a.withStore(cmd, true, func(ctx context.Context, store bootstrap.ListingBackend) error {
			fetcher := service.NewRecentListingsFetcher(service.ListingFetcherOptions{Store: store, Logger: a.logger})
			listings := fetcher.GetRecent(ctx, filter, *limit)

			now := time.Now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if err := writef(tw, "DAYS\tBADGE\tTITLE\tCOMPANY\tLOCATION\tCOMPENSATION\n"); err != nil {
				return err
			}
			for _, l := range listings {
				c := recency.Classify(l.PostedDate, now)
				days := "-"
				if c.DaysSince != nil {
					days = strconv.Itoa(*c.DaysSince)
				}
				comp := ""
				if l.Compensation != nil {
					comp = *l.Compensation
				}
				if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", days, c.Badge, l.Title, l.CompanyName, l.Location, comp); err != nil {
					return err
				}
			}
			return tw.Flush()
		})
	}
	return cmd
}
