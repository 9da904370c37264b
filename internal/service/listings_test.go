package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fractionaljobs/landing/internal/domain/model"
	"github.com/fractionaljobs/landing/internal/mocks"
	"github.com/fractionaljobs/landing/internal/observability/metrics"
	"github.com/fractionaljobs/landing/internal/observability/statsd"
)

func TestNewListingFetchers_RequireStore(t *testing.T) {
	assert.Panics(t, func() { NewRecentListingsFetcher(ListingFetcherOptions{}) })
	assert.Panics(t, func() { NewFeaturedCompaniesFetcher(ListingFetcherOptions{}) })
}

func TestRecentListingsFetcher_GetRecent(t *testing.T) {
	hr := model.ForCategory(model.RoleCategoryHR)
	posted := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	rows := []model.JobListing{
		{ID: "c", PostedDate: &posted},
		{ID: "a"},
	}

	t.Run("passes through store order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		store.EXPECT().ListRecent(gomock.Any(), hr, 6).Return(rows, nil)

		got := NewRecentListingsFetcher(ListingFetcherOptions{Store: store}).GetRecent(context.Background(), hr, 6)
		assert.Equal(t, rows, got)
	})

	t.Run("non-positive limit skips the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		store.EXPECT().ListRecent(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		f := NewRecentListingsFetcher(ListingFetcherOptions{Store: store})
		for _, limit := range []int{0, -5} {
			got := f.GetRecent(context.Background(), hr, limit)
			require.NotNil(t, got)
			assert.Empty(t, got)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		store.EXPECT().ListRecent(gomock.Any(), hr, MaxListingLimit).Return(nil, nil)

		got := NewRecentListingsFetcher(ListingFetcherOptions{Store: store}).GetRecent(context.Background(), hr, 5000)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("store error yields empty list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		store.EXPECT().ListRecent(gomock.Any(), hr, 6).Return(nil, errStore)

		var rec statsd.Recorder
		got := NewRecentListingsFetcher(ListingFetcherOptions{Store: store, Metrics: &rec}).
			GetRecent(context.Background(), hr, 6)
		require.NotNil(t, got)
		assert.Empty(t, got)

		fetches := rec.Named(metrics.MetricListingFetch)
		require.NotEmpty(t, fetches)
		assert.Equal(t, metrics.ResultError, fetches[0].Tags["result"])
		assert.Equal(t, "recent", fetches[0].Tags["kind"])
	})

	t.Run("oversized store answer is trimmed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		store.EXPECT().ListRecent(gomock.Any(), hr, 1).Return(rows, nil)

		got := NewRecentListingsFetcher(ListingFetcherOptions{Store: store}).GetRecent(context.Background(), hr, 1)
		assert.Equal(t, rows[:1], got)
	})
}

func TestFeaturedCompaniesFetcher_GetFeatured(t *testing.T) {
	london := model.ListingFilter{Location: " London "}
	normalized := model.ListingFilter{Location: "London"}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		want := []model.FeaturedCompany{{Name: "Ledger Co", OpenRoles: 3}}
		store.EXPECT().ListFeaturedCompanies(gomock.Any(), normalized, 8).Return(want, nil)

		got := NewFeaturedCompaniesFetcher(ListingFetcherOptions{Store: store}).GetFeatured(context.Background(), london, 8)
		assert.Equal(t, want, got)
	})

	t.Run("error yields empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		store.EXPECT().ListFeaturedCompanies(gomock.Any(), normalized, 8).Return(nil, context.DeadlineExceeded)

		got := NewFeaturedCompaniesFetcher(ListingFetcherOptions{Store: store}).GetFeatured(context.Background(), london, 8)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("zero limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockListingStore(ctrl)
		got := NewFeaturedCompaniesFetcher(ListingFetcherOptions{Store: store}).GetFeatured(context.Background(), london, 0)
		assert.Equal(t, []model.FeaturedCompany{}, got)
	})
}
