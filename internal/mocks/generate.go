// Package mocks provides gomock implementations of the core ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockListingStore(ctrl)
//	store.EXPECT().CountActive(gomock.Any(), gomock.Any()).Return(12, nil)
package mocks

// ListingStore: CountActive, CountRemote, AverageRate, ListRecent, ListFeaturedCompanies
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=listing_store_mock.go github.com/fractionaljobs/landing/internal/core ListingStore

// CacheRepository: Set, Get, Delete, Health
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/fractionaljobs/landing/internal/core CacheRepository
