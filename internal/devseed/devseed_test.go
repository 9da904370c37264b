package devseed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

type fakeWriter struct {
	existing int
	inserted []model.JobListing
	resets   int
}

func (f *fakeWriter) InsertListings(_ context.Context, listings []model.JobListing) (int, error) {
	f.inserted = append(f.inserted, listings...)
	return len(listings), nil
}

func (f *fakeWriter) DeleteAllListings(context.Context) (int, error) {
	f.resets++
	n := f.existing
	f.existing = 0
	return n, nil
}

func TestListings_Deterministic(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	a := Listings(Options{Count: 25, Seed: 7, Now: now})
	b := Listings(Options{Count: 25, Seed: 7, Now: now})
	require.Len(t, a, 25)
	assert.Equal(t, a, b)

	c := Listings(Options{Count: 25, Seed: 8, Now: now})
	assert.NotEqual(t, a[0].ID, c[0].ID)
}

func TestListings_Shape(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	listings := Listings(Options{Seed: 1, Now: now})
	require.Len(t, listings, DefaultCount)

	ids := map[string]bool{}
	slugs := map[string]bool{}
	categories := map[model.RoleCategory]int{}
	for _, l := range listings {
		assert.False(t, ids[l.ID], "duplicate id")
		assert.False(t, slugs[l.Slug], "duplicate slug")
		ids[l.ID], slugs[l.Slug] = true, true
		assert.True(t, l.RoleCategory.Valid())
		categories[l.RoleCategory]++
		if l.PostedDate != nil {
			assert.False(t, l.PostedDate.After(now))
		}
	}
	assert.Len(t, categories, len(roles))
}

func TestRun(t *testing.T) {
	w := &fakeWriter{existing: 4}
	res, err := Run(context.Background(), w, Options{Count: 5, Reset: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Deleted: 4, Inserted: 5}, res)
	assert.Equal(t, 1, w.resets)

	res, err = Run(context.Background(), w, Options{Count: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 3}, res)
	assert.Equal(t, 1, w.resets)

	_, err = Run(context.Background(), nil, Options{}, nil)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "fractional-ceo", slugify("Fractional CEO"))
	assert.Equal(t, "part-time-hr-director", slugify("Part-time HR Director!"))
}
