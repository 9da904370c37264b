package data

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fractionaljobs/landing/internal/domain/model"
	apperrors "github.com/fractionaljobs/landing/internal/errors"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func newTestSQLiteRepo(t *testing.T) *SQLiteListingRepo {
	t.Helper()
	repo, err := OpenSQLiteListingRepo(context.Background(), SQLiteListingRepoConfig{
		Path: filepath.Join(t.TempDir(), "jobs.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

type listingOpt func(*model.JobListing)

func withCategory(c model.RoleCategory) listingOpt {
	return func(l *model.JobListing) { l.RoleCategory = c }
}

func withComp(s string) listingOpt {
	return func(l *model.JobListing) { l.Compensation = strPtr(s) }
}

func withRemote(flag bool, wt model.WorkplaceType) listingOpt {
	return func(l *model.JobListing) {
		l.IsRemote = flag
		l.WorkplaceType = wt
	}
}

func withPosted(t time.Time) listingOpt {
	return func(l *model.JobListing) { l.PostedDate = timePtr(t) }
}

func inactive() listingOpt {
	return func(l *model.JobListing) { l.IsActive = false }
}

func listing(id string, opts ...listingOpt) model.JobListing {
	l := model.JobListing{
		ID:            id,
		Slug:          "job-" + id,
		Title:         "Fractional Role " + id,
		CompanyName:   "Acme",
		Location:      "Manchester",
		WorkplaceType: model.WorkplaceOnsite,
		RoleCategory:  model.RoleCategoryExecutive,
		IsActive:      true,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func seed(t *testing.T, repo *SQLiteListingRepo, listings ...model.JobListing) {
	t.Helper()
	n, err := repo.InsertListings(context.Background(), listings)
	require.NoError(t, err)
	require.Equal(t, len(listings), n)
}

func TestSQLiteListingRepo_CountActive(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	seed(t, repo,
		listing("1", withCategory(model.RoleCategoryHR)),
		listing("2", withCategory(model.RoleCategoryHR)),
		listing("3", withCategory(model.RoleCategoryHR), inactive()),
		listing("4", withCategory(model.RoleCategoryFinance)),
		listing("5", withCategory("hr")),
	)

	total, err := repo.CountActive(ctx, model.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total, "inactive rows never count")

	hr, err := repo.CountActive(ctx, model.ForCategory(model.RoleCategoryHR))
	require.NoError(t, err)
	assert.Equal(t, 2, hr, "category match is exact")
}

func TestSQLiteListingRepo_CountRemote_NoDoubleCounting(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	// 12 HR rows: 5 flagged remote, 3 workplace Remote, 2 overlapping.
	var rows []model.JobListing
	for i := range 12 {
		var opt listingOpt
		switch {
		case i < 2:
			opt = withRemote(true, model.WorkplaceRemote)
		case i < 5:
			opt = withRemote(true, model.WorkplaceHybrid)
		case i < 6:
			opt = withRemote(false, model.WorkplaceRemote)
		default:
			opt = withRemote(false, model.WorkplaceOnsite)
		}
		rows = append(rows, listing(fmt.Sprintf("hr-%02d", i), withCategory(model.RoleCategoryHR), opt))
	}
	rows = append(rows, listing("gone", withCategory(model.RoleCategoryHR), withRemote(true, model.WorkplaceRemote), inactive()))
	seed(t, repo, rows...)

	remote, err := repo.CountRemote(ctx, model.ForCategory(model.RoleCategoryHR))
	require.NoError(t, err)
	assert.Equal(t, 6, remote)

	total, err := repo.CountActive(ctx, model.ForCategory(model.RoleCategoryHR))
	require.NoError(t, err)
	assert.Equal(t, 12, total)
}

func TestSQLiteListingRepo_AverageRate(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	seed(t, repo,
		listing("1", withComp("£1,200/day")),
		listing("2", withComp("competitive")),
		listing("3", withComp("£800-£1,000")),
		listing("4"),
		listing("5", withComp("£5,000/day"), inactive()),
		listing("6", withComp("$700"), withCategory(model.RoleCategoryFinance)),
	)

	avg, ok, err := repo.AverageRate(ctx, model.ForCategory(model.RoleCategoryExecutive))
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1000.0, avg, 0.0001)

	_, ok, err = repo.AverageRate(ctx, model.ForCategory(model.RoleCategorySecurity))
	require.NoError(t, err)
	assert.False(t, ok, "no parseable rows is reported, not zero")
}

func TestSQLiteListingRepo_ListRecent(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	seed(t, repo,
		listing("a", withPosted(base)),
		listing("b"),
		listing("c", withPosted(base.Add(48*time.Hour))),
		listing("d", withPosted(base.Add(-72*time.Hour))),
		listing("e", withPosted(base.Add(96*time.Hour)), inactive()),
		listing("f"),
	)

	got, err := repo.ListRecent(ctx, model.ListingFilter{}, 10)
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, l := range got {
		ids[i] = l.ID
	}
	assert.Equal(t, []string{"c", "a", "d", "f", "b"}, ids, "dated rows newest first, undated last")
	require.NotNil(t, got[0].PostedDate)
	assert.True(t, got[0].PostedDate.Equal(base.Add(48*time.Hour)))
	assert.Nil(t, got[4].PostedDate)

	limited, err := repo.ListRecent(ctx, model.ListingFilter{}, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := repo.ListRecent(ctx, model.ListingFilter{}, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteListingRepo_LocationFilter(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	seed(t, repo,
		listing("1", func(l *model.JobListing) { l.Location = "London, UK" }),
		listing("2", func(l *model.JobListing) { l.Location = "Greater LONDON" }),
		listing("3", func(l *model.JobListing) { l.Location = "Leeds" }),
	)

	n, err := repo.CountActive(ctx, model.ListingFilter{Location: "london"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLiteListingRepo_ListFeaturedCompanies(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	company := func(name string) listingOpt {
		return func(l *model.JobListing) { l.CompanyName = name }
	}
	seed(t, repo,
		listing("1", company("Beta")),
		listing("2", company("Beta")),
		listing("3", company("Alpha")),
		listing("4", company("Gamma")),
		listing("5", company("Gamma")),
		listing("6", company("Gamma"), inactive()),
		listing("7", company("")),
	)

	got, err := repo.ListFeaturedCompanies(ctx, model.ListingFilter{}, 10)
	require.NoError(t, err)
	assert.Equal(t, []model.FeaturedCompany{
		{Name: "Beta", OpenRoles: 2},
		{Name: "Gamma", OpenRoles: 2},
		{Name: "Alpha", OpenRoles: 1},
	}, got)
}

func TestSQLiteListingRepo_DeleteAll(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx := context.Background()

	seed(t, repo, listing("1"), listing("2"))

	n, err := repo.DeleteAllListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err := repo.CountActive(ctx, model.ListingFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestSQLiteListingRepo_InsertRequiresIdentity(t *testing.T) {
	repo := newTestSQLiteRepo(t)

	_, err := repo.InsertListings(context.Background(), []model.JobListing{{Title: "no id"}})
	require.Error(t, err)
}

func TestSQLiteListingRepo_CanceledContext(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.CountActive(ctx, model.ListingFilter{})
	require.Error(t, err)
}

func TestSQLiteListingRepo_InsertStampsCreatedAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	repo, err := OpenSQLiteListingRepo(context.Background(), SQLiteListingRepoConfig{
		Path:         filepath.Join(t.TempDir(), "jobs.db"),
		TimeProvider: NewFixedTimeProvider(now),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	seed(t, repo, listing("1", withPosted(now.Add(-48*time.Hour))))

	var createdAt string
	require.NoError(t, repo.db.QueryRowContext(context.Background(),
		`SELECT created_at FROM jobs WHERE id = ?`, "1").Scan(&createdAt))
	got, err := parseDBTime(createdAt)
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	recent, err := repo.ListRecent(context.Background(), model.ListingFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.NotNil(t, recent[0].PostedDate)
	assert.True(t, now.Add(-48*time.Hour).Equal(*recent[0].PostedDate))
}

func TestSQLiteListingRepo_PingAfterCloseIsUnavailable(t *testing.T) {
	repo := newTestSQLiteRepo(t)
	require.NoError(t, repo.Ping(context.Background()))
	require.NoError(t, repo.Close())

	err := repo.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.GetCode(err))
}

func TestSQLiteListingRepo_AverageRateKeepsWideValues(t *testing.T) {
	repo := newTestSQLiteRepo(t)

	seed(t, repo,
		listing("1", withComp("£10000000000000000000")),
		listing("2", withComp("£1,000")),
	)

	avg, ok, err := repo.AverageRate(context.Background(), model.ListingFilter{})
	require.NoError(t, err)
	require.True(t, ok, "a 20-digit rate is averaged, as the NUMERIC cast does")
	assert.InEpsilon(t, 5e18, avg, 1e-9)
}
