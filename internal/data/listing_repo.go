package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fractionaljobs/landing/internal/data/database"
	"github.com/fractionaljobs/landing/internal/data/pgxutil"
	"github.com/fractionaljobs/landing/internal/domain/model"
	apperrors "github.com/fractionaljobs/landing/internal/errors"
)

// ListingRepo reads listings from PostgreSQL. Aggregates, including the
// compensation parse, run in SQL.
type ListingRepo struct {
	DB *sql.DB
}

// NewListingRepo creates a new ListingRepo.
func NewListingRepo(db *sql.DB) *ListingRepo {
	return &ListingRepo{DB: db}
}

// listingRow mirrors the jobs table with plain scalar types so that unknown
// enum values in the data never fail a scan.
type listingRow struct {
	ID            string     `db:"id"`
	Slug          string     `db:"slug"`
	Title         string     `db:"title"`
	CompanyName   string     `db:"company_name"`
	Location      string     `db:"location"`
	IsRemote      bool       `db:"is_remote"`
	WorkplaceType string     `db:"workplace_type"`
	Compensation  *string    `db:"compensation"`
	RoleCategory  string     `db:"role_category"`
	PostedDate    *time.Time `db:"posted_date"`
	IsActive      bool       `db:"is_active"`
}

func (r listingRow) toModel() model.JobListing {
	return model.JobListing{
		ID:            r.ID,
		Slug:          r.Slug,
		Title:         r.Title,
		CompanyName:   r.CompanyName,
		Location:      r.Location,
		IsRemote:      r.IsRemote,
		WorkplaceType: model.WorkplaceType(r.WorkplaceType),
		Compensation:  r.Compensation,
		RoleCategory:  model.RoleCategory(r.RoleCategory),
		PostedDate:    r.PostedDate,
		IsActive:      r.IsActive,
	}
}

func (r *ListingRepo) count(ctx context.Context, query string, args []any) (int, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return int(n), nil
}

// CountActive counts active listings in scope.
func (r *ListingRepo) CountActive(ctx context.Context, filter model.ListingFilter) (int, error) {
	query, args := countActiveQuery(database.Postgres, filter)
	n, err := r.count(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("count active listings: %w", err)
	}
	return n, nil
}

// CountRemote counts active remote listings in scope.
func (r *ListingRepo) CountRemote(ctx context.Context, filter model.ListingFilter) (int, error) {
	query, args := countRemoteQuery(database.Postgres, filter)
	n, err := r.count(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("count remote listings: %w", err)
	}
	return n, nil
}

// AverageRate averages the leading numeric compensation value in SQL.
// ok is false when AVG returns NULL because no row matched the pattern.
func (r *ListingRepo) AverageRate(ctx context.Context, filter model.ListingFilter) (float64, bool, error) {
	query, args := pgAverageRateQuery(filter)
	var avg sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return 0, false, fmt.Errorf("average listing rate: %w", apperrors.MapDBError(err))
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

// ListRecent returns up to limit active listings, newest first with undated rows last.
func (r *ListingRepo) ListRecent(
	ctx context.Context,
	filter model.ListingFilter,
	limit int,
) ([]model.JobListing, error) {
	if limit <= 0 {
		return []model.JobListing{}, nil
	}
	query, args := recentListingsQuery(database.Postgres, filter, limit)

	var rows []listingRow
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		res, err := conn.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query recent listings: %w", err)
		}
		defer res.Close()

		vals, err := pgx.CollectRows(res, pgx.RowToStructByName[listingRow])
		if err != nil {
			return fmt.Errorf("collect recent listings: %w", err)
		}
		rows = vals
		return nil
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	out := make([]model.JobListing, len(rows))
	for i, row := range rows {
		out[i] = row.toModel()
	}
	return out, nil
}

// ListFeaturedCompanies returns companies ordered by active role count.
func (r *ListingRepo) ListFeaturedCompanies(
	ctx context.Context,
	filter model.ListingFilter,
	limit int,
) ([]model.FeaturedCompany, error) {
	if limit <= 0 {
		return []model.FeaturedCompany{}, nil
	}
	query, args := featuredCompaniesQuery(database.Postgres, filter, limit)

	var out []model.FeaturedCompany
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		res, err := conn.Query(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query featured companies: %w", err)
		}
		defer res.Close()

		vals, err := pgx.CollectRows(res, pgx.RowToStructByName[model.FeaturedCompany])
		if err != nil {
			return fmt.Errorf("collect featured companies: %w", err)
		}
		out = vals
		return nil
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	if out == nil {
		out = []model.FeaturedCompany{}
	}
	return out, nil
}

var copyListingColumns = []string{
	"id", "slug", "title", "company_name", "location", "is_remote",
	"workplace_type", "compensation", "role_category", "posted_date", "is_active",
}

// InsertListings bulk-loads listings with COPY. Used by seeding only.
func (r *ListingRepo) InsertListings(ctx context.Context, listings []model.JobListing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}
	rows := make([][]any, len(listings))
	for i, l := range listings {
		if l.ID == "" || l.Slug == "" {
			return 0, errors.New("listing id and slug are required")
		}
		rows[i] = []any{
			l.ID, l.Slug, l.Title, l.CompanyName, l.Location, l.IsRemote,
			string(l.WorkplaceType), l.Compensation, string(l.RoleCategory), l.PostedDate, l.IsActive,
		}
	}

	var copied int64
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			n, err := tx.CopyFrom(ctx, pgx.Identifier{listingsTable}, copyListingColumns, pgx.CopyFromRows(rows))
			if err != nil {
				return fmt.Errorf("copy listings: %w", err)
			}
			copied = n
			return nil
		},
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return int(copied), nil
}

// DeleteAllListings removes every listing. Used by seeding only.
func (r *ListingRepo) DeleteAllListings(ctx context.Context) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", apperrors.MapDBError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete listings rows affected: %w", err)
	}
	return int(n), nil
}

// Ping verifies the database is reachable.
func (r *ListingRepo) Ping(ctx context.Context) error {
	return apperrors.Wrapf(r.DB.PingContext(ctx), apperrors.ErrCodeUnavailable, "ping listing store")
}
