package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/fractionaljobs/landing/internal/data/database"
	"github.com/fractionaljobs/landing/internal/domain/compensation"
	"github.com/fractionaljobs/landing/internal/domain/model"
	apperrors "github.com/fractionaljobs/landing/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id             TEXT PRIMARY KEY,
	slug           TEXT NOT NULL UNIQUE,
	title          TEXT NOT NULL DEFAULT '',
	company_name   TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	is_remote      INTEGER NOT NULL DEFAULT 0,
	workplace_type TEXT NOT NULL DEFAULT '',
	compensation   TEXT,
	role_category  TEXT NOT NULL DEFAULT '',
	posted_date    TEXT,
	is_active      INTEGER NOT NULL DEFAULT 1,
	created_at     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_jobs_active_category ON jobs (role_category) WHERE is_active = 1;
CREATE INDEX IF NOT EXISTS idx_jobs_active_posted ON jobs (posted_date DESC) WHERE is_active = 1;
`

// SQLiteListingRepoConfig configures OpenSQLiteListingRepo.
type SQLiteListingRepoConfig struct {
	Path         string
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// SQLiteListingRepo reads listings from a local SQLite file. SQLite has no
// regex functions, so compensation strings are fetched and averaged in Go.
type SQLiteListingRepo struct {
	db           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// OpenSQLiteListingRepo opens (or creates) the database at cfg.Path and
// ensures the jobs table exists.
func OpenSQLiteListingRepo(ctx context.Context, cfg SQLiteListingRepoConfig) (*SQLiteListingRepo, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single writer avoids SQLITE_BUSY during seeding.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create jobs table: %w", err)
	}

	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteListingRepo{db: db, timeProvider: tp, logger: logger}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteListingRepo) Close() error {
	return r.db.Close()
}

// Ping verifies the database is reachable.
func (r *SQLiteListingRepo) Ping(ctx context.Context) error {
	return apperrors.Wrapf(r.db.PingContext(ctx), apperrors.ErrCodeUnavailable, "ping listing store")
}

func (r *SQLiteListingRepo) count(ctx context.Context, query string, args []any) (int, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return int(n), nil
}

// CountActive counts active listings in scope.
func (r *SQLiteListingRepo) CountActive(ctx context.Context, filter model.ListingFilter) (int, error) {
	query, args := countActiveQuery(database.SQLite, filter)
	n, err := r.count(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("count active listings: %w", err)
	}
	return n, nil
}

// CountRemote counts active remote listings in scope.
func (r *SQLiteListingRepo) CountRemote(ctx context.Context, filter model.ListingFilter) (int, error) {
	query, args := countRemoteQuery(database.SQLite, filter)
	n, err := r.count(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("count remote listings: %w", err)
	}
	return n, nil
}

// AverageRate averages the leading numeric compensation value in Go using
// the same pattern the Postgres query applies.
func (r *SQLiteListingRepo) AverageRate(ctx context.Context, filter model.ListingFilter) (float64, bool, error) {
	query, args := compensationQuery(database.SQLite, filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, false, fmt.Errorf("query compensation: %w", err)
	}
	defer rows.Close()

	var sum float64
	var n int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return 0, false, fmt.Errorf("scan compensation: %w", err)
		}
		v, ok := compensation.LeadingRate(raw)
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if err := rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate compensation: %w", err)
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

// ListRecent returns up to limit active listings, newest first with undated rows last.
func (r *SQLiteListingRepo) ListRecent(
	ctx context.Context,
	filter model.ListingFilter,
	limit int,
) ([]model.JobListing, error) {
	out := []model.JobListing{}
	if limit <= 0 {
		return out, nil
	}
	query, args := recentListingsQuery(database.SQLite, filter, limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row    listingRow
			posted sql.NullString
		)
		if err := rows.Scan(
			&row.ID, &row.Slug, &row.Title, &row.CompanyName, &row.Location, &row.IsRemote,
			&row.WorkplaceType, &row.Compensation, &row.RoleCategory, &posted, &row.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if posted.Valid && posted.String != "" {
			t, err := parseDBTime(posted.String)
			if err != nil {
				r.logger.WarnContext(ctx, "unparseable posted_date treated as unknown",
					"listing_id", row.ID, "posted_date", posted.String)
			} else {
				row.PostedDate = &t
			}
		}
		out = append(out, row.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate listings: %w", err)
	}
	return out, nil
}

// ListFeaturedCompanies returns companies ordered by active role count.
func (r *SQLiteListingRepo) ListFeaturedCompanies(
	ctx context.Context,
	filter model.ListingFilter,
	limit int,
) ([]model.FeaturedCompany, error) {
	out := []model.FeaturedCompany{}
	if limit <= 0 {
		return out, nil
	}
	query, args := featuredCompaniesQuery(database.SQLite, filter, limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query featured companies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fc model.FeaturedCompany
		if err := rows.Scan(&fc.Name, &fc.OpenRoles); err != nil {
			return nil, fmt.Errorf("scan featured company: %w", err)
		}
		out = append(out, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate featured companies: %w", err)
	}
	return out, nil
}

const sqliteInsertListing = `
INSERT INTO jobs (
	id, slug, title, company_name, location, is_remote,
	workplace_type, compensation, role_category, posted_date, is_active, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertListings inserts listings in a single transaction. Used by seeding only.
func (r *SQLiteListingRepo) InsertListings(ctx context.Context, listings []model.JobListing) (n int, err error) {
	if len(listings) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
	}()

	stmt, err := tx.PrepareContext(ctx, sqliteInsertListing)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := r.timeProvider.FormatForDB(r.timeProvider.Now())
	for _, l := range listings {
		if l.ID == "" || l.Slug == "" {
			return 0, errors.New("listing id and slug are required")
		}
		var posted any
		if l.PostedDate != nil {
			posted = r.timeProvider.FormatForDB(*l.PostedDate)
		}
		if _, err := stmt.ExecContext(ctx,
			l.ID, l.Slug, l.Title, l.CompanyName, l.Location, l.IsRemote,
			string(l.WorkplaceType), l.Compensation, string(l.RoleCategory), posted, l.IsActive, createdAt,
		); err != nil {
			return 0, fmt.Errorf("insert listing %s: %w", l.Slug, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// DeleteAllListings removes every listing. Used by seeding only.
func (r *SQLiteListingRepo) DeleteAllListings(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, fmt.Errorf("delete listings: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete listings rows affected: %w", err)
	}
	return int(n), nil
}
