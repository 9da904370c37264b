// Package devseed fills a listing store with realistic demo listings for
// local development and demos.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/fractionaljobs/landing/internal/core"
	"github.com/fractionaljobs/landing/internal/domain/model"
)

// DefaultCount is the number of listings seeded when Options.Count is unset.
const DefaultCount = 60

// listingNamespace makes seeded ids stable across runs.
var listingNamespace = uuid.MustParse("6f1c2b7e-3d4a-4c1e-9a51-0d8f2f6b7c10")

// Options controls what Run inserts.
type Options struct {
	Count int
	// Reset deletes every existing listing first.
	Reset bool
	// Now anchors posted dates; zero means time.Now.
	Now time.Time
	// Seed makes the generated set reproducible.
	Seed uint64
}

// Result reports what Run changed.
type Result struct {
	Deleted  int
	Inserted int
}

type roleTemplate struct {
	category model.RoleCategory
	titles   []string
	rates    []string
}

var roles = []roleTemplate{
	{model.RoleCategoryExecutive, []string{"Fractional CEO", "Interim Managing Director", "Portfolio CEO"},
		[]string{"£1,500/day", "£1,200 - £1,600 per day", "$1,800/day", "Competitive"}},
	{model.RoleCategoryFinance, []string{"Fractional CFO", "Part-time Finance Director", "Interim CFO"},
		[]string{"£1,100/day", "£900-£1,200", "£1,000 per day", "DOE"}},
	{model.RoleCategoryHR, []string{"Fractional CHRO", "Part-time HR Director", "Fractional People Partner"},
		[]string{"£850/day", "£700 - £900/day", "€950/day", "Negotiable"}},
	{model.RoleCategorySecurity, []string{"Fractional CISO", "Virtual CISO", "Interim Head of Security"},
		[]string{"£1,250/day", "£1,100-£1,400", "$1,500/day", "Day rate TBC"}},
	{model.RoleCategoryOperations, []string{"Fractional COO", "Interim Operations Director", "Part-time COO"},
		[]string{"£1,050/day", "£950 - £1,150", "£1,000/day", "Competitive"}},
	{model.RoleCategoryTechnology, []string{"Fractional CTO", "Interim CTO"},
		[]string{"£1,300/day", "£1,200-£1,500"}},
	{model.RoleCategoryMarketing, []string{"Fractional CMO", "Part-time Marketing Director"},
		[]string{"£900/day", "£800 - £1,000"}},
}

var (
	companies = []string{
		"Ledger & Co", "Northwind Health", "Abacus Analytics", "Brightpath Retail", "Cobalt Security",
		"Harbour Logistics", "Kestrel Labs", "Mosaic Media", "Oakridge Capital", "Tidewater Energy",
	}
	locations = []string{"London", "Manchester", "Bristol", "Leeds", "Edinburgh", "Birmingham", "Remote (UK)", "Greater London"}
)

// Listings generates n demo listings. The output depends only on opts.
func Listings(opts Options) []model.JobListing {
	n := opts.Count
	if n <= 0 {
		n = DefaultCount
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	out := make([]model.JobListing, 0, n)
	for i := range n {
		role := roles[i%len(roles)]
		id := uuid.NewSHA1(listingNamespace, fmt.Appendf(nil, "%d-%d", opts.Seed, i)).String()
		l := model.JobListing{
			ID:           id,
			Slug:         fmt.Sprintf("%s-%s", slugify(role.titles[0]), id[:8]),
			Title:        role.titles[rng.IntN(len(role.titles))],
			CompanyName:  companies[rng.IntN(len(companies))],
			Location:     locations[rng.IntN(len(locations))],
			RoleCategory: role.category,
			// roughly one in twelve has been filled
			IsActive: rng.IntN(12) != 0,
		}

		switch rng.IntN(4) {
		case 0:
			l.WorkplaceType = model.WorkplaceRemote
		case 1:
			l.WorkplaceType = model.WorkplaceHybrid
			l.IsRemote = rng.IntN(3) == 0
		default:
			l.WorkplaceType = model.WorkplaceOnsite
		}

		if rng.IntN(6) != 0 {
			comp := role.rates[rng.IntN(len(role.rates))]
			l.Compensation = &comp
		}
		if rng.IntN(8) != 0 {
			posted := now.Add(-time.Duration(rng.IntN(30*24)) * time.Hour)
			l.PostedDate = &posted
		}
		out = append(out, l)
	}
	return out
}

// Run optionally clears the store, then inserts generated listings.
func Run(ctx context.Context, store core.ListingWriter, opts Options, logger *slog.Logger) (Result, error) {
	if store == nil {
		return Result{}, errors.New("devseed: store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var res Result
	if opts.Reset {
		n, err := store.DeleteAllListings(ctx)
		if err != nil {
			return res, fmt.Errorf("reset listings: %w", err)
		}
		res.Deleted = n
		logger.InfoContext(ctx, "deleted existing listings", "count", n)
	}

	n, err := store.InsertListings(ctx, Listings(opts))
	if err != nil {
		return res, fmt.Errorf("insert listings: %w", err)
	}
	res.Inserted = n
	logger.InfoContext(ctx, "seeded demo listings", "count", n)
	return res, nil
}

func slugify(s string) string {
	b := make([]byte, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b = append(b, byte(r))
			dash = false
		case r >= 'A' && r <= 'Z':
			b = append(b, byte(r-'A'+'a'))
			dash = false
		default:
			if !dash && len(b) > 0 {
				b = append(b, '-')
				dash = true
			}
		}
	}
	if dash {
		b = b[:len(b)-1]
	}
	return string(b)
}
