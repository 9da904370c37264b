package httpx

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/fractionaljobs/landing/internal/content"
	"github.com/fractionaljobs/landing/internal/domain/model"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type fakeStats struct {
	mu      sync.Mutex
	filters []model.ListingFilter
	summary model.StatsSummary
}

func (f *fakeStats) GetStats(_ context.Context, filter model.ListingFilter) model.StatsSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	return f.summary
}

type fakeRecent struct {
	mu       sync.Mutex
	limits   []int
	listings []model.JobListing
}

func (f *fakeRecent) GetRecent(_ context.Context, _ model.ListingFilter, limit int) []model.JobListing {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	return f.listings
}

type fakeFeatured struct {
	companies []model.FeaturedCompany
}

func (f *fakeFeatured) GetFeatured(context.Context, model.ListingFilter, int) []model.FeaturedCompany {
	return f.companies
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	delete(c.data, key)
	return ok, nil
}

func (c *memCache) Health(context.Context) error { return nil }

type testServices struct {
	stats    *fakeStats
	recent   *fakeRecent
	featured *fakeFeatured
}

func newTestRouter(t *testing.T) (*testServices, RouterServices) {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)

	posted := testNow.Add(-50 * time.Hour)
	old := testNow.Add(-10 * 24 * time.Hour)
	comp := "£1,200/day"
	ts := &testServices{
		stats: &fakeStats{summary: model.StatsSummary{Total: 24, AvgRate: 1100, RemoteCount: 10, Source: model.StatsSourceFallback}},
		recent: &fakeRecent{listings: []model.JobListing{
			{ID: "a", Slug: "cfo-a", Title: "Fractional CFO", CompanyName: "Ledger Co", PostedDate: &posted, Compensation: &comp},
			{ID: "b", Slug: "cfo-b", Title: "Part-time FD", CompanyName: "Abacus", PostedDate: &old},
			{ID: "c", Slug: "cfo-c", Title: "Interim CFO", CompanyName: "Abacus"},
		}},
		featured: &fakeFeatured{companies: []model.FeaturedCompany{{Name: "Abacus", OpenRoles: 2}}},
	}
	return ts, RouterServices{
		Stats:    ts.stats,
		Recent:   ts.recent,
		Featured: ts.featured,
		Catalog:  catalog,
		Limits:   Limits{Recent: 6, Featured: 8},
		Now:      func() time.Time { return testNow },
	}
}

// findAll returns every element node matching tag with the given class.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && hasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, class string) bool {
	if class == "" {
		return true
	}
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(" "+a.Val+" ", " "+class+" ") {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
