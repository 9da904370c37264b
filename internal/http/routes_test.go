package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/fractionaljobs/landing/internal/domain/model"
)

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewRouter_RequiresServices(t *testing.T) {
	_, err := NewRouter(RouterServices{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	_, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	rec := serve(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(t, h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIStats(t *testing.T) {
	ts, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	rec := serve(t, h, "/api/stats?category=Finance&location=%20London%20")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":24,"avgRate":1100,"remoteCount":10,"source":"fallback"}`, rec.Body.String())

	require.Len(t, ts.stats.filters, 1)
	got := ts.stats.filters[0]
	require.NotNil(t, got.Category)
	assert.Equal(t, model.RoleCategoryFinance, *got.Category)
	assert.Equal(t, "London", got.Location)
}

func TestAPIStats_InvalidCategory(t *testing.T) {
	ts, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	for _, cat := range []string{"finance", "CTO"} {
		rec := serve(t, h, "/api/stats?category="+cat)
		assert.Equal(t, http.StatusBadRequest, rec.Code, cat)
		assert.Contains(t, rec.Body.String(), "invalid_category")
	}
	assert.Empty(t, ts.stats.filters)
}

func TestAPIRecent(t *testing.T) {
	ts, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	rec := serve(t, h, "/api/jobs/recent?category=Finance&limit=3")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Listings []struct {
			ID        string `json:"id"`
			DaysSince *int   `json:"days_since"`
			Badge     string `json:"badge"`
		} `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Listings, 3)

	require.NotNil(t, body.Listings[0].DaysSince)
	assert.Equal(t, 2, *body.Listings[0].DaysSince)
	assert.Equal(t, "New", body.Listings[0].Badge)
	assert.Equal(t, 10, *body.Listings[1].DaysSince)
	assert.Empty(t, body.Listings[1].Badge)
	assert.Nil(t, body.Listings[2].DaysSince)

	assert.Equal(t, []int{3}, ts.recent.limits)

	rec = serve(t, h, "/api/jobs/recent?limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIRecent_DefaultLimit(t *testing.T) {
	ts, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	serve(t, h, "/api/jobs/recent")
	assert.Equal(t, []int{6}, ts.recent.limits)
}

func TestAPIFeatured(t *testing.T) {
	_, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	rec := serve(t, h, "/api/companies/featured?category=HR")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"companies":[{"name":"Abacus","open_roles":2}]}`, rec.Body.String())
}

func TestLandingPage(t *testing.T) {
	ts, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	rec := serve(t, h, "/cfo")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	assert.Equal(t, "fallback", rec.Header().Get(statsSourceHeader))

	doc, err := html.Parse(rec.Body)
	require.NoError(t, err)

	title := findAll(doc, "title", "")
	require.Len(t, title, 1)
	assert.Equal(t, "Fractional CFO Jobs", textOf(title[0]))

	stats := findAll(doc, "section", "stats")
	require.Len(t, stats, 1)
	assert.Contains(t, textOf(stats[0]), "£1,100/day")
	assert.Contains(t, textOf(stats[0]), "24")

	listings := findAll(doc, "li", "listing")
	require.Len(t, listings, 3)
	assert.Equal(t, "a", attr(listings[0], "data-id"))
	assert.Len(t, findAll(listings[0], "span", "badge"), 1)
	assert.Contains(t, textOf(listings[0]), "Posted 2 days ago")
	assert.Empty(t, findAll(listings[1], "span", "badge"))
	assert.NotContains(t, textOf(listings[2]), "Posted")

	assert.Len(t, findAll(doc, "li", "company"), 1)

	require.Len(t, ts.stats.filters, 1)
	assert.Equal(t, model.RoleCategoryFinance, *ts.stats.filters[0].Category)
}

func TestLandingPage_EmptyListings(t *testing.T) {
	ts, svcs := newTestRouter(t)
	ts.recent.listings = []model.JobListing{}
	ts.featured.companies = []model.FeaturedCompany{}
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	rec := serve(t, h, "/london")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := html.Parse(rec.Body)
	require.NoError(t, err)
	assert.Len(t, findAll(doc, "p", "empty"), 1)
	assert.Empty(t, findAll(doc, "section", "featured"))
	assert.Equal(t, "London", ts.stats.filters[0].Location)
}

func TestLandingPage_NotFoundAndIndex(t *testing.T) {
	_, svcs := newTestRouter(t)
	h, err := NewRouter(svcs)
	require.NoError(t, err)

	rec := serve(t, h, "/cto")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := html.Parse(rec.Body)
	require.NoError(t, err)
	assert.Len(t, findAll(doc, "a", ""), 8)
}
