package httpx

import (
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fractionaljobs/landing/internal/domain/model"
	"github.com/fractionaljobs/landing/internal/mocks"
)

func countingPage(calls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Path == "/api/stats" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"total":1}`)
			return
		}
		if r.URL.Path == "/degraded" {
			w.Header().Set(statsSourceHeader, string(model.StatsSourcePartial))
		} else {
			w.Header().Set(statsSourceHeader, string(model.StatsSourceLive))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, "<h1>"+r.URL.Path+"</h1>")
	})
}

func TestPageCache_MissThenHit(t *testing.T) {
	cache := newMemCache()
	var calls atomic.Int32
	h := PageCache(PageCacheConfig{Cache: cache, TTL: time.Hour})(countingPage(&calls))

	first := serve(t, h, "/cfo")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(cacheStatusHeader))
	assert.Equal(t, "public, s-maxage=3600", first.Header().Get("Cache-Control"))
	assert.Equal(t, "<h1>/cfo</h1>", first.Body.String())

	second := serve(t, h, "/cfo")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get(cacheStatusHeader))
	assert.Equal(t, "public, s-maxage=3600", second.Header().Get("Cache-Control"))
	assert.Equal(t, "text/html; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>/cfo</h1>", second.Body.String())

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, cache.sets)
}

func TestPageCache_SkipsAPIAndErrors(t *testing.T) {
	cache := newMemCache()
	var calls atomic.Int32
	h := PageCache(PageCacheConfig{Cache: cache, TTL: time.Minute})(countingPage(&calls))

	for range 2 {
		rec := serve(t, h, "/api/stats")
		assert.Empty(t, rec.Header().Get(cacheStatusHeader))
		assert.Empty(t, rec.Header().Get("Cache-Control"))

		rec = serve(t, h, "/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Header().Get(cacheStatusHeader))
	}
	assert.Equal(t, int32(4), calls.Load())
	assert.Zero(t, cache.sets)
}

func TestPageCache_SkipsPagesWithSubstitutedStats(t *testing.T) {
	cache := newMemCache()
	var calls atomic.Int32
	h := PageCache(PageCacheConfig{Cache: cache, TTL: time.Hour})(countingPage(&calls))

	for range 2 {
		rec := serve(t, h, "/degraded")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "BYPASS", rec.Header().Get(cacheStatusHeader))
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "<h1>/degraded</h1>", rec.Body.String())
	}
	assert.Equal(t, int32(2), calls.Load())
	assert.Zero(t, cache.sets)
}

func TestPageCache_Disabled(t *testing.T) {
	var calls atomic.Int32
	next := countingPage(&calls)

	h := PageCache(PageCacheConfig{TTL: time.Hour})(next)
	rec := serve(t, h, "/cfo")
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	h = PageCache(PageCacheConfig{Cache: newMemCache()})(next)
	rec = serve(t, h, "/cfo")
	assert.Empty(t, rec.Header().Get(cacheStatusHeader))
	assert.Equal(t, int32(2), calls.Load())
}

func TestPageCache_CacheErrorsPassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().Get(gomock.Any(), "page:/hr").Return(nil, assert.AnError)
	cache.EXPECT().Set(gomock.Any(), "page:/hr", gomock.Any(), 30*time.Second).Return(assert.AnError)

	var calls atomic.Int32
	h := PageCache(PageCacheConfig{Cache: cache, TTL: 30 * time.Second})(countingPage(&calls))

	rec := serve(t, h, "/hr")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get(cacheStatusHeader))
	assert.Equal(t, "<h1>/hr</h1>", rec.Body.String())
}
