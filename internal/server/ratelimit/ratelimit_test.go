package ratelimit

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/job-matcher/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *time.Time) {
	t.Helper()
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("127.0.0.1", "/matches/x", http.MethodGet)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("127.0.0.1", "/matches/x", http.MethodGet)
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 12*time.Second, info.RetryAfter, float64(time.Millisecond))
}

func TestLimiter_Refill(t *testing.T) {
	l, now := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute, DefaultBurst: 1})

	allowed, _ := l.Allow("10.0.0.1", "/matches/x", http.MethodGet)
	require.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/matches/x", http.MethodGet)
	require.False(t, allowed)

	*now = now.Add(time.Second)
	allowed, _ = l.Allow("10.0.0.1", "/matches/x", http.MethodGet)
	assert.True(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("10.0.0.1", "/matches/x", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.2", "/matches/x", http.MethodGet)
	assert.True(t, allowed)
	allowed, _ = l.Allow("10.0.0.1", "/matches/x", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_StrictEndpoints(t *testing.T) {
	cfg := FromConfig(config.RateLimitConfig{
		Enabled:                 true,
		RequestsPerMinute:       100,
		StrictRequestsPerMinute: 2,
		Burst:                   100,
	})
	l, _ := newTestLimiter(t, cfg)

	path := "/students/7c0e/matches"
	allowed, info := l.Allow("10.0.0.1", path, http.MethodPost)
	require.True(t, allowed)
	assert.Equal(t, 2, info.Limit)

	allowed, _ = l.Allow("10.0.0.1", path, http.MethodPost)
	assert.False(t, allowed, "strict burst is at least one")

	// listing stays on the default rule
	allowed, info = l.Allow("10.0.0.1", path, http.MethodGet)
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)

	_, info = l.Allow("10.0.0.1", path+"/export", http.MethodGet)
	assert.Equal(t, 2, info.Limit)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/health", http.MethodGet)
		assert.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/matches/x", http.MethodGet)
		assert.True(t, allowed)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     ParseIPSet([]string{"10.0.0.0/8"}),
		Blacklist:     ParseIPSet([]string{"192.168.1.5"}),
	})

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("10.1.2.3", "/matches/x", http.MethodGet)
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("192.168.1.5", "/matches/x", http.MethodGet)
	assert.False(t, allowed)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	l, now := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})

	l.Allow("10.0.0.1", "/matches/x", http.MethodGet)
	*now = now.Add(2 * time.Minute)
	l.Allow("10.0.0.2", "/matches/x", http.MethodGet)

	l.cleanupBuckets()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("10.0.0.1", "/matches/x", http.MethodGet); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestLimiter_StopIdempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Stop()
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/students/", Method: http.MethodPost, Limit: 1},
		{Path: "/students/", Method: http.MethodGet, Suffix: "/export", Limit: 2},
		{Path: "/exact", Method: http.MethodGet, Limit: 3},
	}

	tests := []struct {
		path, method string
		want         int
	}{
		{"/students/a/matches", http.MethodPost, 1},
		{"/students/a/matches/export", http.MethodGet, 2},
		{"/students/a/matches", http.MethodGet, -1},
		{"/exact", http.MethodGet, 3},
		{"/exact/more", http.MethodGet, -1},
		{"/health", http.MethodGet, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want < 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}

func TestParseIPSet(t *testing.T) {
	set := ParseIPSet([]string{" 10.0.0.1 ", "172.16.0.0/12", "bogus", "", "::1"})

	assert.True(t, set.Contains("10.0.0.1"))
	assert.False(t, set.Contains("10.0.0.2"))
	assert.True(t, set.Contains("172.20.1.1"))
	assert.True(t, set.Contains("::1"))
	assert.True(t, set.Contains("::ffff:10.0.0.1"))
	assert.False(t, set.Contains("not-an-ip"))
}
