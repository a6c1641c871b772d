package ratelimit

import (
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/jonathan/job-matcher/internal/config"
)

// EndpointConfig is the limit for requests matching Path and Method.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends with "/"
	Suffix string        // optional required path suffix
	Method string        // HTTP method
	Limit  int           // requests per Window; zero or less is unlimited
	Window time.Duration // refill window
	Burst  int           // bucket size, defaults to Limit
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL         time.Duration
	Whitelist       IPSet
	Blacklist       IPSet
	EndpointConfigs []EndpointConfig
}

// FromConfig builds the limiter configuration from the rate_limit section.
func FromConfig(c config.RateLimitConfig) *Config {
	return &Config{
		Enabled:         c.Enabled,
		DefaultLimit:    c.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    c.Burst,
		CleanupInterval: c.CleanupInterval,
		IdleTTL:         time.Hour,
		Whitelist:       ParseIPSet(c.Whitelist),
		Blacklist:       ParseIPSet(c.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(c.StrictRequestsPerMinute),
	}
}

// DefaultEndpointConfigs limits matching runs and exports, which call the
// analysis provider or build workbooks, to strictPerMinute.
func DefaultEndpointConfigs(strictPerMinute int) []EndpointConfig {
	burst := max(1, strictPerMinute/5)
	return []EndpointConfig{
		{Path: "/students/", Method: http.MethodPost, Limit: strictPerMinute, Window: time.Minute, Burst: burst},
		{Path: "/students/", Method: http.MethodGet, Suffix: "/export", Limit: strictPerMinute, Window: time.Minute, Burst: burst},
	}
}

// IPSet holds single addresses and CIDR ranges.
type IPSet struct {
	prefixes []netip.Prefix
}

// ParseIPSet accepts addresses ("10.0.0.1") and ranges ("10.0.0.0/8").
// Unparseable entries are skipped.
func ParseIPSet(entries []string) IPSet {
	var set IPSet
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			set.prefixes = append(set.prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			set.prefixes = append(set.prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return set
}

// Contains reports whether the client address is in the set.
func (s IPSet) Contains(clientID string) bool {
	addr, err := netip.ParseAddr(clientID)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
