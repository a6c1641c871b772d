package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for the health probe.
var unlimited = &EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil when the
// default limit applies. Exact paths win over prefixes.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == http.MethodGet {
		return unlimited
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Path == path && c.matchesSuffix(path) {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) && c.matchesSuffix(path) {
			return c
		}
	}
	return nil
}

func (c *EndpointConfig) matchesSuffix(path string) bool {
	return c.Suffix == "" || strings.HasSuffix(path, c.Suffix)
}
