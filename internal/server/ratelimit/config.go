package ratelimit

import (
	"strings"
	"time"

	"github.com/ritikiit/careergps1/internal/config"
)

// Rule limits one route. Paths ending in "/" match as prefixes.
type Rule struct {
	Path   string
	Method string
	Limit  int // requests per window
	Window time.Duration
	Burst  int // bucket capacity; Limit when 0
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	Rules           []Rule
}

// FromSettings converts the application rate limit settings into a limiter Config.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       ipSet(s.Whitelist),
		Blacklist:       ipSet(s.Blacklist),
		Rules:           ReportRules(s.ReportLimit, s.ReportWindow, s.ReportBurst),
	}
}

// ReportRules returns the rules for routes that call the model. Export shares
// the limit because each PDF launches a browser.
func ReportRules(limit int, window time.Duration, burst int) []Rule {
	return []Rule{
		{Path: "/report", Method: "POST", Limit: limit, Window: window, Burst: burst},
		{Path: "/api/report", Method: "POST", Limit: limit, Window: window, Burst: burst},
		{Path: "/report/pdf", Method: "GET", Limit: limit, Window: window, Burst: burst},
		{Path: "/api/report/pdf", Method: "POST", Limit: limit, Window: window, Burst: burst},
	}
}

func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		// Values from env arrive as one comma-separated string.
		for _, part := range strings.Split(ip, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result[part] = true
			}
		}
	}
	return result
}
