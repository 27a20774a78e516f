// Package company resolves a company name to its canonical website domain
// via an autocomplete-style company directory. Resolution is best effort:
// any failure yields an empty domain, never an error.
package company

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/ratelimit"
)

const defaultBaseURL = "https://autocomplete.clearbit.com"

// Job boards and recruiting platforms are never a company's own domain.
// A lookup landing on one of these is treated as a miss.
var boardDomains = map[string]bool{
	"remoteok.com":       true,
	"arbeitnow.com":      true,
	"remotive.com":       true,
	"weworkremotely.com": true,
	"linkedin.com":       true,
	"indeed.com":         true,
	"lever.co":           true,
	"greenhouse.io":      true,
}

type suggestion struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Resolver looks up company domains against a suggest endpoint.
type Resolver struct {
	baseURL   string
	client    *http.Client
	limiter   *ratelimit.JitterLimiter
	blocklist map[string]bool
	logger    *slog.Logger
}

// NewResolver creates a resolver against baseURL (empty selects the default
// directory). extraBlocked domains from configuration are rejected in
// addition to the built-in job-board list.
func NewResolver(baseURL string, client *http.Client, limiter *ratelimit.JitterLimiter, extraBlocked []string, logger *slog.Logger) *Resolver {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	blocklist := make(map[string]bool, len(boardDomains)+len(extraBlocked))
	for d := range boardDomains {
		blocklist[d] = true
	}
	for _, d := range extraBlocked {
		blocklist[strings.ToLower(strings.TrimSpace(d))] = true
	}
	return &Resolver{
		baseURL:   baseURL,
		client:    client,
		limiter:   limiter,
		blocklist: blocklist,
		logger:    logger,
	}
}

// Resolve returns the company's website domain, or "" when it cannot be
// determined. An empty result is a normal outcome.
func (r *Resolver) Resolve(ctx context.Context, companyName string) string {
	name := strings.TrimSpace(companyName)
	if name == "" {
		return ""
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, "company-directory"); err != nil {
			return ""
		}
	}

	endpoint := fmt.Sprintf("%s/v1/companies/suggest?query=%s", r.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ""
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("domain lookup failed", "company", name, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug("domain lookup non-200", "company", name, "status", resp.StatusCode)
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	var suggestions []suggestion
	if err := json.Unmarshal(body, &suggestions); err != nil {
		r.logger.Debug("domain lookup malformed response", "company", name, "error", err)
		return ""
	}
	if len(suggestions) == 0 {
		return ""
	}

	domain := strings.ToLower(strings.TrimSpace(suggestions[0].Domain))
	domain = strings.TrimPrefix(domain, "www.")
	if domain == "" || r.blocklist[domain] {
		return ""
	}
	return domain
}
