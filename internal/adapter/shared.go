package adapter

import (
	"context"
	"fmt"
	"html"
	"io"
	"math/rand/v2"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// Waiter gates outbound requests to a target. Satisfied by
// *ratelimit.JitterLimiter; a nil Waiter means no delay (tests).
type Waiter interface {
	Wait(ctx context.Context, target string) error
}

// Browser-ish user agents, rotated per request. Some boards reject
// default Go user agents outright.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
}

func randomUserAgent() string {
	return userAgents[rand.IntN(len(userAgents))]
}

// fetchBytes performs one rate-limited GET and returns the response body.
// Non-200 statuses become *model.HTTPError so retry and circuit-break
// logic can inspect the code and Retry-After.
func fetchBytes(ctx context.Context, client *http.Client, limiter Waiter, source, url string) ([]byte, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx, source); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: %w", source, err)
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("%s fetch: unexpected status %d", source, resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s fetch: reading body: %w", source, err)
	}
	return body, nil
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text:
// unescape entities, strip tags, collapse whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, "")
	return strings.Join(strings.Fields(plain), " ")
}

// matchesAnyToken reports whether any keyword token (two chars or longer)
// appears in text. Used for lenient client-side filtering on sources that
// don't support server-side search.
func matchesAnyToken(keywords []string, text string) bool {
	textLower := strings.ToLower(text)
	for _, keyword := range keywords {
		for _, token := range strings.Fields(strings.ToLower(keyword)) {
			if len(token) < 2 {
				continue
			}
			if strings.Contains(textLower, token) {
				return true
			}
		}
	}
	return false
}
