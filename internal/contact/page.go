package contact

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36",
}

// fetchPage retrieves one page through the shared limiter. The rate-limit
// target is the host so probes against the same site stay paced. Non-200
// responses are an error; every tier treats any error as "this page has
// nothing for us".
func (f *Finder) fetchPage(ctx context.Context, rawURL string) (string, error) {
	target := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		target = u.Host
	}
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, target); err != nil {
			return "", err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgents[rand.IntN(len(userAgents))])

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// visibleText strips markup so name extraction does not match tag soup.
// On unparseable input the raw text is returned as-is.
func visibleText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return doc.Text()
}
