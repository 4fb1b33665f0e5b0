// Package metadata suggests a todo title for a link by reading the page.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	infraerrors "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/errors"
	infrahttp "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/http"
	infralogger "github.com/jonesrussell/north-cloud/todo-manager/infrastructure/logger"
)

const defaultHTTPTimeout = 10 * time.Second

// ErrInvalidURL is returned for anything but an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid URL")

// Extractor fetches pages and reads their title.
type Extractor struct {
	logger infralogger.Logger
	client *http.Client
}

// NewExtractor creates an extractor. A zero timeout means 10s.
func NewExtractor(timeout time.Duration, log infralogger.Logger) *Extractor {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Extractor{
		logger: log,
		client: infrahttp.NewClient(&infrahttp.ClientConfig{
			Timeout:   timeout,
			UserAgent: "Mozilla/5.0 (compatible; todoctl/1.0)",
		}),
	}
}

// Title returns the page's og:title, og:site_name or <title>, in that
// order, falling back to the host name.
func (e *Extractor) Title(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return "", fmt.Errorf("fetch %s: %w", rawURL, httpErr)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	title := titleOf(doc, parsed)
	e.logger.Debug("Extracted page title",
		infralogger.String("url", rawURL),
		infralogger.String("title", title),
	)
	return title, nil
}

func titleOf(doc *goquery.Document, parsed *url.URL) string {
	for _, sel := range []string{"meta[property='og:title']", "meta[property='og:site_name']"} {
		if content, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return parsed.Host
}
