// Package crawler fetches web pages and turns them into clean text plus a
// filtered list of outgoing links.
package crawler

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"

	"github.com/swigspot/gswcrawl/internal/urlutil"
)

// defaultUserAgent mimics a desktop browser; many forums serve a degraded
// page to unknown agents.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10_3) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/44.0.2403.89 Safari/537.36"

const (
	defaultTimeout      = 60 * time.Second
	defaultMaxBodyBytes = 10 * 1024 * 1024 // 10 MB
)

// Result holds what a crawl produced: the page text free of any markup and
// the deduplicated, filtered outgoing links.
type Result struct {
	Text  string
	Links []string
}

// Crawler fetches one page. Implementations must return a classified *Error
// on failure so the worker can decide between blacklisting and retrying.
type Crawler interface {
	Crawl(ctx context.Context, pageURL string) (*Result, error)
}

// Config tunes a crawler instance.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// Clever switches text extraction to the main-content heuristics.
	Clever bool
	// RequestsPerSecond throttles outgoing requests; zero disables the limiter.
	RequestsPerSecond float64
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.UserAgent == "" {
		out.UserAgent = defaultUserAgent
	}
	if out.Timeout <= 0 {
		out.Timeout = defaultTimeout
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = defaultMaxBodyBytes
	}
	return out
}

// HTTPCrawler is the plain HTTP implementation: GET, charset decode, goquery
// extraction. Invalid SSL certificates are accepted, self-signed certs are
// endemic among small Swiss forums.
type HTTPCrawler struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	filter  *urlutil.Filter
}

// NewHTTPCrawler creates a crawler with the given configuration.
func NewHTTPCrawler(cfg Config, filter *urlutil.Filter) *HTTPCrawler {
	cfg = cfg.withDefaults()

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &HTTPCrawler{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		},
		limiter: limiter,
		filter:  filter,
	}
}

// Crawl fetches pageURL and extracts its text and links.
func (c *HTTPCrawler) Crawl(ctx context.Context, pageURL string) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newError(KindNetwork, pageURL, "rate limiter interrupted", err)
		}
	}

	body, ctype, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	text, err := decodeBody(pageURL, body, ctype)
	if err != nil {
		return nil, err
	}

	return parsePage(pageURL, text, c.cfg.Clever, c.filter)
}

// fetch performs the GET and validates status and content type.
func (c *HTTPCrawler) fetch(ctx context.Context, pageURL string) (body []byte, ctype string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, "", newError(KindNetwork, pageURL, "create request", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", newError(KindNetwork, pageURL, "http get", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", newError(KindNetwork, pageURL,
			fmt.Sprintf("http status %d", resp.StatusCode), nil)
	}

	ctype = strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ctype, "html") && !strings.Contains(ctype, "text/plain") {
		return nil, "", newError(KindCtype, pageURL, fmt.Sprintf("not HTML (ctype=%s)", ctype), nil)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBodyBytes))
	if err != nil {
		return nil, "", newError(KindNetwork, pageURL, "read body", err)
	}
	if len(body) == 0 {
		return nil, "", newError(KindEmpty, pageURL, "empty response body", nil)
	}
	return body, ctype, nil
}

// decodeBody converts the raw bytes to a string, honoring the charset
// declared in the Content-Type header when there is one.
func decodeBody(pageURL string, body []byte, ctype string) (string, error) {
	_, params, err := mime.ParseMediaType(ctype)
	if err != nil {
		return string(body), nil
	}

	name, declared := params["charset"]
	if !declared || strings.EqualFold(name, "utf-8") {
		return string(body), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", newError(KindDecode, pageURL, fmt.Sprintf("unknown charset %q", name), err)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", newError(KindDecode, pageURL, fmt.Sprintf("decode %q failed", name), err)
	}
	return string(decoded), nil
}

// parsePage runs the goquery extraction shared by all crawler flavors.
func parsePage(pageURL, html string, clever bool, filter *urlutil.Filter) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(html)))
	if err != nil {
		return nil, newError(KindDecode, pageURL, "parse html", err)
	}

	var text string
	if clever {
		text = extractTextClever(doc)
	} else {
		text = extractText(doc)
	}
	if text == "" {
		return nil, newError(KindEmpty, pageURL, "document has no text", nil)
	}

	return &Result{Text: text, Links: extractLinks(doc, pageURL, filter)}, nil
}
