package searcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// StartpageProvider scrapes startpage.com result pages. There is no API
// behind it, so this is only meant for development and small runs.
const startpageURL = "https://www.startpage.com/do/asearch"

const startpageUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_13_3) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/65.0.3325.181 Safari/537.36"

const resultLinkSelector = `a[class$="result-url"]`

// startpageExcludes drops links we know upfront are useless.
var startpageExcludes = []*regexp.Regexp{
	regexp.MustCompile(`www\.youtube\.com`),
	regexp.MustCompile(`\.pdf$`),
	regexp.MustCompile(`\.docx?$`),
}

type StartpageProvider struct {
	client  *http.Client
	baseURL string
}

// NewStartpageProvider creates a provider against startpage.com.
func NewStartpageProvider() *StartpageProvider {
	return &StartpageProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: startpageURL,
	}
}

func (p *StartpageProvider) Search(_ context.Context, query string) Results {
	return &startpageResults{
		client:  p.client,
		baseURL: p.baseURL,
		query:   query,
		hasNext: true,
	}
}

type startpageResults struct {
	client  *http.Client
	baseURL string
	query   string

	page     int
	buf      []string
	hasNext  bool
	nextURL  string
	nextForm url.Values
}

func (r *startpageResults) Next(ctx context.Context) (string, error) {
	for len(r.buf) == 0 {
		if !r.hasNext {
			return "", ErrNoMoreResults
		}
		if err := r.fetch(ctx); err != nil {
			return "", err
		}
	}
	link := r.buf[0]
	r.buf = r.buf[1:]
	return link, nil
}

func (r *startpageResults) fetch(ctx context.Context) error {
	var req *http.Request
	var err error

	if r.page == 0 {
		// first page is a plain GET with the search parameters
		params := url.Values{
			"cat":   {"web"},
			"cmd":   {"process_search"},
			"dgf":   {"1"},
			"hmb":   {"1"},
			"pl":    {""},
			"ff":    {""},
			"query": {r.query},
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	} else {
		// further pages replay the hidden navigation form
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, r.nextURL,
			strings.NewReader(r.nextForm.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return fmt.Errorf("startpage request: %w", err)
	}
	req.Header.Set("User-Agent", startpageUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("startpage fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("startpage fetch: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("startpage parse: %w", err)
	}
	r.page++

	doc.Find(resultLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if ok && linkOK(href) {
			r.buf = append(r.buf, href)
		}
	})

	return r.findNextForm(doc)
}

// findNextForm locates the navigation form pointing at the next page and
// keeps its action and hidden inputs for the following fetch.
func (r *startpageResults) findNextForm(doc *goquery.Document) error {
	pageInput := fmt.Sprintf(`input[name="page"][value="%d"]`, r.page+1)

	var form *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Find(pageInput).Length() > 0 {
			form = sel
			return false
		}
		return true
	})
	if form == nil {
		r.hasNext = false
		return nil
	}

	action, _ := form.Attr("action")
	next, err := resolveURL(r.baseURL, action)
	if err != nil {
		return fmt.Errorf("startpage form action: %w", err)
	}
	r.nextURL = next

	r.nextForm = url.Values{}
	form.Find(`input[type="hidden"]`).Each(func(_ int, sel *goquery.Selection) {
		name, _ := sel.Attr("name")
		value, _ := sel.Attr("value")
		if name != "" {
			r.nextForm.Set(name, value)
		}
	})
	return nil
}

func linkOK(link string) bool {
	for _, re := range startpageExcludes {
		if re.MatchString(link) {
			return false
		}
	}
	return true
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(u).String(), nil
}
