package searcher

import (
	"context"
	"errors"
	"fmt"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// defaultSearchContext is a custom search engine parameterized to search
// the whole web.
const defaultSearchContext = "015058622601103575455:cpfpm27mio8"

// googlePageSize is the most results the API hands out per request.
const googlePageSize = 10

// GoogleProvider searches with the Google Custom Search JSON API. Results
// are paged lazily to spare the daily API quota.
type GoogleProvider struct {
	svc *customsearch.Service
	cx  string
}

// NewGoogleProvider creates a provider from an API key. An empty
// searchContext selects the default whole-web engine.
func NewGoogleProvider(ctx context.Context, apiKey, searchContext string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google search: api key is required")
	}
	if searchContext == "" {
		searchContext = defaultSearchContext
	}
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	return &GoogleProvider{svc: svc, cx: searchContext}, nil
}

func (p *GoogleProvider) Search(_ context.Context, query string) Results {
	return &googleResults{svc: p.svc, cx: p.cx, query: query, start: 1, hasNext: true}
}

type googleResults struct {
	svc   *customsearch.Service
	cx    string
	query string

	start   int64
	buf     []string
	hasNext bool
}

func (r *googleResults) Next(ctx context.Context) (string, error) {
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

func (r *googleResults) fetch(ctx context.Context) error {
	resp, err := r.svc.Cse.List().
		Context(ctx).
		Q(r.query).
		Cx(r.cx).
		Start(r.start).
		Num(googlePageSize).
		Fields("items(link)", "queries(nextPage)").
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return fmt.Errorf("google search: %s (code: %d)", gerr.Message, gerr.Code)
		}
		return fmt.Errorf("google search: %w", err)
	}

	if len(resp.Items) == 0 {
		r.hasNext = false
		return nil
	}
	for _, item := range resp.Items {
		r.buf = append(r.buf, item.Link)
	}
	r.start += googlePageSize
	r.hasNext = resp.Queries != nil && len(resp.Queries.NextPage) > 0
	return nil
}
