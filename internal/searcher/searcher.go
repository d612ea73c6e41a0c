// Package searcher turns seed queries into candidate URLs using a search
// provider, keeping only URLs that are new to the store.
package searcher

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/swigspot/gswcrawl/internal/domain"
	"github.com/swigspot/gswcrawl/internal/logger"
	"github.com/swigspot/gswcrawl/internal/storage"
	"github.com/swigspot/gswcrawl/internal/urlutil"
)

const defaultMaxResults = 10

// ErrNoMoreResults signals a cleanly exhausted provider.
var ErrNoMoreResults = errors.New("no more results")

// Results is a lazy stream of raw result URLs for one query. Next returns
// ErrNoMoreResults when the provider is exhausted.
type Results interface {
	Next(ctx context.Context) (string, error)
}

// Provider wraps a search backend. A new Results stream is created per
// query so paging state stays per-seed.
type Provider interface {
	Search(ctx context.Context, query string) Results
}

// QueryBuilder rewrites a seed query into the string actually sent to the
// provider.
type QueryBuilder interface {
	Prepare(query string) string
}

// PlainQueryBuilder sends the query as is.
type PlainQueryBuilder struct{}

func (PlainQueryBuilder) Prepare(query string) string { return query }

// QuoteQueryBuilder wraps the whole query in double quotes, asking for the
// exact phrase.
type QuoteQueryBuilder struct{}

func (QuoteQueryBuilder) Prepare(query string) string {
	return `"` + strings.TrimSpace(query) + `"`
}

var wordSplitRe = regexp.MustCompile(`\s+`)

// QuoteWordsQueryBuilder quotes every word separately, asking for all words
// without fixing their order.
type QuoteWordsQueryBuilder struct{}

func (QuoteWordsQueryBuilder) Prepare(query string) string {
	words := wordSplitRe.Split(strings.TrimSpace(query), -1)
	for i, w := range words {
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " ")
}

// Engine runs seeds against a provider and persists what it finds. Search
// APIs are rate limited and fast, so the loop is single-threaded.
type Engine struct {
	builder    QueryBuilder
	provider   Provider
	store      storage.Store
	maxResults int
	maxFetches int
	log        logger.Interface

	// seen deduplicates URLs across the seeds of one run.
	seen map[string]struct{}
}

// NewEngine creates an engine. maxResults caps accepted URLs per seed
// (default 10); maxFetches caps raw results pulled per seed, unlimited when
// not positive.
func NewEngine(builder QueryBuilder, provider Provider, store storage.Store, maxResults, maxFetches int, log logger.Interface) *Engine {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Engine{
		builder:    builder,
		provider:   provider,
		store:      store,
		maxResults: maxResults,
		maxFetches: maxFetches,
		log:        log,
		seen:       make(map[string]struct{}),
	}
}

// Process searches all seeds in order and returns the total number of new
// URLs. A provider failure on one seed is logged and does not stop the run.
func (e *Engine) Process(ctx context.Context, seeds []*domain.Seed) (int, error) {
	total := 0
	for _, seed := range seeds {
		count, err := e.ProcessOne(ctx, seed)
		total += count
		if err != nil {
			if ctx.Err() != nil {
				return total, err
			}
			e.log.Error("seed search failed", "query", seed.Query, "error", err)
		}
	}
	return total, nil
}

// ProcessOne searches a single seed and saves it together with its new
// links. The seed is saved even when the provider fails halfway, so the
// attempt shows up in its history.
func (e *Engine) ProcessOne(ctx context.Context, seed *domain.Seed) (int, error) {
	query := e.builder.Prepare(seed.Query)
	e.log.Debug("searching", "query", seed.Query, "prepared", query)

	results := e.provider.Search(ctx, query)

	var searchErr error
	accepted, fetched := 0, 0
	for {
		raw, err := results.Next(ctx)
		if errors.Is(err, ErrNoMoreResults) {
			break
		}
		if err != nil {
			searchErr = fmt.Errorf("search %q: %w", seed.Query, err)
			break
		}
		fetched++

		link, ok := urlutil.Fix(raw, "")
		if !ok {
			e.log.Debug("rejected url", "url", raw)
		} else if e.linkKnown(ctx, link) {
			e.log.Debug("duplicate url", "url", link)
		} else {
			e.seen[link] = struct{}{}
			seed.NewLinks = append(seed.NewLinks, link)
			accepted++
			if accepted >= e.maxResults {
				break
			}
		}

		if e.maxFetches > 0 && fetched >= e.maxFetches {
			e.log.Debug("reached max fetches", "query", seed.Query, "fetched", fetched)
			break
		}
	}

	if err := e.store.SaveSeed(ctx, seed); err != nil {
		return accepted, fmt.Errorf("save seed %q: %w", seed.Query, err)
	}
	return accepted, searchErr
}

func (e *Engine) linkKnown(ctx context.Context, link string) bool {
	if _, ok := e.seen[link]; ok {
		return true
	}
	status, err := e.store.LinkExists(ctx, link)
	if err != nil {
		e.log.Error("link lookup failed", "url", link, "error", err)
		return true
	}
	return status != storage.LinkNotExist
}
