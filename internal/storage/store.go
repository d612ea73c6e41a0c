// Package storage persists URLs, sentences, seeds and raw texts. The
// canonical implementation is MongoDB; an in-memory variant backs tests and
// dry runs and a console variant prints findings as they happen.
package storage

import (
	"context"

	"github.com/swigspot/gswcrawl/internal/domain"
)

// LinkStatus is the Searcher fast-path answer for a discovered URL.
type LinkStatus int

const (
	LinkNotExist LinkStatus = iota
	LinkExists
	LinkBlacklisted
)

// Store is the persistence contract shared by the scraper and the searcher.
// Implementations serialize multi-step page writes internally so the
// cross-field counters stay consistent under parallel workers.
type Store interface {
	// GetPage hydrates a Page from persisted URL state, so the decider sees
	// prior counts and dates. Unknown URLs yield a fresh page.
	GetPage(ctx context.Context, url, parentURL string) (*domain.Page, error)

	// SavePage persists the URL entry, appends a crawl history record, saves
	// each new sentence and attaches the raw text blob.
	SavePage(ctx context.Context, page *domain.Page) error

	// SaveURL records a URL discovered but not crawled during this run.
	SaveURL(ctx context.Context, url string, source domain.Source) error

	IsURLBlacklisted(ctx context.Context, url string) (bool, error)

	// BlacklistURL removes any URL entry and inserts a blacklist entry. A
	// non-empty errorMessage records the crawl failure that triggered it.
	BlacklistURL(ctx context.Context, url, errorMessage string) error

	// SentenceExists tests a sentence by content hash.
	SentenceExists(ctx context.Context, sentence string) (bool, error)

	// SaveSeed persists a seed after a search run: its new links become URL
	// entries and the seed's search history grows by one record.
	SaveSeed(ctx context.Context, seed *domain.Seed) error

	// SaveSeeds inserts generated seed queries, skipping existing ones.
	SaveSeeds(ctx context.Context, queries []string, source domain.Source) error

	SeedExists(ctx context.Context, query string) (bool, error)

	LinkExists(ctx context.Context, url string) (LinkStatus, error)

	// URLsToCrawl returns bootstrap URLs: never-crawled ones when onlyNew is
	// set, otherwise least-visited and oldest first.
	URLsToCrawl(ctx context.Context, onlyNew bool, limit int) ([]string, error)

	// SeedsToSearch returns seeds to use: never-used ones when onlyNew is
	// set, otherwise longest-unused first.
	SeedsToSearch(ctx context.Context, onlyNew bool, limit int) ([]*domain.Seed, error)

	// MostRecentSentences returns up to limit sentence texts, newest first.
	// Seed generation samples from them.
	MostRecentSentences(ctx context.Context, limit int) ([]string, error)

	// RandomSentences returns up to limit sentence texts in random order.
	RandomSentences(ctx context.Context, limit int) ([]string, error)
}
