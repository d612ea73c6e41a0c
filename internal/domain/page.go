// Package domain provides the in-run models shared by the scraper and
// searcher pipelines.
package domain

import (
	"time"
)

// Sentence is a Swiss-German sentence discovered on a page, together with the
// detector probability that earned it a spot.
type Sentence struct {
	Text  string  `json:"text"`
	Proba float64 `json:"proba"`
}

// CrawlMeta is the persisted crawl state of a URL, hydrated by the store so
// the decider can reason about prior visits. A zero LastCrawl means the URL
// has never been crawled.
type CrawlMeta struct {
	// Count is the total number of new sentences over all crawls.
	Count int `json:"count"`
	// Delta is the new-sentence count of the most recent crawl.
	Delta int `json:"delta"`
	// LastCrawl is the date of the most recent crawl.
	LastCrawl time.Time `json:"last_crawl"`
}

// Page represents a URL during a crawl run. It is owned by the worker that
// processes it and discarded after persistence.
type Page struct {
	// URL is the normalized page URL.
	URL string `json:"url"`
	// ParentURL is the URL this page was linked from, empty for bootstrap URLs.
	ParentURL string `json:"parent_url,omitempty"`
	// Meta holds the persisted crawl state, zero-valued for new URLs.
	Meta CrawlMeta `json:"meta"`

	// Fields below are populated during the crawl.

	// Text is the raw page text extracted by the crawler.
	Text string `json:"-"`
	// Links are the filtered out-links extracted from the page.
	Links []string `json:"-"`
	// SentenceCount is the number of well-formed sentences on the page.
	SentenceCount int `json:"sentence_count"`
	// SGCount is the number of sentences at or above the probability threshold.
	SGCount int `json:"sg_count"`
	// NewSentences are the Swiss-German sentences not yet in the store.
	NewSentences []Sentence `json:"new_sentences,omitempty"`
}

// NewPage creates a page with no persisted state.
func NewPage(url, parentURL string) *Page {
	return &Page{URL: url, ParentURL: parentURL}
}

// IsNew reports whether the URL has never been crawled.
func (p *Page) IsNew() bool {
	return p.Meta.LastCrawl.IsZero()
}

// NewCount is the number of new Swiss-German sentences found on this crawl.
func (p *Page) NewCount() int {
	return len(p.NewSentences)
}
