// Package scraper drives the depth-bounded crawl loop: workers pull pages
// from the queue, run them through the text chain and persist the Swiss
// German yield.
package scraper

import (
	"sync"

	"github.com/swigspot/gswcrawl/internal/crawler"
	"github.com/swigspot/gswcrawl/internal/langid"
	"github.com/swigspot/gswcrawl/internal/seeds"
	"github.com/swigspot/gswcrawl/internal/storage"
)

const defaultMinProba = 0.85

// Normalizer canonicalizes raw page text before splitting.
type Normalizer interface {
	Normalize(text string) string
}

// Splitter cuts normalized text into candidate sentences, in page order.
type Splitter interface {
	Split(text string) []string
}

// SentenceFilter rejects strings that cannot be well-formed sentences.
type SentenceFilter interface {
	IsValid(sentence string) bool
}

// Pipeline holds one instance of every tool the workers need. Pipelines are
// built by the config layer and shared by all workers of a run.
type Pipeline struct {
	Crawler    crawler.Crawler
	Normalizer Normalizer
	Splitter   Splitter
	Filter     SentenceFilter
	Detector   langid.Detector
	Seeder     seeds.Creator
	Decider    Decider
	Store      storage.Store

	// MinProba is the detector probability at or above which a sentence
	// counts as Swiss German.
	MinProba float64
}

// NewPipeline wires the tools together and applies the probability default.
func NewPipeline(
	c crawler.Crawler,
	normalizer Normalizer,
	splitter Splitter,
	filter SentenceFilter,
	detector langid.Detector,
	seeder seeds.Creator,
	decider Decider,
	store storage.Store,
	minProba float64,
) *Pipeline {
	if minProba <= 0 {
		minProba = defaultMinProba
	}
	return &Pipeline{
		Crawler:    c,
		Normalizer: normalizer,
		Splitter:   splitter,
		Filter:     filter,
		Detector:   detector,
		Seeder:     seeder,
		Decider:    decider,
		Store:      store,
		MinProba:   minProba,
	}
}

// accumulator collects the new sentences of a whole run across workers.
type accumulator struct {
	mu        sync.Mutex
	sentences []string
}

func (a *accumulator) extend(sentences []string) {
	if len(sentences) == 0 {
		return
	}
	a.mu.Lock()
	a.sentences = append(a.sentences, sentences...)
	a.mu.Unlock()
}

func (a *accumulator) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.sentences...)
}
