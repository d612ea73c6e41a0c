package config

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/swigspot/gswcrawl/internal/crawler"
	"github.com/swigspot/gswcrawl/internal/langid"
	"github.com/swigspot/gswcrawl/internal/logger"
	"github.com/swigspot/gswcrawl/internal/scraper"
	"github.com/swigspot/gswcrawl/internal/searcher"
	"github.com/swigspot/gswcrawl/internal/seeds"
	"github.com/swigspot/gswcrawl/internal/storage"
	"github.com/swigspot/gswcrawl/internal/textproc"
	"github.com/swigspot/gswcrawl/internal/urlutil"
)

// pick resolves a tool tag against a stage registry, failing with the list
// of known tags so typos surface immediately.
func pick[T any](stage, tag string, registry map[string]func() (T, error)) (T, error) {
	if build, ok := registry[tag]; ok {
		return build()
	}

	var zero T
	tags := make([]string, 0, len(registry))
	for t := range registry {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return zero, fmt.Errorf("%s: unknown tool %q (available: %s)", stage, tag, strings.Join(tags, ", "))
}

// BuildURLFilter builds the shared URL filter with the configured wikipedia
// allowlist.
func (c *Config) BuildURLFilter() *urlutil.Filter {
	return urlutil.New(c.URLFilter.WikiSubdomains...)
}

// BuildStore instantiates the configured store backend.
func (c *Config) BuildStore(ctx context.Context, log logger.Interface) (storage.Store, error) {
	return pick("store", c.Pipeline.Store, map[string]func() (storage.Store, error){
		"mongo": func() (storage.Store, error) {
			return storage.NewMongoStore(ctx, storage.MongoConfig{
				URI:      c.Store.URI,
				Database: c.Store.Database,
			}, log)
		},
		"console": func() (storage.Store, error) {
			return storage.NewConsoleStore(log, c.Store.SentencesFile)
		},
		"memory": func() (storage.Store, error) {
			return storage.NewMemStore(), nil
		},
	})
}

func (c *Config) buildCrawler(filter *urlutil.Filter) (crawler.Crawler, error) {
	cfg := crawler.Config{
		UserAgent:         c.Crawler.UserAgent,
		Timeout:           c.Crawler.Timeout,
		Clever:            c.Crawler.Clever,
		RequestsPerSecond: c.Crawler.RequestsPerSecond,
	}

	return pick("crawler", c.Pipeline.Crawler, map[string]func() (crawler.Crawler, error){
		"http": func() (crawler.Crawler, error) {
			if mode := RenderMode(); mode != crawler.RenderOff {
				return crawler.NewRenderCrawler(cfg, mode, filter), nil
			}
			return crawler.NewHTTPCrawler(cfg, filter), nil
		},
		"render": func() (crawler.Crawler, error) {
			mode := RenderMode()
			if mode == crawler.RenderOff {
				mode = crawler.RenderShared
			}
			return crawler.NewRenderCrawler(cfg, mode, filter), nil
		},
	})
}

func (c *Config) buildDetector() (langid.Detector, error) {
	return pick("detector", c.Pipeline.Detector, map[string]func() (langid.Detector, error){
		"ngram": func() (langid.Detector, error) {
			return langid.LoadNgramModel(c.Detector.ModelPath)
		},
		"always-gsw": func() (langid.Detector, error) {
			return langid.AlwaysGSW{}, nil
		},
	})
}

func (c *Config) buildFilter() (scraper.SentenceFilter, error) {
	return pick("filter", c.Pipeline.Filter, map[string]func() (scraper.SentenceFilter, error){
		"pattern": func() (scraper.SentenceFilter, error) {
			if c.Filter.RulesPath == "" {
				return textproc.NewPatternSentenceFilter()
			}
			data, err := os.ReadFile(c.Filter.RulesPath)
			if err != nil {
				return nil, fmt.Errorf("read filter rules: %w", err)
			}
			return textproc.NewPatternSentenceFilterFromYAML(data)
		},
	})
}

func (c *Config) buildSeeder() (seeds.Creator, error) {
	return pick("seeder", c.Pipeline.Seeder, map[string]func() (seeds.Creator, error){
		"basic": func() (seeds.Creator, error) { return seeds.NewBasicSeedCreator(), nil },
		"idf":   func() (seeds.Creator, error) { return seeds.NewIdfSeedCreator(), nil },
	})
}

func (c *Config) buildDecider() (scraper.Decider, error) {
	opts := c.Decider
	return pick("decider", c.Pipeline.Decider, map[string]func() (scraper.Decider, error){
		"basic": func() (scraper.Decider, error) {
			return scraper.NewBasicDecider(opts.MinRatio, opts.MinRecrawlDelta, opts.AbsMinRecrawlDelta), nil
		},
		"only-new": func() (scraper.Decider, error) {
			return scraper.NewOnlyNewDecider(opts.MinRatio), nil
		},
		"one-new": func() (scraper.Decider, error) {
			return scraper.NewOneNewDecider(opts.MinRatio, opts.MinRecrawlDelta, opts.AbsMinRecrawlDelta), nil
		},
	})
}

// BuildScrapePipeline instantiates all scraper tools per the pipeline tags.
func (c *Config) BuildScrapePipeline(ctx context.Context, log logger.Interface) (*scraper.Pipeline, error) {
	filter := c.BuildURLFilter()

	crawl, err := c.buildCrawler(filter)
	if err != nil {
		return nil, err
	}

	normalizer, err := pick("normalizer", c.Pipeline.Normalizer, map[string]func() (scraper.Normalizer, error){
		"default": func() (scraper.Normalizer, error) { return textproc.NewNormalizer(), nil },
	})
	if err != nil {
		return nil, err
	}

	splitter, err := pick("splitter", c.Pipeline.Splitter, map[string]func() (scraper.Splitter, error){
		"mocy": func() (scraper.Splitter, error) {
			return textproc.NewMocySplitter(c.Splitter.Langs...)
		},
	})
	if err != nil {
		return nil, err
	}

	sentenceFilter, err := c.buildFilter()
	if err != nil {
		return nil, err
	}
	detector, err := c.buildDetector()
	if err != nil {
		return nil, err
	}
	seeder, err := c.buildSeeder()
	if err != nil {
		return nil, err
	}
	decider, err := c.buildDecider()
	if err != nil {
		return nil, err
	}
	store, err := c.BuildStore(ctx, log)
	if err != nil {
		return nil, err
	}

	return scraper.NewPipeline(
		crawl, normalizer, splitter, sentenceFilter, detector,
		seeder, decider, store, c.Options.MinProba,
	), nil
}

// BuildSearchEngine instantiates the searcher against an existing store.
func (c *Config) BuildSearchEngine(ctx context.Context, store storage.Store, log logger.Interface) (*searcher.Engine, error) {
	builder, err := pick("query_builder", c.SearchEngine.QueryBuilder, map[string]func() (searcher.QueryBuilder, error){
		"plain":       func() (searcher.QueryBuilder, error) { return searcher.PlainQueryBuilder{}, nil },
		"quote":       func() (searcher.QueryBuilder, error) { return searcher.QuoteQueryBuilder{}, nil },
		"quote-words": func() (searcher.QueryBuilder, error) { return searcher.QuoteWordsQueryBuilder{}, nil },
	})
	if err != nil {
		return nil, err
	}

	provider, err := pick("provider", c.SearchEngine.Provider, map[string]func() (searcher.Provider, error){
		"google": func() (searcher.Provider, error) {
			return searcher.NewGoogleProvider(ctx, c.Google.APIKey, c.Google.Context)
		},
		"startpage": func() (searcher.Provider, error) {
			return searcher.NewStartpageProvider(), nil
		},
	})
	if err != nil {
		return nil, err
	}

	return searcher.NewEngine(builder, provider, store, c.Options.MaxResults, c.Options.MaxFetches, log), nil
}
