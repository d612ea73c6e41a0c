// Package config loads the YAML configuration and builds the pipelines from
// it. Tool selection is an explicit registry: every pipeline stage maps a
// tag to a constructor, and unknown tags fail fast listing the known ones.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/swigspot/gswcrawl/internal/crawler"
	"github.com/swigspot/gswcrawl/internal/logger"
)

// Options are the run-level knobs shared by the scraper and the searcher.
type Options struct {
	// NumWorkers is the number of parallel scrape workers.
	NumWorkers int `mapstructure:"num_workers"`
	// MinProba is the detector probability for counting a sentence as GSW.
	MinProba float64 `mapstructure:"min_proba"`
	// CrawlDepth is the inclusive depth limit of a scrape run.
	CrawlDepth int `mapstructure:"crawl_depth"`
	// MaxResults caps the accepted URLs per seed search.
	MaxResults int `mapstructure:"max_results"`
	// MaxFetches caps the raw results pulled per seed, unlimited if not positive.
	MaxFetches int `mapstructure:"max_fetches"`
	// NumSeeds is the default number of seeds to generate.
	NumSeeds int `mapstructure:"num_seeds"`
	// NumSentences is the default sample size for seed generation.
	NumSentences int `mapstructure:"num_sentences"`
}

// PipelineTags selects the scraper tools by tag.
type PipelineTags struct {
	Crawler    string `mapstructure:"crawler"`
	Normalizer string `mapstructure:"normalizer"`
	Splitter   string `mapstructure:"splitter"`
	Filter     string `mapstructure:"filter"`
	Detector   string `mapstructure:"detector"`
	Seeder     string `mapstructure:"seeder"`
	Decider    string `mapstructure:"decider"`
	Store      string `mapstructure:"store"`
}

// SearchTags selects the searcher tools by tag.
type SearchTags struct {
	QueryBuilder string `mapstructure:"query_builder"`
	Provider     string `mapstructure:"provider"`
}

type CrawlerOptions struct {
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Clever            bool          `mapstructure:"clever"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type DeciderOptions struct {
	MinRatio        float64       `mapstructure:"min_ratio"`
	MinRecrawlDelta time.Duration `mapstructure:"min_recrawl_delta"`
	// AbsMinRecrawlDelta is the revisit floor applied even to fruitful URLs.
	AbsMinRecrawlDelta time.Duration `mapstructure:"abs_min_recrawl_delta"`
}

type DetectorOptions struct {
	// ModelPath points to the serialized character n-gram model.
	ModelPath string `mapstructure:"model_path"`
}

type FilterOptions struct {
	// RulesPath overrides the embedded sentence filter rule catalogue.
	RulesPath string `mapstructure:"rules_path"`
}

type SplitterOptions struct {
	// Langs are the nonbreaking prefix languages to load.
	Langs []string `mapstructure:"langs"`
}

type StoreOptions struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
	// SentencesFile is where the console store appends new sentences.
	SentencesFile string `mapstructure:"sentences_file"`
}

type GoogleOptions struct {
	APIKey string `mapstructure:"api_key"`
	// Context is the custom search engine id; empty selects the whole-web one.
	Context string `mapstructure:"context"`
}

type URLFilterOptions struct {
	// WikiSubdomains are the wikipedia subdomains to keep.
	WikiSubdomains []string `mapstructure:"wiki_subdomains"`
}

// Config is the full application configuration.
type Config struct {
	Options      Options          `mapstructure:"options"`
	Pipeline     PipelineTags     `mapstructure:"pipeline"`
	SearchEngine SearchTags       `mapstructure:"search_engine"`
	Crawler      CrawlerOptions   `mapstructure:"crawler_options"`
	Decider      DeciderOptions   `mapstructure:"decider_options"`
	Detector     DetectorOptions  `mapstructure:"detector_options"`
	Filter       FilterOptions    `mapstructure:"filter_options"`
	Splitter     SplitterOptions  `mapstructure:"splitter_options"`
	Store        StoreOptions     `mapstructure:"store_options"`
	Google       GoogleOptions    `mapstructure:"google_options"`
	URLFilter    URLFilterOptions `mapstructure:"urlfilter_options"`
	Logger       logger.Config    `mapstructure:"logger"`

	v *viper.Viper
}

// Load reads the configuration file at path, or just the defaults when path
// is empty.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("gswcrawl")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("options.num_workers", 1)
	v.SetDefault("options.min_proba", 0.85)
	v.SetDefault("options.crawl_depth", 2)
	v.SetDefault("options.max_results", 10)
	v.SetDefault("options.max_fetches", -1)
	v.SetDefault("options.num_seeds", 5)
	v.SetDefault("options.num_sentences", 100)

	v.SetDefault("pipeline.crawler", "http")
	v.SetDefault("pipeline.normalizer", "default")
	v.SetDefault("pipeline.splitter", "mocy")
	v.SetDefault("pipeline.filter", "pattern")
	v.SetDefault("pipeline.detector", "always-gsw")
	v.SetDefault("pipeline.seeder", "basic")
	v.SetDefault("pipeline.decider", "basic")
	v.SetDefault("pipeline.store", "mongo")

	v.SetDefault("search_engine.query_builder", "plain")
	v.SetDefault("search_engine.provider", "google")

	v.SetDefault("crawler_options.timeout", "60s")
	v.SetDefault("decider_options.min_ratio", 0.0)
	v.SetDefault("decider_options.min_recrawl_delta", "168h")
	v.SetDefault("decider_options.abs_min_recrawl_delta", "96h")
	v.SetDefault("splitter_options.langs", []string{"en", "de"})
	v.SetDefault("store_options.uri", "mongodb://localhost:27017")
	v.SetDefault("store_options.database", "gswcrawl")
	v.SetDefault("urlfilter_options.wiki_subdomains", []string{"als"})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
}

// SetDatabase overrides the store database, used by the --db flag.
func (c *Config) SetDatabase(db string) {
	c.Store.Database = db
	c.v.Set("store_options.database", db)
}

// SetLogLevel overrides the logger level, used by the --log-level flag.
func (c *Config) SetLogLevel(level string) {
	c.Logger.Level = level
	c.v.Set("logger.level", level)
}

// Dump renders the active configuration as YAML.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c.v.AllSettings())
	if err != nil {
		return "", fmt.Errorf("dump config: %w", err)
	}
	return string(out), nil
}

// RenderMode reads the RENDER_JS environment variable: off by default, 1
// shares one headless browser between workers, 2 opens a browser tab per
// crawl.
func RenderMode() crawler.RenderMode {
	switch strings.ToLower(os.Getenv("RENDER_JS")) {
	case "1", "true", "yes", "on":
		return crawler.RenderShared
	case "2":
		return crawler.RenderPerCrawl
	default:
		return crawler.RenderOff
	}
}
