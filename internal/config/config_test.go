package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swigspot/gswcrawl/internal/crawler"
	"github.com/swigspot/gswcrawl/internal/logger"
)

const sampleConfig = `
options:
  num_workers: 4
  min_proba: 0.9
  crawl_depth: 3
pipeline:
  detector: always-gsw
  store: memory
search_engine:
  query_builder: quote
  provider: startpage
decider_options:
  min_ratio: 1.5
  min_recrawl_delta: 96h
  abs_min_recrawl_delta: 48h
store_options:
  database: gsw_test
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Options.NumWorkers)
	assert.InDelta(t, 0.85, cfg.Options.MinProba, 1e-9)
	assert.Equal(t, 2, cfg.Options.CrawlDepth)
	assert.Equal(t, 10, cfg.Options.MaxResults)
	assert.Equal(t, "http", cfg.Pipeline.Crawler)
	assert.Equal(t, "mongo", cfg.Pipeline.Store)
	assert.Equal(t, "google", cfg.SearchEngine.Provider)
	assert.Equal(t, 7*24*time.Hour, cfg.Decider.MinRecrawlDelta)
	assert.Equal(t, 4*24*time.Hour, cfg.Decider.AbsMinRecrawlDelta)
	assert.Equal(t, []string{"als"}, cfg.URLFilter.WikiSubdomains)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Options.NumWorkers)
	assert.InDelta(t, 0.9, cfg.Options.MinProba, 1e-9)
	assert.Equal(t, 3, cfg.Options.CrawlDepth)
	assert.Equal(t, "memory", cfg.Pipeline.Store)
	assert.Equal(t, "quote", cfg.SearchEngine.QueryBuilder)
	assert.Equal(t, "startpage", cfg.SearchEngine.Provider)
	assert.InDelta(t, 1.5, cfg.Decider.MinRatio, 1e-9)
	assert.Equal(t, 4*24*time.Hour, cfg.Decider.MinRecrawlDelta)
	assert.Equal(t, 2*24*time.Hour, cfg.Decider.AbsMinRecrawlDelta)
	assert.Equal(t, "gsw_test", cfg.Store.Database)

	// unset keys keep their defaults
	assert.Equal(t, "mocy", cfg.Pipeline.Splitter)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestBuildScrapePipeline(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	pipeline, err := cfg.BuildScrapePipeline(context.Background(), logger.NewNoOp())
	require.NoError(t, err)
	assert.NotNil(t, pipeline.Crawler)
	assert.NotNil(t, pipeline.Store)
	assert.InDelta(t, 0.9, pipeline.MinProba, 1e-9)
}

func TestBuildSearchEngine(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	store, err := cfg.BuildStore(context.Background(), logger.NewNoOp())
	require.NoError(t, err)

	engine, err := cfg.BuildSearchEngine(context.Background(), store, logger.NewNoOp())
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestUnknownToolTagFailsFast(t *testing.T) {
	cfg, err := Load(writeConfig(t, "pipeline:\n  store: cassandra\n"))
	require.NoError(t, err)

	_, err = cfg.BuildStore(context.Background(), logger.NewNoOp())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tool "cassandra"`)
	assert.Contains(t, err.Error(), "console, memory, mongo")
}

func TestGoogleProviderRequiresKey(t *testing.T) {
	cfg, err := Load(writeConfig(t, "pipeline:\n  store: memory\n"))
	require.NoError(t, err)

	store, err := cfg.BuildStore(context.Background(), logger.NewNoOp())
	require.NoError(t, err)

	_, err = cfg.BuildSearchEngine(context.Background(), store, logger.NewNoOp())
	assert.ErrorContains(t, err, "api key")
}

func TestDump(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	out, err := cfg.Dump()
	require.NoError(t, err)
	assert.Contains(t, out, "num_workers: 4")
	assert.Contains(t, out, "store: memory")
}

func TestRenderMode(t *testing.T) {
	tests := []struct {
		value string
		want  crawler.RenderMode
	}{
		{"", crawler.RenderOff},
		{"0", crawler.RenderOff},
		{"false", crawler.RenderOff},
		{"1", crawler.RenderShared},
		{"true", crawler.RenderShared},
		{"2", crawler.RenderPerCrawl},
	}
	for _, tt := range tests {
		t.Setenv("RENDER_JS", tt.value)
		assert.Equal(t, tt.want, RenderMode(), "RENDER_JS=%q", tt.value)
	}
}
