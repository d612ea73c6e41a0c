package scraper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swigspot/gswcrawl/internal/crawler"
	"github.com/swigspot/gswcrawl/internal/domain"
	"github.com/swigspot/gswcrawl/internal/logger"
	"github.com/swigspot/gswcrawl/internal/queue"
	"github.com/swigspot/gswcrawl/internal/seeds"
	"github.com/swigspot/gswcrawl/internal/storage"
	"github.com/swigspot/gswcrawl/internal/textproc"
)

const (
	sentenceOne   = "Das isch e schöni Gschicht us em Alltag vo de Lüt."
	sentenceTwo   = "Hüt am Morge bin i mit em Velo dur d Stadt gfahre."
	sentenceThree = "Mir sind am Abig no lang am See gsässe und händ gredt."
	sentenceHochd = "Dieser Text ist eindeutig hochdeutsch und gar nicht alemannisch."
)

type fakeCrawler struct {
	pages map[string]*crawler.Result
	errs  map[string]error
}

func (f *fakeCrawler) Crawl(_ context.Context, url string) (*crawler.Result, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if result, ok := f.pages[url]; ok {
		return result, nil
	}
	return nil, &crawler.Error{Kind: crawler.KindNetwork, URL: url, Message: "no such page"}
}

// fakeDetector scores every sentence high except the ones listed as low.
type fakeDetector struct {
	low map[string]bool
}

func (f *fakeDetector) Predict(sentences []string) []float64 {
	probs := make([]float64, len(sentences))
	for i, s := range sentences {
		if f.low[s] {
			probs[i] = 0.1
		} else {
			probs[i] = 0.95
		}
	}
	return probs
}

func newTestPipeline(t *testing.T, c crawler.Crawler, store storage.Store, low map[string]bool) *Pipeline {
	t.Helper()

	splitter, err := textproc.NewMocySplitter()
	require.NoError(t, err)
	filter, err := textproc.NewPatternSentenceFilter()
	require.NoError(t, err)

	return NewPipeline(
		c,
		textproc.NewNormalizer(),
		splitter,
		filter,
		&fakeDetector{low: low},
		seeds.NewBasicSeedCreator(),
		NewBasicDecider(0, 0, 0),
		store,
		0.85,
	)
}

func TestRunCrawlsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	c := &fakeCrawler{pages: map[string]*crawler.Result{
		"http://a.ch/": {
			Text:  sentenceOne + " " + sentenceTwo,
			Links: []string{"http://a.ch/site"},
		},
		"http://a.ch/site": {Text: sentenceThree},
	}}

	r := NewRunner(newTestPipeline(t, c, store, nil), 1, 2, logger.NewNoOp())
	q := queue.New()
	require.NoError(t, r.Enqueue(ctx, q, "http://a.ch/"))

	sentences, err := r.Run(ctx, q)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{sentenceOne, sentenceTwo, sentenceThree}, sentences)

	for _, s := range []string{sentenceOne, sentenceTwo, sentenceThree} {
		exists, err := store.SentenceExists(ctx, s)
		require.NoError(t, err)
		assert.True(t, exists, s)
	}

	page, err := store.GetPage(ctx, "http://a.ch/site", "")
	require.NoError(t, err)
	assert.False(t, page.IsNew(), "child page crawled and persisted")
	assert.Equal(t, 1, page.Meta.Count)

	assert.True(t, q.Empty())
}

func TestRunRespectsMaxDepth(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	c := &fakeCrawler{pages: map[string]*crawler.Result{
		"http://a.ch/": {
			Text:  sentenceOne,
			Links: []string{"http://a.ch/site"},
		},
		"http://a.ch/site": {Text: sentenceThree},
	}}

	r := NewRunner(newTestPipeline(t, c, store, nil), 1, 1, logger.NewNoOp())
	q := queue.New()
	require.NoError(t, r.Enqueue(ctx, q, "http://a.ch/"))

	sentences, err := r.Run(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{sentenceOne}, sentences)

	status, err := store.LinkExists(ctx, "http://a.ch/site")
	require.NoError(t, err)
	assert.Equal(t, storage.LinkNotExist, status, "out-links ignored at max depth")
}

func TestRunSkipsTransientCrawlFailures(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	c := &fakeCrawler{errs: map[string]error{
		"http://flaky.ch/": &crawler.Error{Kind: crawler.KindNetwork, URL: "http://flaky.ch/", Message: "i/o timeout"},
	}}

	r := NewRunner(newTestPipeline(t, c, store, nil), 1, 1, logger.NewNoOp())
	q := queue.New()
	require.NoError(t, r.Enqueue(ctx, q, "http://flaky.ch/"))

	_, err := r.Run(ctx, q)
	require.NoError(t, err)

	blacklisted, err := store.IsURLBlacklisted(ctx, "http://flaky.ch/")
	require.NoError(t, err)
	assert.False(t, blacklisted, "a transient network failure must not blacklist the URL")

	// the visit is not recorded either, so the URL stays eligible
	status, err := store.LinkExists(ctx, "http://flaky.ch/")
	require.NoError(t, err)
	assert.Equal(t, storage.LinkNotExist, status)
}

func TestRunBlacklistsUnusableDocuments(t *testing.T) {
	tests := []struct {
		name string
		kind crawler.ErrorKind
	}{
		{"wrong content type", crawler.KindCtype},
		{"empty document", crawler.KindEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemStore()

			c := &fakeCrawler{errs: map[string]error{
				"http://dead.ch/": &crawler.Error{Kind: tt.kind, URL: "http://dead.ch/", Message: tt.name},
			}}

			r := NewRunner(newTestPipeline(t, c, store, nil), 1, 1, logger.NewNoOp())
			q := queue.New()
			require.NoError(t, r.Enqueue(ctx, q, "http://dead.ch/"))

			_, err := r.Run(ctx, q)
			require.NoError(t, err)

			status, err := store.LinkExists(ctx, "http://dead.ch/")
			require.NoError(t, err)
			assert.Equal(t, storage.LinkBlacklisted, status)
		})
	}
}

func TestRunBlacklistsPagesWithoutSwissGerman(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()

	c := &fakeCrawler{pages: map[string]*crawler.Result{
		"http://hochdeutsch.de/": {Text: sentenceHochd},
	}}
	low := map[string]bool{sentenceHochd: true}

	r := NewRunner(newTestPipeline(t, c, store, low), 1, 1, logger.NewNoOp())
	q := queue.New()
	require.NoError(t, r.Enqueue(ctx, q, "http://hochdeutsch.de/"))

	sentences, err := r.Run(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, sentences)

	blacklisted, err := store.IsURLBlacklisted(ctx, "http://hochdeutsch.de/")
	require.NoError(t, err)
	assert.True(t, blacklisted)
}

func TestRunSavesLeftoversOnCancel(t *testing.T) {
	store := storage.NewMemStore()
	r := NewRunner(newTestPipeline(t, &fakeCrawler{}, store, nil), 1, 1, logger.NewNoOp())

	q := queue.New()
	q.Enqueue(domain.NewPage("http://a.ch/", ""), 1)
	q.Enqueue(domain.NewPage("http://a.ch/site", "http://a.ch/"), 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sentences, err := r.Run(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, sentences)

	// the discovered child is kept for a later run, the bootstrap URL is not
	status, err := store.LinkExists(context.Background(), "http://a.ch/site")
	require.NoError(t, err)
	assert.Equal(t, storage.LinkExists, status)

	status, err = store.LinkExists(context.Background(), "http://a.ch/")
	require.NoError(t, err)
	assert.Equal(t, storage.LinkNotExist, status)
}

// ctxCheckedStore refuses writes on a dead context, the way a real database
// driver does.
type ctxCheckedStore struct {
	storage.Store
}

func (s *ctxCheckedStore) SavePage(ctx context.Context, page *domain.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.SavePage(ctx, page)
}

func (s *ctxCheckedStore) SaveURL(ctx context.Context, url string, source domain.Source) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.SaveURL(ctx, url, source)
}

// cancellingCrawler fires the cancel while a fetch is in flight.
type cancellingCrawler struct {
	crawler.Crawler
	cancel context.CancelFunc
}

func (c *cancellingCrawler) Crawl(ctx context.Context, url string) (*crawler.Result, error) {
	c.cancel()
	return c.Crawler.Crawl(ctx, url)
}

func TestRunFinishesCurrentPageOnCancel(t *testing.T) {
	mem := storage.NewMemStore()
	store := &ctxCheckedStore{Store: mem}

	inner := &fakeCrawler{pages: map[string]*crawler.Result{
		"http://a.ch/": {
			Text:  sentenceOne,
			Links: []string{"http://a.ch/site"},
		},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &cancellingCrawler{Crawler: inner, cancel: cancel}

	r := NewRunner(newTestPipeline(t, c, store, nil), 1, 2, logger.NewNoOp())
	q := queue.New()
	require.NoError(t, r.Enqueue(ctx, q, "http://a.ch/"))

	sentences, err := r.Run(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []string{sentenceOne}, sentences)

	// the page in flight when the cancel arrived is still fully persisted
	page, err := mem.GetPage(context.Background(), "http://a.ch/", "")
	require.NoError(t, err)
	assert.False(t, page.IsNew())

	// and its out-link landed in the leftover save for the next run
	status, err := mem.LinkExists(context.Background(), "http://a.ch/site")
	require.NoError(t, err)
	assert.Equal(t, storage.LinkExists, status)
}

func TestGenerateSeeds(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	r := NewRunner(newTestPipeline(t, &fakeCrawler{}, store, nil), 1, 1, logger.NewNoOp())

	sentences := []string{
		"ich bin so froh derbii",
		"ich bin so müed hüt",
	}

	generated, err := r.GenerateSeeds(ctx, sentences, 2, true)
	require.NoError(t, err)
	require.NotEmpty(t, generated)

	exists, err := store.SeedExists(ctx, generated[0])
	require.NoError(t, err)
	assert.False(t, exists, "dry run must not persist")

	_, err = r.GenerateSeeds(ctx, sentences, 2, false)
	require.NoError(t, err)

	exists, err = store.SeedExists(ctx, generated[0])
	require.NoError(t, err)
	assert.True(t, exists)
}
