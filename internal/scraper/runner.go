package scraper

import (
	"context"
	"fmt"
	"sync"

	"github.com/swigspot/gswcrawl/internal/domain"
	"github.com/swigspot/gswcrawl/internal/logger"
	"github.com/swigspot/gswcrawl/internal/queue"
)

// Runner executes one scrape run: it fans the queue out to workers, waits
// for them, saves the leftover queue for a later run and reports the new
// sentences.
type Runner struct {
	pipeline   *Pipeline
	numWorkers int
	maxDepth   int
	log        logger.Interface
}

// NewRunner creates a runner. Worker count and depth fall back to 1 when
// not positive.
func NewRunner(pipeline *Pipeline, numWorkers, maxDepth int, log logger.Interface) *Runner {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	return &Runner{pipeline: pipeline, numWorkers: numWorkers, maxDepth: maxDepth, log: log}
}

// Enqueue hydrates a bootstrap URL from the store and adds it to the queue
// at depth one.
func (r *Runner) Enqueue(ctx context.Context, q *queue.PageQueue, url string) error {
	page, err := r.pipeline.Store.GetPage(ctx, url, "")
	if err != nil {
		return fmt.Errorf("get page %q: %w", url, err)
	}
	q.Enqueue(page, 1)
	return nil
}

// Run processes the queue until it drains or ctx is cancelled, then saves
// the unprocessed remainder. It returns all new sentences found during the
// run, so the caller can generate fresh seeds from them.
func (r *Runner) Run(ctx context.Context, q *queue.PageQueue) ([]string, error) {
	acc := &accumulator{}

	n := r.numWorkers
	if size := q.Size(); size < n {
		n = size
	}
	r.log.Info("starting scrape run", "workers", n, "queued", q.Size(), "max_depth", r.maxDepth)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		w := &worker{id: i, pipeline: r.pipeline, maxDepth: r.maxDepth, acc: acc, log: r.log}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, q)
		}()
	}
	wg.Wait()

	saved, err := r.saveLeftovers(ctx, q)
	if err != nil {
		return acc.all(), err
	}

	sentences := acc.all()
	r.log.Info("scrape run done", "new_sentences", len(sentences), "saved_for_later", saved)
	return sentences, nil
}

// saveLeftovers persists queued pages that no worker got to, so the next
// run can pick them up. Bootstrap pages have no parent and are already in
// the store. It runs after cancellation, so the store calls get a context
// that is still alive.
func (r *Runner) saveLeftovers(ctx context.Context, q *queue.PageQueue) (int, error) {
	ctx = context.WithoutCancel(ctx)
	saved := 0
	for {
		item, ok := q.TryDequeue()
		if !ok {
			return saved, nil
		}
		if item.Page.ParentURL == "" {
			continue
		}
		source := domain.AutoSource(item.Page.ParentURL)
		if err := r.pipeline.Store.SaveURL(ctx, item.Page.URL, source); err != nil {
			return saved, fmt.Errorf("save leftover url: %w", err)
		}
		saved++
	}
}

// GenerateSeeds turns sentences into search seeds and persists them. With
// dryRun set the seeds are only returned.
func (r *Runner) GenerateSeeds(ctx context.Context, sentences []string, max int, dryRun bool) ([]string, error) {
	generated := r.pipeline.Seeder.Generate(sentences, max, nil)
	r.log.Info("generated seeds", "count", len(generated), "from_sentences", len(sentences))

	if dryRun || len(generated) == 0 {
		return generated, nil
	}
	if err := r.pipeline.Store.SaveSeeds(ctx, generated, domain.AutoSource("")); err != nil {
		return generated, fmt.Errorf("save seeds: %w", err)
	}
	return generated, nil
}
