package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/swigspot/gswcrawl/internal/crawler"
	"github.com/swigspot/gswcrawl/internal/domain"
	"github.com/swigspot/gswcrawl/internal/logger"
	"github.com/swigspot/gswcrawl/internal/queue"
)

// worker processes queue items until the queue runs dry, an item beyond the
// depth limit comes up, or the context is cancelled. Cancellation is
// observed between items so the current page always lands in the store
// consistently.
type worker struct {
	id       int
	pipeline *Pipeline
	maxDepth int
	acc      *accumulator
	log      logger.Interface
}

func (w *worker) run(ctx context.Context, q *queue.PageQueue) {
	// pages are processed to completion: once dequeued, the whole chain
	// including persistence runs on a context that survives cancellation
	work := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			w.log.Info("worker cancelled", "worker", w.id)
			return
		}

		item, ok := q.TryDequeue()
		if !ok {
			w.log.Debug("queue empty, worker done", "worker", w.id)
			return
		}

		if item.Depth > w.maxDepth {
			w.log.Info("reached max depth",
				"worker", w.id, "depth", item.Depth, "pending", q.Size())
			return
		}

		if !w.pipeline.Decider.ShouldPageBeCrawled(item.Page) {
			w.log.Debug("skipped page", "worker", w.id, "url", item.Page.URL)
			continue
		}

		if err := w.processPage(work, q, item.Page, item.Depth); err != nil {
			w.handleCrawlError(work, item.Page.URL, err)
		}
	}
}

// processPage runs the whole chain on one page: fetch, normalize, split,
// filter, detect, then persist and expand.
func (w *worker) processPage(ctx context.Context, q *queue.PageQueue, page *domain.Page, depth int) error {
	p := w.pipeline

	result, err := p.Crawler.Crawl(ctx, page.URL)
	if err != nil {
		return err
	}

	page.Text = result.Text
	page.Links = result.Links

	candidates := p.Splitter.Split(p.Normalizer.Normalize(page.Text))
	sentences := make([]string, 0, len(candidates))
	for _, s := range candidates {
		if p.Filter.IsValid(s) {
			sentences = append(sentences, s)
		}
	}

	var fresh []string
	probs := p.Detector.Predict(sentences)
	for i, s := range sentences {
		page.SentenceCount++
		if probs[i] < p.MinProba {
			continue
		}
		page.SGCount++

		exists, err := p.Store.SentenceExists(ctx, s)
		if err != nil {
			return fmt.Errorf("check sentence: %w", err)
		}
		if !exists {
			fresh = append(fresh, s)
			page.NewSentences = append(page.NewSentences, domain.Sentence{Text: s, Proba: probs[i]})
		}
	}
	w.acc.extend(fresh)

	if p.Decider.ShouldURLBeBlacklisted(page) {
		w.log.Info("blacklisting page", "worker", w.id, "url", page.URL)
		return p.Store.BlacklistURL(ctx, page.URL, "")
	}

	if err := p.Store.SavePage(ctx, page); err != nil {
		return fmt.Errorf("save page: %w", err)
	}

	if depth < w.maxDepth && p.Decider.ShouldChildrenBeCrawled(page) {
		added, err := w.enqueueChildren(ctx, q, page, depth)
		if err != nil {
			return err
		}
		w.log.Info("added child urls", "worker", w.id, "url", page.URL, "count", added)
	}
	return nil
}

func (w *worker) enqueueChildren(ctx context.Context, q *queue.PageQueue, page *domain.Page, depth int) (int, error) {
	p := w.pipeline

	added := 0
	for _, link := range page.Links {
		blacklisted, err := p.Store.IsURLBlacklisted(ctx, link)
		if err != nil {
			return added, fmt.Errorf("check blacklist: %w", err)
		}
		if blacklisted {
			continue
		}

		child, err := p.Store.GetPage(ctx, link, page.URL)
		if err != nil {
			return added, fmt.Errorf("get child page: %w", err)
		}
		if p.Decider.ShouldPageBeCrawled(child) && q.Enqueue(child, depth+1) {
			added++
		}
	}
	return added, nil
}

// handleCrawlError decides what a failed page costs the URL. Only pages
// that came back unusable (wrong content type, empty document) feed the
// blacklist; transient failures such as DNS, TLS, timeouts or bad encoding
// are logged and the page is skipped, so the URL stays in the corpus.
func (w *worker) handleCrawlError(ctx context.Context, url string, err error) {
	var cerr *crawler.Error
	if !errors.As(err, &cerr) {
		w.log.Error("error processing page", "worker", w.id, "url", url, "error", err)
		return
	}

	switch cerr.Kind {
	case crawler.KindCtype, crawler.KindEmpty:
		w.log.Info("unusable document, blacklisting",
			"worker", w.id, "url", url, "kind", cerr.Kind.String())
		if berr := w.pipeline.Store.BlacklistURL(ctx, url, cerr.Kind.String()); berr != nil {
			w.log.Error("blacklist failed", "worker", w.id, "url", url, "error", berr)
		}
	default:
		w.log.Warn("crawl failed, skipping page",
			"worker", w.id, "url", url, "kind", cerr.Kind.String(), "error", err)
	}
}
