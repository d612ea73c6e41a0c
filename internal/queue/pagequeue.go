// Package queue implements the in-memory work queue feeding the scraper
// workers. Enqueues are idempotent at URL level for the duration of a run.
package queue

import (
	"context"
	"strings"
	"sync"

	"github.com/swigspot/gswcrawl/internal/domain"
)

// excludedSuffixes is a cheap last-line filter for obviously binary URLs.
// The real filtering happens in urlutil before URLs ever get here.
var excludedSuffixes = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "pdf": {},
}

// Item is a unit of work: a page and its link distance from the bootstrap URL.
type Item struct {
	Page  *domain.Page
	Depth int
}

// PageQueue is a thread-safe FIFO of work items with in-run URL
// deduplication. It is unbounded; the depth limit and the seen-set provide
// the termination guarantee.
type PageQueue struct {
	mu    sync.Mutex
	items []Item
	seen  map[string]struct{}
	wake  chan struct{}
}

// New creates an empty queue.
func New() *PageQueue {
	return &PageQueue{
		seen: make(map[string]struct{}),
		wake: make(chan struct{}),
	}
}

// Enqueue adds a work item unless its URL was already enqueued during this
// run or carries a binary extension. Reports whether the item was added.
func (q *PageQueue) Enqueue(page *domain.Page, depth int) bool {
	if !shouldBeAdded(page.URL) {
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, dup := q.seen[page.URL]; dup {
		return false
	}
	q.seen[page.URL] = struct{}{}
	q.items = append(q.items, Item{Page: page, Depth: depth})

	// wake every blocked Dequeue
	close(q.wake)
	q.wake = make(chan struct{})
	return true
}

// Dequeue removes and returns the oldest work item, blocking until one is
// available or ctx is done.
func (q *PageQueue) Dequeue(ctx context.Context) (Item, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, nil
		}
		wake := q.wake
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return Item{}, ctx.Err()
		case <-wake:
		}
	}
}

// TryDequeue removes and returns the oldest work item without blocking.
func (q *PageQueue) TryDequeue() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Item{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Size returns the number of pending work items.
func (q *PageQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the queue has no pending work items.
func (q *PageQueue) Empty() bool {
	return q.Size() == 0
}

func shouldBeAdded(url string) bool {
	i := strings.LastIndex(url, ".")
	if i < 0 {
		return true
	}
	_, bad := excludedSuffixes[strings.ToLower(url[i+1:])]
	return !bad
}
