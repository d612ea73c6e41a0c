package crawler

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/swigspot/gswcrawl/internal/urlutil"
)

// RenderMode selects how JavaScript rendering is performed. It maps to the
// RENDER_JS environment variable: 0 disables rendering, 1 shares a single
// browser between workers, 2 gives every crawl its own tab.
type RenderMode int

const (
	RenderOff RenderMode = iota
	RenderShared
	RenderPerCrawl
)

// RenderCrawler fetches pages through headless Chrome so that
// JavaScript-built pages expose their text and links. In shared mode a
// single browser tab is serialized with a mutex; per-crawl mode trades
// memory for parallelism.
type RenderCrawler struct {
	cfg    Config
	mode   RenderMode
	filter *urlutil.Filter

	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewRenderCrawler starts a Chrome allocator in the given mode. Callers own
// the returned crawler and must Close it.
func NewRenderCrawler(cfg Config, mode RenderMode, filter *urlutil.Filter) *RenderCrawler {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	rc := &RenderCrawler{
		cfg:         cfg,
		mode:        mode,
		filter:      filter,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}
	if mode == RenderShared {
		rc.browserCtx, rc.browserCancel = chromedp.NewContext(allocCtx)
	}
	return rc
}

// Close shuts the browser and the allocator down.
func (r *RenderCrawler) Close() {
	if r.browserCancel != nil {
		r.browserCancel()
	}
	r.allocCancel()
}

// Crawl renders pageURL and extracts its text and links.
func (r *RenderCrawler) Crawl(ctx context.Context, pageURL string) (*Result, error) {
	html, err := r.render(ctx, pageURL)
	if err != nil {
		return nil, newError(KindNetwork, pageURL, "render", err)
	}
	if html == "" {
		return nil, newError(KindEmpty, pageURL, "rendered document is empty", nil)
	}
	return parsePage(pageURL, html, r.cfg.Clever, r.filter)
}

func (r *RenderCrawler) render(parent context.Context, pageURL string) (string, error) {
	var tab context.Context
	if r.mode == RenderShared {
		r.mu.Lock()
		defer r.mu.Unlock()
		tab = r.browserCtx
	} else {
		var cancel context.CancelFunc
		tab, cancel = chromedp.NewContext(r.allocCtx)
		defer cancel()
	}

	runCtx, cancel := context.WithTimeout(tab, r.cfg.Timeout)
	defer cancel()

	// honor caller cancellation without tying the browser to its context
	stop := context.AfterFunc(parent, cancel)
	defer stop()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	return html, err
}
