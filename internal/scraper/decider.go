package scraper

import (
	"time"

	"github.com/swigspot/gswcrawl/internal/domain"
)

const (
	defaultAbsMinRecrawlDelta = 4 * 24 * time.Hour
	defaultMinRecrawlDelta    = 7 * 24 * time.Hour
)

// Decider is the crawl policy. Implementations are stateless and see only
// the page in front of them.
type Decider interface {
	// ShouldPageBeCrawled gates the fetch of a page.
	ShouldPageBeCrawled(page *domain.Page) bool
	// ShouldChildrenBeCrawled gates the enqueueing of a page's out-links.
	ShouldChildrenBeCrawled(page *domain.Page) bool
	// ShouldURLBeBlacklisted marks a page as not worth keeping.
	ShouldURLBeBlacklisted(page *domain.Page) bool
}

// BasicDecider crawls pages that are new, yielded new sentences on the last
// visit and are older than the absolute floor, or have not been visited for
// MinRecrawlDelta. Pages with no Swiss German on the first visit get
// blacklisted.
type BasicDecider struct {
	// MinRatio is the minimum sentence_count / sg_count for descending into
	// a page's out-links.
	MinRatio float64
	// MinRecrawlDelta is how long a fruitless URL rests before a revisit.
	MinRecrawlDelta time.Duration
	// AbsMinRecrawlDelta is the floor below which a URL is never revisited,
	// whatever its yield.
	AbsMinRecrawlDelta time.Duration

	now func() time.Time
}

// NewBasicDecider creates a decider with the given ratio and recrawl
// delays. Zero or negative delays select the defaults of seven days and
// four days.
func NewBasicDecider(minRatio float64, minRecrawlDelta, absMinRecrawlDelta time.Duration) *BasicDecider {
	if minRecrawlDelta <= 0 {
		minRecrawlDelta = defaultMinRecrawlDelta
	}
	if absMinRecrawlDelta <= 0 {
		absMinRecrawlDelta = defaultAbsMinRecrawlDelta
	}
	return &BasicDecider{
		MinRatio:           minRatio,
		MinRecrawlDelta:    minRecrawlDelta,
		AbsMinRecrawlDelta: absMinRecrawlDelta,
		now:                time.Now,
	}
}

func (d *BasicDecider) ShouldPageBeCrawled(page *domain.Page) bool {
	if page.IsNew() {
		return true
	}
	age := d.now().Sub(page.Meta.LastCrawl)
	if page.Meta.Delta > 0 {
		return age > d.AbsMinRecrawlDelta
	}
	return age > d.MinRecrawlDelta
}

func (d *BasicDecider) ShouldChildrenBeCrawled(page *domain.Page) bool {
	return page.SGCount > 0 && float64(page.SentenceCount)/float64(page.SGCount) > d.MinRatio
}

func (d *BasicDecider) ShouldURLBeBlacklisted(page *domain.Page) bool {
	return page.IsNew() && page.SGCount == 0
}

// OnlyNewDecider behaves like BasicDecider but never revisits a URL.
type OnlyNewDecider struct {
	BasicDecider
}

// NewOnlyNewDecider creates a decider that crawls new URLs only.
func NewOnlyNewDecider(minRatio float64) *OnlyNewDecider {
	return &OnlyNewDecider{BasicDecider: *NewBasicDecider(minRatio, 0, 0)}
}

func (d *OnlyNewDecider) ShouldPageBeCrawled(page *domain.Page) bool {
	return page.IsNew()
}

// OneNewDecider behaves like BasicDecider but descends into out-links only
// when the visit produced at least one new sentence. Bootstrap pages, which
// have no parent, always qualify.
type OneNewDecider struct {
	BasicDecider
}

// NewOneNewDecider creates a decider that requires fresh yield before
// following links.
func NewOneNewDecider(minRatio float64, minRecrawlDelta, absMinRecrawlDelta time.Duration) *OneNewDecider {
	return &OneNewDecider{BasicDecider: *NewBasicDecider(minRatio, minRecrawlDelta, absMinRecrawlDelta)}
}

func (d *OneNewDecider) ShouldChildrenBeCrawled(page *domain.Page) bool {
	if !d.BasicDecider.ShouldChildrenBeCrawled(page) {
		return false
	}
	return page.ParentURL == "" || page.NewCount() > 0
}
