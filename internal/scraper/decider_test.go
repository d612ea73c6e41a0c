package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/swigspot/gswcrawl/internal/domain"
)

func fixedClock() func() time.Time {
	now := time.Date(2023, 5, 10, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func visitedPage(delta int, age time.Duration) *domain.Page {
	page := domain.NewPage("http://a.ch/", "")
	page.Meta = domain.CrawlMeta{
		Count:     delta,
		Delta:     delta,
		LastCrawl: fixedClock()().Add(-age),
	}
	return page
}

func TestBasicDeciderShouldPageBeCrawled(t *testing.T) {
	d := NewBasicDecider(0, 7*24*time.Hour, 0)
	d.now = fixedClock()

	tests := []struct {
		name string
		page *domain.Page
		want bool
	}{
		{"new page", domain.NewPage("http://a.ch/", ""), true},
		{"fruitful and past the floor", visitedPage(3, 5*24*time.Hour), true},
		{"fruitful but too recent", visitedPage(3, 3*24*time.Hour), false},
		{"fruitless and long unvisited", visitedPage(0, 8*24*time.Hour), true},
		{"fruitless and too recent", visitedPage(0, 5*24*time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.ShouldPageBeCrawled(tt.page))
		})
	}
}

func TestBasicDeciderRecrawlFloorIsConfigurable(t *testing.T) {
	d := NewBasicDecider(0, 7*24*time.Hour, 2*24*time.Hour)
	d.now = fixedClock()

	assert.True(t, d.ShouldPageBeCrawled(visitedPage(3, 3*24*time.Hour)))
	assert.False(t, d.ShouldPageBeCrawled(visitedPage(3, 24*time.Hour)))

	def := NewBasicDecider(0, 0, 0)
	assert.Equal(t, 4*24*time.Hour, def.AbsMinRecrawlDelta)
	assert.Equal(t, 7*24*time.Hour, def.MinRecrawlDelta)
}

func TestBasicDeciderShouldChildrenBeCrawled(t *testing.T) {
	d := NewBasicDecider(0, 0, 0)

	page := domain.NewPage("http://a.ch/", "")
	page.SentenceCount = 10
	assert.False(t, d.ShouldChildrenBeCrawled(page), "no swiss german")

	page.SGCount = 2
	assert.True(t, d.ShouldChildrenBeCrawled(page))

	strict := NewBasicDecider(10, 0, 0)
	assert.False(t, strict.ShouldChildrenBeCrawled(page), "ratio 5 not above 10")
}

func TestBasicDeciderShouldURLBeBlacklisted(t *testing.T) {
	d := NewBasicDecider(0, 0, 0)

	page := domain.NewPage("http://a.ch/", "")
	assert.True(t, d.ShouldURLBeBlacklisted(page), "new page without swiss german")

	page.SGCount = 1
	assert.False(t, d.ShouldURLBeBlacklisted(page))

	old := visitedPage(0, 24*time.Hour)
	assert.False(t, d.ShouldURLBeBlacklisted(old), "known page is never blacklisted")
}

func TestOnlyNewDecider(t *testing.T) {
	d := NewOnlyNewDecider(0)

	assert.True(t, d.ShouldPageBeCrawled(domain.NewPage("http://a.ch/", "")))
	assert.False(t, d.ShouldPageBeCrawled(visitedPage(5, 365*24*time.Hour)))
}

func TestOneNewDecider(t *testing.T) {
	d := NewOneNewDecider(0, 0, 0)

	page := domain.NewPage("http://a.ch/", "http://parent.ch/")
	page.SentenceCount = 4
	page.SGCount = 2
	assert.False(t, d.ShouldChildrenBeCrawled(page), "no new sentences this visit")

	page.NewSentences = []domain.Sentence{{Text: "Es git öppis Neus.", Proba: 0.9}}
	assert.True(t, d.ShouldChildrenBeCrawled(page))

	bootstrap := domain.NewPage("http://a.ch/", "")
	bootstrap.SentenceCount = 4
	bootstrap.SGCount = 2
	assert.True(t, d.ShouldChildrenBeCrawled(bootstrap), "bootstrap pages always qualify")
}
