package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/swigspot/gswcrawl/internal/urlutil"
)

// strippedSelectors lists elements that never carry prose.
const strippedSelectors = "script, style, form"

// mainSelectors are common naming schemes for the main content block,
// tried in order by the clever extraction.
var mainSelectors = []string{
	"[role=main]",
	".main", "#main",
	".main-content", "#main-content",
	".mainContent", "#mainContent",
	".MainContent", "#MainContent",
}

// excludeSelectors are the parts the clever extraction removes when no main
// content block was found.
const excludeSelectors = "header, #header, footer, #footer, [role=footer], [role=navigation]"

// extractText returns the visible text of the document as one line, chunks
// joined by single spaces.
func extractText(doc *goquery.Document) string {
	doc.Find(strippedSelectors).Remove()
	return collapseText(doc.Selection)
}

// extractTextClever tries to locate the page's main content block first and
// falls back to the whole document minus header, footer and navigation.
func extractTextClever(doc *goquery.Document) string {
	doc.Find("script, style").Remove()

	for _, selector := range mainSelectors {
		if main := doc.Find(selector).First(); main.Length() > 0 {
			return collapseText(main)
		}
	}

	doc.Find(excludeSelectors).Remove()
	return collapseText(doc.Selection)
}

func collapseText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

// extractLinks collects hrefs and runs them through the URL filter, which
// resolves, rewrites and deduplicates them relative to the page URL.
func extractLinks(doc *goquery.Document, pageURL string, filter *urlutil.Filter) []string {
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return filter.FilterLinks(pageURL, hrefs)
}
