// Package urlutil normalizes and filters URLs before they reach the queue or
// the store. Every URL must pass through Fix exactly once before being
// persisted, so that lookups always use the same canonical form.
package urlutil

import (
	"net/url"
	"strings"
)

// Filter normalizes URLs and decides whether they are worth crawling.
// The zero filter rejects every wikipedia subdomain; pass subdomains such as
// "als" to New to allow specific language editions.
type Filter struct {
	wikiSubdomains map[string]struct{}
}

// New creates a Filter. wikiSubdomains lists the wikipedia language
// subdomains to keep (all others are rejected).
func New(wikiSubdomains ...string) *Filter {
	f := &Filter{wikiSubdomains: make(map[string]struct{}, len(wikiSubdomains))}
	for _, s := range wikiSubdomains {
		f.wikiSubdomains[strings.ToLower(s)] = struct{}{}
	}
	return f
}

// Default is the filter used by the package-level helpers.
var Default = New()

// Fix normalizes a URL using the Default filter.
func Fix(rawURL, baseURL string) (string, bool) {
	return Default.Fix(rawURL, baseURL)
}

// FilterLinks filters hrefs using the Default filter.
func FilterLinks(baseURL string, hrefs []string) []string {
	return Default.FilterLinks(baseURL, hrefs)
}

// Fix normalizes a URL and reports whether it is worth crawling.
//
// The URL is resolved against baseURL when given, stripped of its fragment,
// then passed through the domain rewriters (facebook, twitter, forum
// heuristics, tracking-parameter strip). The normalized URL is returned even
// when keep is false, except when a rewriter rejects the URL outright.
func (f *Filter) Fix(rawURL, baseURL string) (string, bool) {
	resolved := rawURL
	if baseURL != "" {
		// Strip the trailing slash so "page2" against ".../page1/" joins the
		// way links behave in a browser address bar.
		base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
		if err != nil {
			return rawURL, false
		}
		ref, err := url.Parse(rawURL)
		if err != nil {
			return rawURL, false
		}
		resolved = base.ResolveReference(ref).String()
	}

	u, err := url.Parse(resolved)
	if err != nil {
		return rawURL, false
	}
	u.Fragment = ""

	for _, rewrite := range rewriters {
		// Rewriters run before the keep decision because they may replace
		// the URL entirely (facebook redirect targets).
		u = rewrite(resolved, u)
		if u == nil {
			return resolved, false
		}
	}

	return u.String(), f.shouldKeep(u)
}

func (f *Filter) shouldKeep(u *url.URL) bool {
	if !strings.HasPrefix(u.Scheme, "http") {
		return false
	}
	if hasExcludedExtension(u.Path) || hasExcludedExtension(u.RawQuery) {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if i := strings.LastIndex(host, "."); i >= 0 {
		if _, bad := excludedTLDs[host[i+1:]]; bad {
			return false
		}
	}
	if strings.HasSuffix(host, "wikipedia.org") {
		sub := host
		if i := strings.Index(host, "."); i >= 0 {
			sub = host[:i]
		}
		if _, ok := f.wikiSubdomains[sub]; !ok {
			return false
		}
	}
	return true
}

func hasExcludedExtension(s string) bool {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return false
	}
	_, bad := excludedExtensions[strings.ToLower(s[i+1:])]
	return bad
}

// FilterLinks resolves, fixes and deduplicates the hrefs found in a page.
// The base URL itself is never returned, and trailing-slash variants of an
// already seen URL count as duplicates (the first form encountered wins).
// Order of the input is preserved.
func (f *Filter) FilterLinks(baseURL string, hrefs []string) []string {
	seen := make(map[string]struct{}, len(hrefs)+2)
	if baseURL != "" {
		seen[baseURL] = struct{}{}
		seen[baseURL+"/"] = struct{}{}
	}

	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		fixed, ok := f.Fix(href, baseURL)
		if !ok {
			continue
		}
		if _, dup := seen[fixed]; dup {
			continue
		}
		links = append(links, fixed)
		seen[fixed] = struct{}{}
		if strings.HasSuffix(fixed, "/") {
			seen[strings.TrimSuffix(fixed, "/")] = struct{}{}
		} else {
			seen[fixed+"/"] = struct{}{}
		}
	}
	return links
}
