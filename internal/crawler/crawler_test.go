package crawler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swigspot/gswcrawl/internal/crawler"
	"github.com/swigspot/gswcrawl/internal/urlutil"
)

const samplePage = `<html><head><title>Titel</title><style>.x{}</style></head>
<body>
<script>var ignored = true;</script>
<form><input name="q"><a href="/in-form">form link</a></form>
<p>Das isch dr          Text.</p>
<a href="/zweiti-site">weiter</a>
<a href="http://example.ch/extern">extern</a>
</body></html>`

func newCrawler(t *testing.T) *crawler.HTTPCrawler {
	t.Helper()
	return crawler.NewHTTPCrawler(crawler.Config{}, urlutil.New())
}

func TestCrawlExtractsTextAndLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	res, err := newCrawler(t).Crawl(context.Background(), srv.URL+"/start")
	require.NoError(t, err)

	// script, style and form content is gone, whitespace collapsed
	assert.Equal(t, "Titel Das isch dr Text. weiter extern", res.Text)
	assert.Equal(t, []string{
		srv.URL + "/zweiti-site",
		"http://example.ch/extern",
	}, res.Links)
}

func TestCrawlCleverPrefersMainContent(t *testing.T) {
	page := `<html><body>
<header>Navigation hie</header>
<div role="main"><p>Nur dä Teil zellt.</p></div>
<footer>Impressum</footer>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	c := crawler.NewHTTPCrawler(crawler.Config{Clever: true}, urlutil.New())
	res, err := c.Crawl(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Nur dä Teil zellt.", res.Text)
}

func TestCrawlDecodesDeclaredCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "grüezi" in latin-1
		_, _ = w.Write([]byte("<html><body>gr\xfcezi</body></html>"))
	}))
	defer srv.Close()

	res, err := newCrawler(t).Crawl(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "grüezi", res.Text)
}

func TestCrawlErrorKinds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pdf", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	})
	mux.HandleFunc("/notext", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><script>x()</script></body></html>"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newCrawler(t)
	cases := []struct {
		path string
		kind crawler.ErrorKind
	}{
		{"/pdf", crawler.KindCtype},
		{"/empty", crawler.KindEmpty},
		{"/notext", crawler.KindEmpty},
		{"/missing", crawler.KindNetwork},
	}
	for _, tc := range cases {
		_, err := c.Crawl(context.Background(), srv.URL+tc.path)
		require.Error(t, err, tc.path)

		var cerr *crawler.Error
		require.ErrorAs(t, err, &cerr, tc.path)
		assert.Equal(t, tc.kind, cerr.Kind, tc.path)
	}
}

func TestCrawlUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from now on

	_, err := newCrawler(t).Crawl(context.Background(), srv.URL)
	var cerr *crawler.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, crawler.KindNetwork, cerr.Kind)
}

func TestErrorKindNames(t *testing.T) {
	assert.Equal(t, "NetworkError", crawler.KindNetwork.String())
	assert.Equal(t, "CtypeError", crawler.KindCtype.String())
	assert.Equal(t, "EmptyDocumentError", crawler.KindEmpty.String())
	assert.Equal(t, "DecodeError", crawler.KindDecode.String())
	assert.Equal(t, "CrawlError", crawler.KindOther.String())
}
