package searcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startpagePageOne = `<html><body>
<a class="w-gl__result-url" href="http://blog.example.ch/eis">one</a>
<a class="result-url" href="http://www.youtube.com/watch?v=x">tube</a>
<a class="result-url" href="http://blog.example.ch/papier.pdf">pdf</a>
<a class="result-title" href="http://blog.example.ch/nur-titel">title</a>
<form action="/do/asearch" method="post">
<input type="hidden" name="page" value="2"/>
<input type="hidden" name="query" value="hoi zäme"/>
<input type="submit" value="next"/>
</form>
</body></html>`

const startpagePageTwo = `<html><body>
<a class="result-url" href="http://blog.example.ch/zwei">two</a>
</body></html>`

func collectResults(t *testing.T, results Results) []string {
	t.Helper()

	var links []string
	for {
		link, err := results.Next(context.Background())
		if errors.Is(err, ErrNoMoreResults) {
			return links
		}
		require.NoError(t, err)
		links = append(links, link)
	}
}

func TestStartpagePaging(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			gotQuery = r.URL.Query().Get("query")
			fmt.Fprint(w, startpagePageOne)
		case http.MethodPost:
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "2", r.PostForm.Get("page"))
			assert.Equal(t, "hoi zäme", r.PostForm.Get("query"))
			fmt.Fprint(w, startpagePageTwo)
		}
	}))
	defer srv.Close()

	p := &StartpageProvider{client: srv.Client(), baseURL: srv.URL + "/do/asearch"}
	links := collectResults(t, p.Search(context.Background(), "hoi zäme"))

	assert.Equal(t, "hoi zäme", gotQuery)
	assert.Equal(t, []string{"http://blog.example.ch/eis", "http://blog.example.ch/zwei"}, links)
}

func TestStartpageSinglePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, startpagePageTwo)
	}))
	defer srv.Close()

	p := &StartpageProvider{client: srv.Client(), baseURL: srv.URL + "/do/asearch"}
	links := collectResults(t, p.Search(context.Background(), "q"))

	assert.Equal(t, []string{"http://blog.example.ch/zwei"}, links)
}

func TestStartpageServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := &StartpageProvider{client: srv.Client(), baseURL: srv.URL + "/do/asearch"}
	_, err := p.Search(context.Background(), "q").Next(context.Background())
	assert.ErrorContains(t, err, "status 503")
}
