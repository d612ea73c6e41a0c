package storage

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/swigspot/gswcrawl/internal/domain"
)

type crawlRecord struct {
	date      time.Time
	count     int
	textID    string
	sentences int
	sgCount   int
}

type urlRecord struct {
	url       string
	source    domain.Source
	dateAdded time.Time
	history   []crawlRecord
	count     int
	delta     int
	deltaDate time.Time
}

type sentenceRecord struct {
	text      string
	url       string
	proba     float64
	dateAdded time.Time
}

type seedRecord struct {
	query     string
	source    domain.Source
	dateAdded time.Time
	count     int
	deltaDate time.Time
	history   []crawlRecord
}

type textRecord struct {
	text   string
	urlIDs []string
}

// MemStore is the in-memory Store, used by tests and dry runs. All state is
// guarded by a single mutex.
type MemStore struct {
	mu        sync.Mutex
	urls      map[string]*urlRecord
	blacklist map[string]domain.Source
	sentences map[string]*sentenceRecord
	order     []string // sentence ids in insertion order
	seeds     map[string]*seedRecord
	texts     map[string]*textRecord
	now       func() time.Time
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		urls:      make(map[string]*urlRecord),
		blacklist: make(map[string]domain.Source),
		sentences: make(map[string]*sentenceRecord),
		seeds:     make(map[string]*seedRecord),
		texts:     make(map[string]*textRecord),
		now:       time.Now,
	}
}

func (s *MemStore) GetPage(_ context.Context, url, parentURL string) (*domain.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := domain.NewPage(url, parentURL)
	if rec, ok := s.urls[URLID(url)]; ok {
		page.Meta = domain.CrawlMeta{
			Count:     rec.count,
			Delta:     rec.delta,
			LastCrawl: rec.deltaDate,
		}
	}
	return page, nil
}

func (s *MemStore) SavePage(_ context.Context, page *domain.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, sent := range page.NewSentences {
		id := SentenceID(sent.Text)
		if _, dup := s.sentences[id]; dup {
			continue
		}
		s.sentences[id] = &sentenceRecord{
			text:      sent.Text,
			url:       page.URL,
			proba:     sent.Proba,
			dateAdded: now,
		}
		s.order = append(s.order, id)
	}

	urlID := URLID(page.URL)
	rec, ok := s.urls[urlID]
	if !ok {
		rec = &urlRecord{
			url:       page.URL,
			source:    domain.AutoSource(page.ParentURL),
			dateAdded: now,
		}
		s.urls[urlID] = rec
	}

	textID := TextID(page.Text)
	if page.Text != "" {
		blob, ok := s.texts[textID]
		if !ok {
			blob = &textRecord{text: page.Text}
			s.texts[textID] = blob
		}
		if !contains(blob.urlIDs, urlID) {
			blob.urlIDs = append(blob.urlIDs, urlID)
		}
	}

	entry := crawlRecord{
		date:      now,
		count:     page.NewCount(),
		textID:    textID,
		sentences: page.SentenceCount,
		sgCount:   page.SGCount,
	}
	rec.history = append(rec.history, entry)
	rec.count += entry.count
	rec.delta = entry.count
	rec.deltaDate = entry.date
	return nil
}

func (s *MemStore) SaveURL(_ context.Context, url string, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := URLID(url)
	if _, ok := s.urls[id]; !ok {
		s.urls[id] = &urlRecord{url: url, source: source, dateAdded: s.now()}
	}
	return nil
}

func (s *MemStore) IsURLBlacklisted(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.blacklist[URLID(url)]
	return ok, nil
}

func (s *MemStore) BlacklistURL(_ context.Context, url, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := URLID(url)
	delete(s.urls, id)

	source := domain.AutoSource("")
	if errorMessage != "" {
		source = domain.ErrorSource(errorMessage)
	}
	s.blacklist[id] = source
	return nil
}

func (s *MemStore) SentenceExists(_ context.Context, sentence string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sentences[SentenceID(sentence)]
	return ok, nil
}

func (s *MemStore) SaveSeed(_ context.Context, seed *domain.Seed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, link := range seed.NewLinks {
		id := URLID(link)
		if _, ok := s.urls[id]; !ok {
			s.urls[id] = &urlRecord{
				url:       link,
				source:    domain.SeedSource(seed.Query),
				dateAdded: now,
			}
		}
	}

	rec, ok := s.seeds[seed.Query]
	if !ok {
		rec = &seedRecord{query: seed.Query, source: seed.Source, dateAdded: now}
		s.seeds[seed.Query] = rec
	}
	entry := crawlRecord{date: now, count: len(seed.NewLinks)}
	rec.history = append(rec.history, entry)
	rec.count += entry.count
	rec.deltaDate = entry.date
	return nil
}

func (s *MemStore) SaveSeeds(_ context.Context, queries []string, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range queries {
		q = domain.NormalizeQuery(q)
		if _, ok := s.seeds[q]; !ok {
			s.seeds[q] = &seedRecord{query: q, source: source, dateAdded: s.now()}
		}
	}
	return nil
}

func (s *MemStore) SeedExists(_ context.Context, query string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.seeds[domain.NormalizeQuery(query)]
	return ok, nil
}

func (s *MemStore) LinkExists(_ context.Context, url string) (LinkStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := URLID(url)
	if _, ok := s.blacklist[id]; ok {
		return LinkBlacklisted, nil
	}
	if _, ok := s.urls[id]; ok {
		return LinkExists, nil
	}
	return LinkNotExist, nil
}

func (s *MemStore) URLsToCrawl(_ context.Context, onlyNew bool, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]*urlRecord, 0, len(s.urls))
	for _, rec := range s.urls {
		if onlyNew && len(rec.history) > 0 {
			continue
		}
		recs = append(recs, rec)
	}

	// least visited first, then oldest visit, then URL for determinism
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].count != recs[j].count {
			return recs[i].count < recs[j].count
		}
		if !recs[i].deltaDate.Equal(recs[j].deltaDate) {
			return recs[i].deltaDate.Before(recs[j].deltaDate)
		}
		return recs[i].url < recs[j].url
	})

	urls := make([]string, 0, len(recs))
	for _, rec := range recs {
		if limit >= 0 && len(urls) >= limit {
			break
		}
		urls = append(urls, rec.url)
	}
	return urls, nil
}

func (s *MemStore) SeedsToSearch(_ context.Context, onlyNew bool, limit int) ([]*domain.Seed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := make([]*seedRecord, 0, len(s.seeds))
	for _, rec := range s.seeds {
		if onlyNew && len(rec.history) > 0 {
			continue
		}
		recs = append(recs, rec)
	}

	// longest unused first
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].deltaDate.Equal(recs[j].deltaDate) {
			return recs[i].deltaDate.Before(recs[j].deltaDate)
		}
		return recs[i].query < recs[j].query
	})

	out := make([]*domain.Seed, 0, len(recs))
	for _, rec := range recs {
		if limit >= 0 && len(out) >= limit {
			break
		}
		out = append(out, &domain.Seed{
			Query:   rec.query,
			Source:  rec.source,
			Count:   rec.count,
			LastUse: rec.deltaDate,
		})
	}
	return out, nil
}

func (s *MemStore) MostRecentSentences(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit >= 0 && len(out) >= limit {
			break
		}
		out = append(out, s.sentences[s.order[i]].text)
	}
	return out, nil
}

func (s *MemStore) RandomSentences(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := append([]string(nil), s.order...)
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	var out []string
	for _, id := range ids {
		if limit >= 0 && len(out) >= limit {
			break
		}
		out = append(out, s.sentences[id].text)
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
