package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swigspot/gswcrawl/internal/domain"
	"github.com/swigspot/gswcrawl/internal/logger"
)

const connectTimeout = 10 * time.Second

// MongoConfig holds the connection parameters of the canonical store.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type mongoSource struct {
	Type  string `bson:"type"`
	Extra string `bson:"extra,omitempty"`
}

func toMongoSource(s domain.Source) mongoSource {
	return mongoSource{Type: string(s.Type), Extra: s.Extra}
}

func (s mongoSource) toDomain() domain.Source {
	return domain.Source{Type: domain.SourceType(s.Type), Extra: s.Extra}
}

type mongoCrawlMeta struct {
	Date         time.Time `bson:"date"`
	Count        int       `bson:"count"`
	Hash         string    `bson:"hash,omitempty"`
	SentsCount   int       `bson:"sents_count,omitempty"`
	SgSentsCount int       `bson:"sg_sents_count,omitempty"`
}

type mongoURL struct {
	ID           string           `bson:"_id"`
	URL          string           `bson:"url"`
	Source       mongoSource      `bson:"source"`
	DateAdded    time.Time        `bson:"date_added"`
	CrawlHistory []mongoCrawlMeta `bson:"crawl_history"`
	Count        int              `bson:"count"`
	Delta        int              `bson:"delta"`
	DeltaDate    *time.Time       `bson:"delta_date,omitempty"`
}

type mongoSeed struct {
	ID            string           `bson:"_id"`
	Source        mongoSource      `bson:"source"`
	DateAdded     time.Time        `bson:"date_added"`
	Count         int              `bson:"count"`
	DeltaDate     *time.Time       `bson:"delta_date,omitempty"`
	SearchHistory []mongoCrawlMeta `bson:"search_history"`
}

// MongoStore is the canonical Store, persisting to the urls, blacklist,
// seeds, sentences and texts collections. A store-level mutex serializes
// SavePage so the per-URL counters stay consistent.
type MongoStore struct {
	client    *mongo.Client
	urls      *mongo.Collection
	blacklist *mongo.Collection
	seeds     *mongo.Collection
	sentences *mongo.Collection
	texts     *mongo.Collection
	log       logger.Interface

	mu  sync.Mutex
	now func() time.Time
}

// NewMongoStore connects to MongoDB and prepares the collections.
func NewMongoStore(ctx context.Context, cfg MongoConfig, log logger.Interface) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client:    client,
		urls:      db.Collection("urls"),
		blacklist: db.Collection("blacklist"),
		seeds:     db.Collection("seeds"),
		sentences: db.Collection("sentences"),
		texts:     db.Collection("texts"),
		log:       log,
		now:       time.Now,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	urlIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: "hashed"}}},
		{Keys: bson.D{{Key: "count", Value: 1}}},
		{Keys: bson.D{{Key: "delta_date", Value: 1}}},
		{Keys: bson.D{{Key: "crawl_history.date", Value: 1}}},
	}
	if _, err := s.urls.Indexes().CreateMany(ctx, urlIndexes); err != nil {
		return fmt.Errorf("create url indexes: %w", err)
	}

	sentenceIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}},
		{Keys: bson.D{{Key: "date_added", Value: -1}}},
	}
	if _, err := s.sentences.Indexes().CreateMany(ctx, sentenceIndexes); err != nil {
		return fmt.Errorf("create sentence indexes: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) GetPage(ctx context.Context, url, parentURL string) (*domain.Page, error) {
	page := domain.NewPage(url, parentURL)

	var doc mongoURL
	err := s.urls.FindOne(ctx, bson.M{"_id": URLID(url)}).Decode(&doc)
	switch {
	case err == mongo.ErrNoDocuments:
		return page, nil
	case err != nil:
		return nil, fmt.Errorf("get page %q: %w", url, err)
	}

	page.Meta = domain.CrawlMeta{Count: doc.Count, Delta: doc.Delta}
	if doc.DeltaDate != nil {
		page.Meta.LastCrawl = *doc.DeltaDate
	}
	return page, nil
}

func (s *MongoStore) SavePage(ctx context.Context, page *domain.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	urlID := URLID(page.URL)

	// sentences first, duplicates are expected under parallel workers
	for _, sent := range page.NewSentences {
		doc := bson.M{
			"_id":          SentenceID(sent.Text),
			"text":         sent.Text,
			"url":          page.URL,
			"crawl_proba":  sent.Proba,
			"date_added":   now,
			"validated_by": bson.A{},
		}
		if _, err := s.sentences.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				s.log.Warn("duplicate sentence ignored", "url", page.URL)
				continue
			}
			return fmt.Errorf("save sentence: %w", err)
		}
	}

	// raw text blob, shared between URLs serving identical content
	textID := TextID(page.Text)
	if page.Text != "" {
		_, err := s.texts.UpdateOne(ctx,
			bson.M{"_id": textID},
			bson.M{
				"$addToSet":    bson.M{"urls": urlID},
				"$setOnInsert": bson.M{"text": page.Text, "date_added": now},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("save text blob: %w", err)
		}
	}

	entry := mongoCrawlMeta{
		Date:         now,
		Count:        page.NewCount(),
		Hash:         textID,
		SentsCount:   page.SentenceCount,
		SgSentsCount: page.SGCount,
	}
	_, err := s.urls.UpdateOne(ctx,
		bson.M{"_id": urlID},
		bson.M{
			"$setOnInsert": bson.M{
				"url":        page.URL,
				"source":     toMongoSource(domain.AutoSource(page.ParentURL)),
				"date_added": now,
			},
			"$push": bson.M{"crawl_history": entry},
			"$inc":  bson.M{"count": entry.Count},
			"$set":  bson.M{"delta": entry.Count, "delta_date": entry.Date},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save url %q: %w", page.URL, err)
	}

	s.log.Info("saved page",
		"url", page.URL,
		"new_count", page.NewCount(),
		"sg_count", page.SGCount,
		"sentence_count", page.SentenceCount,
	)
	return nil
}

func (s *MongoStore) SaveURL(ctx context.Context, url string, source domain.Source) error {
	_, err := s.urls.UpdateOne(ctx,
		bson.M{"_id": URLID(url)},
		bson.M{"$setOnInsert": bson.M{
			"url":           url,
			"source":        toMongoSource(source),
			"date_added":    s.now(),
			"crawl_history": bson.A{},
			"count":         0,
			"delta":         0,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save url %q: %w", url, err)
	}
	return nil
}

func (s *MongoStore) IsURLBlacklisted(ctx context.Context, url string) (bool, error) {
	n, err := s.blacklist.CountDocuments(ctx, bson.M{"_id": URLID(url)})
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

func (s *MongoStore) BlacklistURL(ctx context.Context, url, errorMessage string) error {
	id := URLID(url)

	if _, err := s.urls.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete url %q: %w", url, err)
	}

	source := domain.AutoSource("")
	if errorMessage != "" {
		source = domain.ErrorSource(errorMessage)
	}
	_, err := s.blacklist.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$setOnInsert": bson.M{
			"url":        url,
			"source":     toMongoSource(source),
			"date_added": s.now(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("blacklist url %q: %w", url, err)
	}
	return nil
}

func (s *MongoStore) SentenceExists(ctx context.Context, sentence string) (bool, error) {
	n, err := s.sentences.CountDocuments(ctx, bson.M{"_id": SentenceID(sentence)})
	if err != nil {
		return false, fmt.Errorf("check sentence: %w", err)
	}
	return n > 0, nil
}

func (s *MongoStore) SaveSeed(ctx context.Context, seed *domain.Seed) error {
	for _, link := range seed.NewLinks {
		if err := s.SaveURL(ctx, link, domain.SeedSource(seed.Query)); err != nil {
			return err
		}
	}

	now := s.now()
	entry := mongoCrawlMeta{Date: now, Count: len(seed.NewLinks)}
	_, err := s.seeds.UpdateOne(ctx,
		bson.M{"_id": seed.Query},
		bson.M{
			"$setOnInsert": bson.M{
				"source":     toMongoSource(seed.Source),
				"date_added": now,
			},
			"$push": bson.M{"search_history": entry},
			"$inc":  bson.M{"count": entry.Count},
			"$set":  bson.M{"delta_date": entry.Date},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save seed %q: %w", seed.Query, err)
	}

	s.log.Info("saved seed", "query", seed.Query, "new_links", len(seed.NewLinks))
	return nil
}

func (s *MongoStore) SaveSeeds(ctx context.Context, queries []string, source domain.Source) error {
	for _, q := range queries {
		q = domain.NormalizeQuery(q)
		_, err := s.seeds.UpdateOne(ctx,
			bson.M{"_id": q},
			bson.M{"$setOnInsert": bson.M{
				"source":         toMongoSource(source),
				"date_added":     s.now(),
				"count":          0,
				"search_history": bson.A{},
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("save seed %q: %w", q, err)
		}
	}
	return nil
}

func (s *MongoStore) SeedExists(ctx context.Context, query string) (bool, error) {
	n, err := s.seeds.CountDocuments(ctx, bson.M{"_id": domain.NormalizeQuery(query)})
	if err != nil {
		return false, fmt.Errorf("check seed: %w", err)
	}
	return n > 0, nil
}

func (s *MongoStore) LinkExists(ctx context.Context, url string) (LinkStatus, error) {
	id := URLID(url)

	n, err := s.blacklist.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return LinkNotExist, fmt.Errorf("check blacklist: %w", err)
	}
	if n > 0 {
		return LinkBlacklisted, nil
	}

	n, err = s.urls.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return LinkNotExist, fmt.Errorf("check urls: %w", err)
	}
	if n > 0 {
		return LinkExists, nil
	}
	return LinkNotExist, nil
}

func (s *MongoStore) URLsToCrawl(ctx context.Context, onlyNew bool, limit int) ([]string, error) {
	filter := bson.M{}
	if onlyNew {
		filter["crawl_history"] = bson.M{"$size": 0}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "count", Value: 1}, {Key: "delta_date", Value: 1}}).
		SetProjection(bson.M{"url": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.urls.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	defer cursor.Close(ctx)

	var urls []string
	for cursor.Next(ctx) {
		var doc mongoURL
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode url: %w", err)
		}
		urls = append(urls, doc.URL)
	}
	return urls, cursor.Err()
}

func (s *MongoStore) SeedsToSearch(ctx context.Context, onlyNew bool, limit int) ([]*domain.Seed, error) {
	filter := bson.M{}
	if onlyNew {
		filter["search_history"] = bson.M{"$size": 0}
	}

	opts := options.Find().SetSort(bson.D{{Key: "delta_date", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.seeds.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list seeds: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*domain.Seed
	for cursor.Next(ctx) {
		var doc mongoSeed
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode seed: %w", err)
		}
		seed := &domain.Seed{Query: doc.ID, Source: doc.Source.toDomain(), Count: doc.Count}
		if doc.DeltaDate != nil {
			seed.LastUse = *doc.DeltaDate
		}
		out = append(out, seed)
	}
	return out, cursor.Err()
}

func (s *MongoStore) RandomSentences(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return s.MostRecentSentences(ctx, limit)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{"text": 1}}},
		{{Key: "$sample", Value: bson.M{"size": limit}}},
	}
	cursor, err := s.sentences.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample sentences: %w", err)
	}
	defer cursor.Close(ctx)

	var out []string
	for cursor.Next(ctx) {
		var doc struct {
			Text string `bson:"text"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sentence: %w", err)
		}
		out = append(out, doc.Text)
	}
	return out, cursor.Err()
}

func (s *MongoStore) MostRecentSentences(ctx context.Context, limit int) ([]string, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date_added", Value: -1}}).
		SetProjection(bson.M{"text": 1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.sentences.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list sentences: %w", err)
	}
	defer cursor.Close(ctx)

	var out []string
	for cursor.Next(ctx) {
		var doc struct {
			Text string `bson:"text"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sentence: %w", err)
		}
		out = append(out, doc.Text)
	}
	return out, cursor.Err()
}
