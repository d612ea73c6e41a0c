package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/swigspot/gswcrawl/internal/domain"
	"github.com/swigspot/gswcrawl/internal/logger"
)

// ConsoleStore logs everything it would persist and keeps state in memory
// only. Useful to try out pipelines without a database.
type ConsoleStore struct {
	*MemStore
	log logger.Interface

	fileMu sync.Mutex
	file   *os.File
}

// NewConsoleStore creates a console store. When sentencesPath is non-empty,
// new sentences are also appended to that file, one per line.
func NewConsoleStore(log logger.Interface, sentencesPath string) (*ConsoleStore, error) {
	cs := &ConsoleStore{MemStore: NewMemStore(), log: log}

	if sentencesPath != "" {
		f, err := os.OpenFile(sentencesPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open sentences file: %w", err)
		}
		cs.file = f
	}
	return cs, nil
}

// Close flushes and closes the sentences file, if any.
func (s *ConsoleStore) Close() error {
	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *ConsoleStore) SavePage(ctx context.Context, page *domain.Page) error {
	s.log.Info("saving page",
		"url", page.URL,
		"sg_count", page.SGCount,
		"sentence_count", page.SentenceCount,
		"new_count", page.NewCount(),
	)

	if len(page.NewSentences) > 0 && s.file != nil {
		lines := make([]string, 0, len(page.NewSentences))
		for _, sent := range page.NewSentences {
			lines = append(lines, sent.Text)
		}

		s.fileMu.Lock()
		_, err := s.file.WriteString(strings.Join(lines, "\n") + "\n")
		s.fileMu.Unlock()
		if err != nil {
			return fmt.Errorf("write sentences file: %w", err)
		}
	}
	return s.MemStore.SavePage(ctx, page)
}

func (s *ConsoleStore) BlacklistURL(ctx context.Context, url, errorMessage string) error {
	s.log.Info("blacklisting url", "url", url, "reason", errorMessage)
	return s.MemStore.BlacklistURL(ctx, url, errorMessage)
}

func (s *ConsoleStore) SaveSeed(ctx context.Context, seed *domain.Seed) error {
	s.log.Info("saving seed", "query", seed.Query, "new_links", len(seed.NewLinks))
	return s.MemStore.SaveSeed(ctx, seed)
}
