// Package seeds turns harvested sentences into new search queries by
// extracting the highest-scoring word n-grams.
package seeds

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Creator generates up to max seed queries from a batch of sentences.
// Stopwords are excluded from the n-grams.
type Creator interface {
	Generate(sentences []string, max int, stopwords []string) []string
}

var (
	tokenSplitRe = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	// digits standing alone are noise for query generation
	bareDigitsRe = regexp.MustCompile(`(^|\W)\d+($|\W)`)
)

// tokenize lowercases a sentence and returns its words of two or more
// characters, minus stopwords.
func tokenize(sentence string, stopwords map[string]struct{}) []string {
	var tokens []string
	for _, tok := range tokenSplitRe.Split(strings.ToLower(sentence), -1) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, skip := stopwords[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// ngrams returns all word n-grams of sizes [min, max] in order.
func ngrams(tokens []string, min, max int) []string {
	var grams []string
	for n := min; n <= max; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

func stopwordSet(stopwords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// topN sorts by score descending, breaking ties on the n-gram itself so the
// output is deterministic, and keeps the first max entries.
func topN(scores map[string]float64, max int) []string {
	grams := make([]string, 0, len(scores))
	for g := range scores {
		grams = append(grams, g)
	}
	sort.Slice(grams, func(i, j int) bool {
		if scores[grams[i]] != scores[grams[j]] {
			return scores[grams[i]] > scores[grams[j]]
		}
		return grams[i] > grams[j]
	})

	if max >= 0 && len(grams) > max {
		grams = grams[:max]
	}
	return grams
}

// BasicSeedCreator scores n-grams by raw occurrence count.
type BasicSeedCreator struct {
	NgramMin int
	NgramMax int
}

// NewBasicSeedCreator creates a frequency-based creator over word trigrams.
func NewBasicSeedCreator() *BasicSeedCreator {
	return &BasicSeedCreator{NgramMin: 3, NgramMax: 3}
}

func (c *BasicSeedCreator) Generate(sentences []string, max int, stopwords []string) []string {
	stop := stopwordSet(stopwords)

	counts := make(map[string]float64)
	for _, s := range sentences {
		for _, gram := range ngrams(tokenize(s, stop), c.NgramMin, c.NgramMax) {
			counts[gram]++
		}
	}
	return topN(counts, max)
}

// IdfSeedCreator scores n-grams with TF-IDF so that n-grams spread across
// many sentences win over n-grams repeated inside a single one. Term
// frequency is sublinear and each sentence vector is L2-normalized before
// the per-term sum.
type IdfSeedCreator struct {
	NgramMin int
	NgramMax int
	// Sanitize removes standalone digit groups before tokenization.
	Sanitize bool
}

// NewIdfSeedCreator creates a TF-IDF creator over word trigrams.
func NewIdfSeedCreator() *IdfSeedCreator {
	return &IdfSeedCreator{NgramMin: 3, NgramMax: 3, Sanitize: true}
}

func (c *IdfSeedCreator) Generate(sentences []string, max int, stopwords []string) []string {
	if len(sentences) == 0 {
		return nil
	}
	stop := stopwordSet(stopwords)

	// per-sentence term frequencies and document frequencies
	docs := make([]map[string]float64, 0, len(sentences))
	df := make(map[string]float64)
	for _, s := range sentences {
		if c.Sanitize {
			s = bareDigitsRe.ReplaceAllString(s, " ")
		}
		tf := make(map[string]float64)
		for _, gram := range ngrams(tokenize(s, stop), c.NgramMin, c.NgramMax) {
			tf[gram]++
		}
		for gram := range tf {
			df[gram]++
		}
		docs = append(docs, tf)
	}

	n := float64(len(sentences))
	idf := make(map[string]float64, len(df))
	for gram, d := range df {
		idf[gram] = math.Log((1+n)/(1+d)) + 1
	}

	scores := make(map[string]float64, len(df))
	for _, tf := range docs {
		var norm float64
		for gram, count := range tf {
			v := (1 + math.Log(count)) * idf[gram]
			tf[gram] = v
			norm += v * v
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for gram, v := range tf {
			scores[gram] += v / norm
		}
	}
	return topN(scores, max)
}
