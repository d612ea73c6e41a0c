package langid

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// feature is one vocabulary entry of the character n-gram vectorizer.
type feature struct {
	Index int     `json:"index"`
	IDF   float64 `json:"idf"`
}

// modelFile is the exported form of the trained classifier: a TF-IDF
// vectorizer over character n-grams and a multinomial logistic regression.
type modelFile struct {
	Classes   []string           `json:"classes"`
	Target    string             `json:"target"`
	NgramMin  int                `json:"ngram_min"`
	NgramMax  int                `json:"ngram_max"`
	Features  map[string]feature `json:"features"`
	Coef      [][]float64        `json:"coef"`
	Intercept []float64          `json:"intercept"`
}

// NgramModel scores sentences with a character n-gram TF-IDF logistic
// regression. Probabilities are softmax-normalized over all classes; Predict
// returns the target class column.
type NgramModel struct {
	model  modelFile
	target int
}

// LoadNgramModel reads an exported model from a JSON file.
func LoadNgramModel(path string) (*NgramModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load langid model: %w", err)
	}
	return NewNgramModel(data)
}

// NewNgramModel builds a model from its JSON serialization.
func NewNgramModel(data []byte) (*NgramModel, error) {
	var m modelFile
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse langid model: %w", err)
	}

	if m.NgramMin <= 0 || m.NgramMax < m.NgramMin {
		return nil, fmt.Errorf("langid model: bad ngram range [%d, %d]", m.NgramMin, m.NgramMax)
	}
	if len(m.Coef) != len(m.Classes) || len(m.Intercept) != len(m.Classes) {
		return nil, fmt.Errorf("langid model: %d classes but %d coefficient rows and %d intercepts",
			len(m.Classes), len(m.Coef), len(m.Intercept))
	}

	target := -1
	for i, c := range m.Classes {
		if c == m.Target {
			target = i
		}
	}
	if target < 0 {
		return nil, fmt.Errorf("langid model: target class %q not in classes %v", m.Target, m.Classes)
	}

	return &NgramModel{model: m, target: target}, nil
}

// Predict returns the target-class probability for each sentence, in order.
func (m *NgramModel) Predict(sentences []string) []float64 {
	probs := make([]float64, len(sentences))
	for i, s := range sentences {
		probs[i] = m.predictOne(Sanitize(s))
	}
	return probs
}

func (m *NgramModel) predictOne(s string) float64 {
	vec := m.vectorize(s)

	scores := make([]float64, len(m.model.Classes))
	for c, row := range m.model.Coef {
		score := m.model.Intercept[c]
		for idx, v := range vec {
			score += row[idx] * v
		}
		scores[c] = score
	}
	return softmax(scores)[m.target]
}

// vectorize computes the sparse TF-IDF vector of a sanitized sentence:
// character n-gram term counts scaled by IDF, then L2-normalized.
func (m *NgramModel) vectorize(s string) map[int]float64 {
	counts := make(map[string]int)
	runes := []rune(s)
	for n := m.model.NgramMin; n <= m.model.NgramMax; n++ {
		for i := 0; i+n <= len(runes); i++ {
			gram := string(runes[i : i+n])
			if _, known := m.model.Features[gram]; known {
				counts[gram]++
			}
		}
	}

	vec := make(map[int]float64, len(counts))
	var norm float64
	for gram, count := range counts {
		f := m.model.Features[gram]
		v := float64(count) * f.IDF
		vec[f.Index] = v
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

func softmax(scores []float64) []float64 {
	max := scores[0]
	for _, s := range scores[1:] {
		if s > max {
			max = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - max)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
