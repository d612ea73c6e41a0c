package textproc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swigspot/gswcrawl/internal/textproc"
)

const lowercaseWordsRules = `
- name: min_length
  length: {min: 2}
- name: starts_lowercase
  find:
    pattern: '^\p{Ll}'
    count: {min: 1}
- name: has_space
  find:
    pattern: ' '
    count: {min: 1}
`

func TestFilterCustomRules(t *testing.T) {
	f, err := textproc.NewPatternSentenceFilterFromYAML([]byte(lowercaseWordsRules))
	require.NoError(t, err)

	cases := []struct {
		sentence string
		valid    bool
	}{
		{"a a b b", true},
		{"a ", true},
		{"a", false},
		{"A a b b", false},
		{"aabb", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, f.IsValid(tc.sentence), "%q", tc.sentence)
	}
}

func TestFilterDefaultRules(t *testing.T) {
	f, err := textproc.NewPatternSentenceFilter()
	require.NoError(t, err)

	valid := []string{
		"Das isch e schöni Gschicht us em Alltag vo de Lüt.",
		"Hüt am Morge bin i mit em Velo dur d Stadt gfahre.",
	}
	for _, s := range valid {
		assert.True(t, f.IsValid(s), "%q", s)
	}

	invalid := []string{
		// too short
		"Witerläse",
		// breadcrumb navigation, too many dashes
		"Home - News - Kontakt - Impressum - Archiv gäll",
		// tag list, too many commas
		"Zürich, Bern, Basel, Luzern, Genf, Chur, Thun",
		// letter-spaced word
		"Das Wort W E R B U N G stoht mitzmitts im Titel",
		// truncated teaser ending in an ellipsis
		"Er het aafange verzelle ...",
	}
	for _, s := range invalid {
		assert.False(t, f.IsValid(s), "%q", s)
	}
}

func TestFilterRejectsBadRuleFiles(t *testing.T) {
	for name, rules := range map[string]string{
		"no check":        `[{name: empty}]`,
		"two checks":      "- name: both\n  length: {min: 1}\n  find: {pattern: a, count: {min: 1}}",
		"bad regex":       "- name: re\n  find: {pattern: '[', count: {min: 1}}",
		"count and ratio": "- name: cr\n  find: {pattern: a, count: {min: 1}, ratio: {min: 1}}",
	} {
		_, err := textproc.NewPatternSentenceFilterFromYAML([]byte(rules))
		assert.Error(t, err, name)
	}
}
