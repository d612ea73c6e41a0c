package textproc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swigspot/gswcrawl/internal/textproc"
)

func newSplitter(t *testing.T) *textproc.MocySplitter {
	t.Helper()
	s, err := textproc.NewMocySplitter("en")
	require.NoError(t, err)
	return s
}

func TestSplit(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{
			"This is a sentence\nAnd another. really ?really? True. ",
			[]string{"This is a sentence", "And another.", "really ?", "really?", "True."},
		},
		// numbers and urls survive
		{
			"1.12$. https://example.com: another website",
			[]string{"1.12$.", "https://example.com:", "another website"},
		},
		{"Hello ;-)", []string{"Hello ;-)"}},
		{"Chapter 1:1", []string{"Chapter 1:1"}},
		// quotes
		{
			`"I love this !" and "xx." are famous quote! yeah...`,
			[]string{`"I love this !" and "xx." are famous quote!`, "yeah..."},
		},
		{
			`"I love this !" And "xx."! yeah...`,
			[]string{`"I love this !"`, `And "xx."!`, "yeah..."},
		},
		// nonbreaking prefixes
		{
			"Mr. Hans, i.e. Charles, is born Jan. 16th",
			[]string{"Mr. Hans, i.e. Charles, is born Jan. 16th"},
		},
		{
			"Article No. 14 or No. xx.",
			[]string{"Article No. 14 or No.", "xx."},
		},
		// repeated punctuation stays on its sentence
		{
			"YEAH!!! SO GREAT !!! so ??!? .",
			[]string{"YEAH!!!", "SO GREAT !!!", "so ??!?", "."},
		},
	}

	s := newSplitter(t)
	for _, tc := range cases {
		assert.Equal(t, tc.want, s.Split(tc.text), tc.text)
	}
}

func TestSplitMoreSetting(t *testing.T) {
	s := newSplitter(t)
	text := "The test: split or not on semi-colon."

	s.More = false
	assert.Len(t, s.Split(text), 1)
	s.More = true
	assert.Len(t, s.Split(text), 2)
}

func TestSplitNewlineSetting(t *testing.T) {
	s := newSplitter(t)
	text := "The test is \nsplit or not on semi-colon. Or not."

	s.KeepNewlines = false
	assert.Len(t, s.Split(text), 2)
	s.KeepNewlines = true
	assert.Len(t, s.Split(text), 3)
}

func TestSplitBlankLinesSeparateParagraphs(t *testing.T) {
	s := newSplitter(t)
	s.KeepNewlines = false

	got := s.Split("First line\nstill first. Second\n\nThird one.")
	assert.Equal(t, []string{"First line still first.", "Second", "Third one."}, got)
}
