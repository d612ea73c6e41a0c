package textproc

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed resources/nonbreaking_prefixes.*.txt
var prefixFS embed.FS

// prefixKind says when a nonbreaking prefix suppresses a sentence break.
type prefixKind int

const (
	// prefixAny never breaks after the prefix
	prefixAny prefixKind = iota + 1
	// prefixNumericOnly only suppresses the break before a number
	prefixNumericOnly
)

var (
	// breaks after : and ; unless followed by a digit, smiley or path char
	colonBreakRe = regexp.MustCompile(`([:;])([^\d)(/\-])`)
	// breaks after ?! runs unless more punctuation or a closing quote follows
	exclamBreakRe = regexp.MustCompile(`([?!]+)([^?!\p{Pe}\p{Pf}"])`)
	// breaks after an ellipsis followed by a letter, opening quotes allowed
	ellipsisBreakRe = regexp.MustCompile(`(\.\.+) +(['"(\[¿¡\p{Pi}]*\p{L})`)
	// breaks after punctuation plus closing quote, next word capitalized
	closeQuoteBreakRe = regexp.MustCompile(`([?!.][ ]*['")\]\p{Pf}]+) +(['"(\[¿¡\p{Pi}]*[ ]*\p{Lu})`)
	// breaks after punctuation when the next word opens with a quote
	openQuoteBreakRe = regexp.MustCompile(`([?!.]) +(['"(\[¿¡\p{Pi}]+[ ]*\p{L})`)

	// word ending in periods, with optional trailing punctuation before them
	wordEndRe = regexp.MustCompile(`([\p{L}\p{N}.\-]*)(['")\]%\p{Pf}]*)(\.+)$`)
	// acronyms like U.S.A. or U.-K.
	acronymRe = regexp.MustCompile(`\.[\p{Lu}\-]+\.+$`)
	// a word that can plausibly start a sentence
	starterRe = regexp.MustCompile(`^[ ]*['"(\[¿¡\p{Pi}]*[ ]*[\p{L}0-9]`)
	numWordRe = regexp.MustCompile(`^[0-9]`)

	multiSpaceRe = regexp.MustCompile(` +`)
)

// MocySplitter breaks normalized text into sentences, a Moses-style splitter
// with nonbreaking prefix lists per language.
type MocySplitter struct {
	// More enables the aggressive breaks on :;?! and ellipses.
	More bool
	// KeepNewlines treats every input line as its own paragraph. When false,
	// lines are joined until a blank line, the way PDFs and scraped pages
	// wrap their text.
	KeepNewlines bool

	prefixes map[string]prefixKind
}

// NewMocySplitter loads the nonbreaking prefixes for the given languages,
// defaulting to English and German.
func NewMocySplitter(langs ...string) (*MocySplitter, error) {
	if len(langs) == 0 {
		langs = []string{"en", "de"}
	}

	prefixes := make(map[string]prefixKind)
	for _, lang := range langs {
		if err := loadPrefixes(prefixes, lang); err != nil {
			return nil, err
		}
	}

	return &MocySplitter{
		More:         true,
		KeepNewlines: true,
		prefixes:     prefixes,
	}, nil
}

func loadPrefixes(into map[string]prefixKind, lang string) error {
	data, err := prefixFS.ReadFile("resources/nonbreaking_prefixes." + lang + ".txt")
	if err != nil {
		return fmt.Errorf("load nonbreaking prefixes for %q: %w", lang, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutSuffix(line, "#NUMERIC_ONLY#"); ok {
			into[strings.TrimSpace(rest)] = prefixNumericOnly
		} else {
			into[line] = prefixAny
		}
	}
	return scanner.Err()
}

// Split breaks text into sentences. Paragraph boundaries (newlines) are
// always sentence boundaries.
func (s *MocySplitter) Split(text string) []string {
	var sentences []string
	var para strings.Builder

	flush := func() {
		if para.Len() > 0 {
			sentences = append(sentences, s.SplitParagraph(para.String())...)
			para.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		para.WriteString(line)
		para.WriteString(" ")
		if s.KeepNewlines {
			flush()
		}
	}
	flush()
	return sentences
}

// SplitParagraph breaks a single paragraph into sentences.
func (s *MocySplitter) SplitParagraph(text string) []string {
	text = cleanupSpaces(text)
	if text == "" {
		return nil
	}

	if s.More {
		text = colonBreakRe.ReplaceAllString(text, "$1\n$2")
		text = exclamBreakRe.ReplaceAllString(text, "$1\n$2")
		text = ellipsisBreakRe.ReplaceAllString(text, "$1\n$2")
	}
	text = closeQuoteBreakRe.ReplaceAllString(text, "$1\n$2")
	text = openQuoteBreakRe.ReplaceAllString(text, "$1\n$2")

	words := strings.Split(text, " ")
	for i := 0; i < len(words)-1; i++ {
		m := wordEndRe.FindStringSubmatch(words[i])
		if m == nil {
			continue
		}
		prefix, punct := m[1], m[2]

		switch {
		case prefix != "" && punct == "" && s.prefixes[prefix] == prefixAny:
			// known abbreviation, no break
		case acronymRe.MatchString(words[i]):
			// acronym like U.S.A., no break
		case starterRe.MatchString(words[i+1]):
			if prefix != "" && punct == "" &&
				s.prefixes[prefix] == prefixNumericOnly &&
				numWordRe.MatchString(words[i+1]) {
				continue
			}
			words[i] += "\n"
		}
	}

	text = cleanupSpaces(strings.Join(words, " "))
	var sentences []string
	for _, sent := range strings.Split(text, "\n") {
		if sent != "" {
			sentences = append(sentences, sent)
		}
	}
	return sentences
}

func cleanupSpaces(text string) string {
	text = multiSpaceRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\n ", "\n")
	text = strings.ReplaceAll(text, " \n", "\n")
	return strings.TrimSpace(text)
}
