// Package textproc holds the text side of the per-page chain: punctuation
// normalization, sentence splitting and sentence filtering.
package textproc

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// sub is one ordered normalization step, either a plain string replacement or
// a regexp substitution.
type sub struct {
	re  *regexp.Regexp
	old string
	new string
}

func str(old, new string) sub { return sub{old: old, new: new} }

func reg(pattern, new string) sub { return sub{re: regexp.MustCompile(pattern), new: new} }

// normalizationSubs follows Moses' normalize-punctuation (lang=de) with web
// and Swiss-German specific additions: apostrophes between letters stay
// apostrophes, digit groups joined, combining diacritics stripped after NFC.
// Order matters.
var normalizationSubs = []sub{
	// control chars, tab, CR and zero-width joiner, but not newline
	reg(`[\x00-\x09\x0B-\x1F\x7F-\x9F\x{200D}]`, " "),
	// soft hyphen disappears entirely, it marks an optional break point
	str("\u00AD", ""),
	// leftover combining diacritics and variation selectors (NFC ran before)
	reg(`[\x{0300}-\x{036F}\x{FE00}-\x{FE0F}]`, ""),
	// replacement char, unless preceded by the U+0084 encoding-issue marker
	reg(`([^\x{0084}]?)\x{FFFD}+`, "$1"),
	// quotes and apostrophes
	str("`", "'"),
	str("''", `"`),
	str("„", `"`),
	str("“", `"`),
	str("”", `"`),
	str("—", " - "),
	reg(`[\x{00AF}\x{2010}-\x{2015}\x{2212}\x{FE58}\x{FE63}\x{FF0D}\x{1806}]`, "-"),
	str("´", "'"),
	// curly apostrophe between two letters is a real apostrophe
	reg(`(\p{L})[‘’](\p{L})`, "$1'$2"),
	str("‘", `"`),
	str("’", `"`),
	str("\u0092", "'"),
	str("\u0093", `"`),
	str("‚", `"`),
	str("‛", `"`),
	str("…", "..."),
	// French quotes
	str("\u00A0«\u00A0", ` "`),
	str("«\u00A0", `"`),
	str("«", `"`),
	str("\u00A0»\u00A0", `" `),
	str("\u00A0»", `"`),
	str("»", `"`),
	str("‹", "<"),
	str("›", ">"),
	// ligatures
	str("œ", "oe"),
	str("æ", "ae"),
	str("ﬁ", "fi"),
	str("ﬀ", "ff"),
	str("ﬂ", "fl"),
	str("ĳ", "ij"),
	// pseudo-spaces before punctuation
	str("\u00A0%", "%"),
	str("\u00A0:", ":"),
	str("\u00A0?", "?"),
	str("\u00A0!", "!"),
	str("\u00A0;", ";"),
	// German/French "quotation", style: comma moves outside the quote
	str(`,"`, `",`),
	// ensure , is not left alone
	str(" ,", ","),
	str(",", ", "),
	// period inside quote, except at end of sentence
	reg(`(\.+)"(\s*[^<])`, `"$1$2`),
	// digit grouping: 1 000 and 1,200 both become plain digits
	reg(`(\d)\x{00A0}(\d)`, "$1$2"),
	reg(`(\d), (\d)`, "$1$2"),
	reg(spacesPattern, " "),
	reg(`(\d) %`, "$1%"),
	// tighten : and ; between word chars, avoiding emojis like ;-)
	reg(`([\p{L}\p{N}_"']) ?(:|;) ?([\p{L}\p{N}_"'\n]|$)`, "$1$2 $3"),
	str(" , ", ", "),
	str(" .", "."),
	reg(`\( +([\p{L}\p{N}_])`, "($1"),
	reg(`([\p{L}\p{N}_]) +\)`, "$1)"),
}

// spacesPattern covers the NBSP and the Zs space category.
const spacesPattern = `[\x{00A0}\x{1680}\x{2000}-\x{200A}\x{202F}\x{205F}\x{3000} ]+`

var (
	spacesRe        = regexp.MustCompile(spacesPattern)
	leadingSpaceRe  = regexp.MustCompile(`(^|\n)\s+`)
	trailingSpaceRe = regexp.MustCompile(`\s+(\n|$)`)
	// misc symbols, pictographs and the supplementary planes
	emojiRe = regexp.MustCompile(`[\x{2300}-\x{23FF}\x{2B50}-\x{2B55}\x{2600}-\x{2800}\x{10000}-\x{10FFFF}]`)
)

// Normalizer makes text canonical before splitting: NFC accents, uncurled
// quotes, ASCII dashes, collapsed spaces. Newlines are preserved, they are
// the paragraph boundaries the splitter relies on. Normalize is idempotent.
type Normalizer struct {
	// StripEmojis removes unicode emojis with a coarse range match.
	StripEmojis bool
}

// NewNormalizer creates a normalizer with default options.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize applies the ordered transformation list to text.
func (n *Normalizer) Normalize(text string) string {
	text = norm.NFC.String(text)

	if n.StripEmojis {
		text = emojiRe.ReplaceAllString(text, " ")
	}

	for _, s := range normalizationSubs {
		if s.re != nil {
			text = s.re.ReplaceAllString(text, s.new)
		} else {
			text = strings.ReplaceAll(text, s.old, s.new)
		}
	}

	text = spacesRe.ReplaceAllString(text, " ")
	text = leadingSpaceRe.ReplaceAllString(text, "$1")
	text = trailingSpaceRe.ReplaceAllString(text, "$1")
	return text
}
