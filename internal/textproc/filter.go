package textproc

import (
	_ "embed"
	"fmt"
	"regexp"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed resources/sentence_filter_rules.yaml
var defaultRulesYAML []byte

// Bounds is an inclusive [min, max] interval. A nil or negative bound is
// unbounded, so `count: {max: 0}` means "no matches at all".
type Bounds struct {
	Min *float64 `yaml:"min"`
	Max *float64 `yaml:"max"`
}

func (b *Bounds) contains(v float64) bool {
	if b == nil {
		return true
	}
	if b.Min != nil && *b.Min >= 0 && v < *b.Min {
		return false
	}
	if b.Max != nil && *b.Max >= 0 && v > *b.Max {
		return false
	}
	return true
}

type findClause struct {
	Pattern string  `yaml:"pattern"`
	Count   *Bounds `yaml:"count"`
	Ratio   *Bounds `yaml:"ratio"`

	re *regexp.Regexp
}

type compareClause struct {
	Num   string  `yaml:"num"`
	Denom string  `yaml:"denom"`
	Ratio *Bounds `yaml:"ratio"`

	numRe   *regexp.Regexp
	denomRe *regexp.Regexp
}

type condClause struct {
	Length  *Bounds `yaml:"length"`
	Pattern string  `yaml:"pattern"`

	re *regexp.Regexp
}

// Rule is one declarative acceptance check: exactly one of Length, Find or
// Compare, optionally guarded by an If precondition. A sentence whose
// precondition does not hold passes the rule.
type Rule struct {
	Name    string         `yaml:"name"`
	Descr   string         `yaml:"descr"`
	Length  *Bounds        `yaml:"length"`
	Find    *findClause    `yaml:"find"`
	Compare *compareClause `yaml:"compare"`
	If      *condClause    `yaml:"if"`
}

func (r *Rule) compile() error {
	checks := 0
	if r.Length != nil {
		checks++
	}
	if r.Find != nil {
		checks++
		if (r.Find.Count == nil) == (r.Find.Ratio == nil) {
			return fmt.Errorf("rule %q: find needs exactly one of count or ratio", r.Name)
		}
		re, err := regexp.Compile(r.Find.Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
		r.Find.re = re
	}
	if r.Compare != nil {
		checks++
		numRe, err := regexp.Compile(r.Compare.Num)
		if err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
		denomRe, err := regexp.Compile(r.Compare.Denom)
		if err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
		r.Compare.numRe, r.Compare.denomRe = numRe, denomRe
	}
	if checks != 1 {
		return fmt.Errorf("rule %q: needs exactly one of length, find or compare", r.Name)
	}

	if r.If != nil && r.If.Pattern != "" {
		re, err := regexp.Compile(r.If.Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: if: %w", r.Name, err)
		}
		r.If.re = re
	}
	return nil
}

func (r *Rule) pass(s string, n int) bool {
	if r.If != nil {
		if !r.If.Length.contains(float64(n)) {
			return true
		}
		if r.If.re != nil && !r.If.re.MatchString(s) {
			return true
		}
	}

	switch {
	case r.Length != nil:
		return r.Length.contains(float64(n))
	case r.Find != nil:
		matches := float64(len(r.Find.re.FindAllStringIndex(s, -1)))
		if r.Find.Count != nil {
			return r.Find.Count.contains(matches)
		}
		return r.Find.Ratio.contains(float64(n) / (float64(n) - matches + 1))
	default:
		num := float64(len(r.Compare.numRe.FindAllStringIndex(s, -1)))
		denom := float64(len(r.Compare.denomRe.FindAllStringIndex(s, -1)))
		return r.Compare.Ratio.contains(num / (denom + 1))
	}
}

// PatternSentenceFilter rejects sentences that look like navigation, tag
// soup or truncated teasers rather than prose. Rules are AND-combined in
// declaration order.
type PatternSentenceFilter struct {
	rules []*Rule
}

// NewPatternSentenceFilter builds a filter from the default rule catalogue.
func NewPatternSentenceFilter() (*PatternSentenceFilter, error) {
	return NewPatternSentenceFilterFromYAML(defaultRulesYAML)
}

// NewPatternSentenceFilterFromYAML builds a filter from a YAML rule list.
func NewPatternSentenceFilterFromYAML(data []byte) (*PatternSentenceFilter, error) {
	var rules []*Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parse sentence filter rules: %w", err)
	}
	for _, r := range rules {
		if err := r.compile(); err != nil {
			return nil, err
		}
	}
	return &PatternSentenceFilter{rules: rules}, nil
}

// IsValid reports whether the sentence passes every rule.
func (f *PatternSentenceFilter) IsValid(sentence string) bool {
	n := utf8.RuneCountInString(sentence)
	for _, r := range f.rules {
		if !r.pass(sentence, n) {
			return false
		}
	}
	return true
}
