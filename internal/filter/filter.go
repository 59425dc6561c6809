// Package filter decides which scraped text fragments become blocks and
// cleans the ones that do.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule rejects a text fragment when Pattern matches at its start.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules is the ordered boilerplate list for the report format. New
// boilerplate shows up whenever the source layout drifts; add it here or
// through Filter.Extra.
var DefaultRules = []Rule{
	{Name: "citation", Pattern: regexp.MustCompile(`(?s)^\[\d+\]`)},
	{Name: "note", Pattern: regexp.MustCompile(`(?s)^Note:`)},
	{Name: "link", Pattern: regexp.MustCompile(`(?s)^Click here`)},
	{Name: "disclaimer", Pattern: regexp.MustCompile(`(?s)^We do not report in detail on Russian war crimes`)},
	{Name: "toc", Pattern: regexp.MustCompile(`(?s)^Ukrainian Operations in the Russian Federation.+$`)},
	{Name: "nothing-significant", Pattern: regexp.MustCompile(`(?s)^Nothing significant to report.\n?$`)},
	{Name: "not-publishing", Pattern: regexp.MustCompile(`(?s)^ISW is not publishing coverage of.*today\.\n?$`)},
	{Name: "see-topline", Pattern: regexp.MustCompile(`(?s)^See topline text.\n?$`)},
}

var citationRe = regexp.MustCompile(`\[\d+\]`)

// Filter validates and cleans extracted text fragments.
type Filter struct {
	rules []Rule
}

// New returns a Filter with DefaultRules followed by the extra patterns.
// Extra patterns are anchored at the start and match across newlines.
func New(extra ...string) (*Filter, error) {
	rules := make([]Rule, 0, len(DefaultRules)+len(extra))
	rules = append(rules, DefaultRules...)
	for i, p := range extra {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "^") {
			p = "^" + p
		}
		re, err := regexp.Compile("(?s)" + p)
		if err != nil {
			return nil, fmt.Errorf("filter pattern %d: %w", i, err)
		}
		rules = append(rules, Rule{Name: fmt.Sprintf("extra-%d", i), Pattern: re})
	}
	return &Filter{rules: rules}, nil
}

// Default is the filter built from DefaultRules only.
var Default = &Filter{rules: DefaultRules}

// Rules returns a copy of the active rule list.
func (f *Filter) Rules() []Rule {
	return append([]Rule(nil), f.rules...)
}

// Acceptable reports whether text is non-blank and matches no rule.
func (f *Filter) Acceptable(text string) bool {
	_, ok := f.Match(text)
	return !ok && strings.TrimSpace(text) != ""
}

// Match returns the first rule that rejects text.
func (f *Filter) Match(text string) (Rule, bool) {
	for _, r := range f.rules {
		if r.Pattern.MatchString(text) {
			return r, true
		}
	}
	return Rule{}, false
}

// Normalize drops inline citation markers, folds newlines into spaces and
// trims the result. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	for {
		next := citationRe.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

// IsAcceptable checks text against the default rules.
func IsAcceptable(text string) bool {
	return Default.Acceptable(text)
}
