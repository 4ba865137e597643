package moderation

import (
	"strings"
	"unicode"
)

// Result is the outcome of a moderation check. Reason is deliberately
// generic so responses never echo which term matched.
type Result struct {
	Safe   bool   `json:"safe"`
	Reason string `json:"reason,omitempty"`
}

const blockedReason = "content violates community guidelines"

var leetSubstitutions = map[rune]rune{
	'0': 'o',
	'1': 'i',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'@': 'a',
	'$': 's',
}

// Filter screens user text against a blocklist. Matching happens on a
// normalized form of the input so leetspeak, separator padding, and
// spaced-out variants of a term are all caught.
type Filter struct {
	terms []string
	// collapsible holds terms long enough to match as a bare substring
	// of the fully collapsed input without drowning in false positives.
	collapsible []string
}

func NewFilter(terms []string) *Filter {
	f := &Filter{}
	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		f.terms = append(f.terms, t)
		if len(t) >= 5 {
			f.collapsible = append(f.collapsible, t)
		}
	}
	return f
}

// Check evaluates the text and returns whether it may be published.
func (f *Filter) Check(text string) Result {
	if f.matches(text) {
		return Result{Safe: false, Reason: blockedReason}
	}
	return Result{Safe: true}
}

func (f *Filter) matches(text string) bool {
	normalized := normalize(text)

	// Word-boundary pass over the separator-normalized form. Catches
	// digit and punctuation disguises once they are folded away.
	for _, word := range strings.Fields(normalized) {
		for _, term := range f.terms {
			if word == term {
				return true
			}
		}
	}

	// Collapsed pass with all spacing removed. Catches letter-by-letter
	// spacing; restricted to longer terms since short ones would flag
	// innocent text once boundaries are gone.
	collapsed := strings.ReplaceAll(normalized, " ", "")
	for _, term := range f.collapsible {
		if strings.Contains(collapsed, term) {
			return true
		}
	}
	return false
}

// normalize lowercases the input, folds common leetspeak substitutions,
// strips zero-width characters, and reduces every run of separators to a
// single space.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := false
	for _, r := range strings.ToLower(text) {
		if sub, ok := leetSubstitutions[r]; ok {
			r = sub
		}
		switch {
		case r == '\u200b', r == '\u200c', r == '\u200d', r == '\ufeff':
			// Zero-width characters hide nothing after this point.
			continue
		case unicode.IsLetter(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
