package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultKeywords is the keyword list used for tag extraction when the
// configuration does not provide one.
var DefaultKeywords = []string{
	"architecture",
	"blink",
	"compositor",
	"debugging",
	"gpu",
	"ipc",
	"javascript",
	"mojo",
	"networking",
	"performance",
	"rendering",
	"sandbox",
	"security",
	"testing",
	"v8",
}

// Vocabulary extracts tags from content by checking a fixed list of terms.
type Vocabulary struct {
	terms []string
}

// NewVocabulary builds a vocabulary from terms. Terms are lower-cased and
// de-duplicated; blank entries are ignored.
func NewVocabulary(terms []string) Vocabulary {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return Vocabulary{terms: out}
}

// Terms returns the vocabulary terms.
func (v Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// Extract returns the terms present in content, in vocabulary order.
func (v Vocabulary) Extract(content string) []string {
	return v.extractLowered(strings.ToLower(content))
}

func (v Vocabulary) extractLowered(lowered string) []string {
	tags := []string{}
	for _, term := range v.terms {
		if strings.Contains(lowered, term) {
			tags = append(tags, term)
		}
	}
	return tags
}

// MinWordLength is the exclusive lower bound for words counted as suggestions
// or similarity features.
const MinWordLength = 3

// Tokenize splits text into lower-cased words longer than MinWordLength runes.
func Tokenize(text string) []string {
	f := func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	}
	fields := strings.FieldsFunc(text, f)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) > MinWordLength {
			tokens = append(tokens, strings.ToLower(field))
		}
	}
	return tokens
}

var stopWords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "been": {}, "before": {}, "being": {},
	"could": {}, "does": {}, "each": {}, "from": {}, "have": {}, "here": {},
	"into": {}, "like": {}, "more": {}, "most": {}, "much": {}, "only": {},
	"other": {}, "over": {}, "same": {}, "should": {}, "some": {}, "such": {},
	"than": {}, "that": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {}, "used": {},
	"very": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "will": {}, "with": {}, "would": {}, "your": {},
}

func significantWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		if _, stop := stopWords[tok]; stop {
			continue
		}
		words[tok] = struct{}{}
	}
	return words
}
