package search

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rubiojr/docsearch/pkg/core"
)

func TestBuildSuggestions(t *testing.T) {
	docs := []core.Document{
		{Path: "architecture/a", Title: "Process Model", Content: "renderer renderer renderer sandbox"},
		{Path: "architecture/b", Title: "Threading", Content: "renderer thread"},
		{Path: "net/c", Title: "", Content: "sockets"},
	}
	s := BuildSuggestions(docs)

	byText := make(map[string]core.Suggestion)
	for _, sug := range s.All() {
		byText[string(sug.Type)+":"+sug.Text] = sug
	}

	if got := byText["category:architecture"]; got.Frequency != 2 {
		t.Errorf("expected architecture category with frequency 2, got %+v", got)
	}
	if got := byText["category:net"]; got.Frequency != 1 {
		t.Errorf("expected net category with frequency 1, got %+v", got)
	}
	if got := byText["article:Process Model"]; got.Frequency != 1 || got.Category != "architecture" {
		t.Errorf("unexpected article suggestion %+v", got)
	}
	if got := byText["tag:renderer"]; got.Frequency != 4 {
		t.Errorf("expected renderer tag with frequency 4, got %+v", got)
	}
	if _, ok := byText["tag:sandbox"]; ok {
		t.Error("words seen twice or less should not become tags")
	}
	for key := range byText {
		if strings.HasPrefix(key, "article:") && strings.TrimPrefix(key, "article:") == "" {
			t.Error("documents without title should not produce article suggestions")
		}
	}
	for _, sug := range s.All() {
		if sug.Frequency < 1 {
			t.Errorf("suggestion %q has frequency %d", sug.Text, sug.Frequency)
		}
	}
}

func TestTagSuggestionsCapped(t *testing.T) {
	var content strings.Builder
	for i := 0; i < 80; i++ {
		word := fmt.Sprintf("word%02d", i)
		for j := 0; j < 3+i; j++ {
			content.WriteString(word + " ")
		}
	}
	s := BuildSuggestions([]core.Document{{Path: "a/1", Title: "T", Content: content.String()}})

	tags := 0
	for _, sug := range s.All() {
		if sug.Type == core.SuggestionTag {
			tags++
			if sug.Text < "word30" {
				t.Errorf("low frequency word %q should have been dropped", sug.Text)
			}
		}
	}
	if tags != MaxTagSuggestions {
		t.Errorf("expected %d tag suggestions, got %d", MaxTagSuggestions, tags)
	}
}

func TestSuggestionsMatch(t *testing.T) {
	docs := make([]core.Document, 0, 15)
	for i := 0; i < 15; i++ {
		docs = append(docs, core.Document{Path: fmt.Sprintf("proc/%d", i), Title: fmt.Sprintf("Process %d", i), Content: "x"})
	}
	s := BuildSuggestions(docs)

	matches := s.Match("PROC")
	if len(matches) != MaxSuggestions {
		t.Fatalf("expected %d matches, got %d", MaxSuggestions, len(matches))
	}
	if matches[0].Type != core.SuggestionCategory || matches[0].Frequency != 15 {
		t.Errorf("expected the category to rank first, got %+v", matches[0])
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Frequency > matches[i-1].Frequency {
			t.Errorf("matches not sorted by frequency at %d", i)
		}
	}

	extra := core.Suggestion{Text: "process model", Type: core.SuggestionQuery, Frequency: 20}
	matches = s.Match("model", extra)
	if len(matches) != 1 || matches[0].Type != core.SuggestionQuery {
		t.Errorf("expected only the popular query, got %+v", matches)
	}

	if got := s.Match("zzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestNilSuggestions(t *testing.T) {
	var s *Suggestions
	if s.Len() != 0 || len(s.All()) != 0 {
		t.Error("nil suggestions should be empty")
	}
	if got := s.Match("a", core.Suggestion{Text: "abc", Type: core.SuggestionQuery, Frequency: 1}); len(got) != 1 {
		t.Errorf("expected extra candidates to be matched, got %+v", got)
	}
}
