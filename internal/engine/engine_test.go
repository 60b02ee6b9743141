package engine

import (
	"reflect"
	"testing"

	"github.com/cruler-project/cruler/internal/result"
)

func TestFindLabels(t *testing.T) {
	labels := FindLabels(`(?P<part>\d+)-(?P<store>\w+)-(nope)`)
	want := []string{"part", "store"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("FindLabels() = %v, want %v", labels, want)
	}
}

func TestMatches(t *testing.T) {
	got := Matches("a1 b2 c3", `(?P<num>\d)`, "num")
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Matches() = %v, want %v", got, want)
	}
}

func TestMatchesUnknownLabel(t *testing.T) {
	got := Matches("a1", `(?P<num>\d)`, "missing")
	if got != nil {
		t.Fatalf("Matches() with unknown label = %v, want nil", got)
	}
}

// TestNarrowLastDocumentWins pins the deliberately preserved quirk: a
// stage with more than one input document only keeps the last document's
// captures, even though every document matches.
func TestNarrowLastDocumentWins(t *testing.T) {
	stage := `(?P<part>doc-\w+)`
	docs := []string{"doc-one", "doc-two", "doc-three"}

	// two-stage scenario: the first stage fans one content blob out into
	// three documents, and the second stage (same pattern) should keep only
	// the last one.
	first := Narrow("doc-one doc-two doc-three", []string{stage})
	if !reflect.DeepEqual(first, docs) {
		t.Fatalf("stage 1 = %v, want %v", first, docs)
	}

	second := Narrow("doc-one doc-two doc-three", []string{stage, stage})
	if len(second) != 1 || second[0] != "doc-three" {
		t.Fatalf("stage 2 = %v, want only the last document's capture", second)
	}
}

func TestNarrowNoMatchesEndsPipeline(t *testing.T) {
	got := Narrow("nothing matches here", []string{`(?P<part>xyz)`})
	if got != nil {
		t.Fatalf("Narrow() = %v, want nil", got)
	}
}

func TestHandlers(t *testing.T) {
	docs := []string{"id=42 name=foo", "id=7 name=bar"}
	rootPath := "out/"
	handlers := Handlers(docs, `id=(?P<store>\d+) name=(?P<collect>\w+)`, &rootPath, "http://example.com/src", []byte("k=v"))

	if len(handlers) != 2 {
		t.Fatalf("got %d handlers, want 2", len(handlers))
	}

	store, ok := handlers[0].GetResult(LabelStore.String())
	if !ok || !reflect.DeepEqual(store, []string{"42"}) {
		t.Fatalf("handlers[0] store = %v, ok=%v", store, ok)
	}

	src, ok := handlers[1].GetExtra(result.ExtraSourceURL)
	if !ok || src != "http://example.com/src" {
		t.Fatalf("handlers[1] source url extra = %q, ok=%v", src, ok)
	}
}

func TestIsReservedLabel(t *testing.T) {
	cases := map[string]bool{
		"part":    true,
		"STORE":   true,
		"Collect": true,
		"other":   false,
	}
	for label, want := range cases {
		_, ok := IsReservedLabel(label)
		if ok != want {
			t.Errorf("IsReservedLabel(%q) ok = %v, want %v", label, ok, want)
		}
	}
}
