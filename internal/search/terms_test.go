package search

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"React hooks, state-management!", []string{"react", "hooks", "state", "management"}},
		{"the quick and THE dead", []string{"quick", "dead"}},
		{"a an or but", nil},
		{"x y z", nil}, // single-character tokens dropped
		{"Go1.22 generics", []string{"go1", "22", "generics"}},
		{"", nil},
	}
	for _, c := range cases {
		got := Tokenize(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestQueryTerms_Deduplicates(t *testing.T) {
	got := QueryTerms("react react REACT hooks")
	want := []string{"react", "hooks"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("QueryTerms = %v, want %v", got, want)
	}
}

func TestCollectStats(t *testing.T) {
	cs := collectStats(fixtureEntries())

	if cs.n != 3 {
		t.Fatalf("n = %d, want 3", cs.n)
	}
	if cs.df["react"] != 2 {
		t.Fatalf("df(react) = %d, want 2", cs.df["react"])
	}
	if cs.df["go"] != 1 {
		t.Fatalf("df(go) = %d, want 1", cs.df["go"])
	}
	if cs.avgdl <= 0 {
		t.Fatalf("avgdl = %f, want > 0", cs.avgdl)
	}
	// Keywords are part of the indexable bag, so every keyword has df >= 1.
	if cs.df["hooks"] == 0 {
		t.Fatal("keyword terms must appear in document frequencies")
	}
}
