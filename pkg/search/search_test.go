package search

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type named struct{ name string }

func byName(n named) string { return n.name }

func TestMatches(t *testing.T) {
	tests := []struct {
		name  string
		value string
		query string
		want  bool
	}{
		{"empty query", "Test Manufacturer", "", true},
		{"prefix", "Test Manufacturer", "Test", true},
		{"lower query", "Test Manufacturer", "test", true},
		{"upper query", "test driver", "TEST", true},
		{"middle", "Test Car", "st c", true},
		{"absent", "Test Car", "truck", false},
		{"query longer than value", "VW", "Volkswagen", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.value, tt.query))
		})
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	items := []named{{"Toyota"}, {"Tesla"}, {"BMW"}, {"Tata"}}

	got := Filter(items, "t", byName)

	want := []named{{"Toyota"}, {"Tesla"}, {"Tata"}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(named{})); diff != "" {
		t.Fatalf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterNoMatchesIsEmpty(t *testing.T) {
	got := Filter([]named{{"Audi"}}, "zzz", byName)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func wordGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9 ]{0,20}`)
}

func TestFilterProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOf(wordGen()).Draw(t, "values")
		query := wordGen().Draw(t, "query")

		items := make([]named, len(values))
		for i, v := range values {
			items[i] = named{v}
		}
		got := Filter(items, query, byName)

		kept := make(map[int]bool)
		j := 0
		for i, it := range items {
			if j < len(got) && got[j] == it {
				kept[i] = true
				j++
			}
		}
		if j != len(got) {
			t.Fatalf("result is not a subsequence of input")
		}
		for i, it := range items {
			contains := strings.Contains(strings.ToLower(it.name), strings.ToLower(query))
			if contains != kept[i] {
				t.Fatalf("item %q query %q: contains=%v kept=%v", it.name, query, contains, kept[i])
			}
		}
	})
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOf(wordGen()).Draw(t, "values")
		items := make([]named, len(values))
		for i, v := range values {
			items[i] = named{v}
		}
		got := Filter(items, "", byName)
		if len(got) != len(items) {
			t.Fatalf("got %d items, want %d", len(got), len(items))
		}
	})
}

func TestFilterSeededSubstring(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := wordGen().Draw(t, "prefix")
		query := rapid.StringMatching(`[A-Za-z]{1,8}`).Draw(t, "query")
		suffix := wordGen().Draw(t, "suffix")
		value := prefix + strings.ToUpper(query) + suffix

		got := Filter([]named{{value}}, strings.ToLower(query), byName)
		if len(got) != 1 {
			t.Fatalf("%q should match %q", value, query)
		}
	})
}
