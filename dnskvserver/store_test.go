package dnskvserver

/*
 * store_test.go
 * Test functions for store.go
 * Created 20250121
 * Last Modified 20250302
 */

import (
	"strings"
	"testing"
)

func TestMemStore_AppendTake(t *testing.T) {
	s := NewMemStore()

	if _, ok := s.Take("ABCD"); ok {
		t.Fatalf("Take of empty store returned ok")
	}

	s.Append("ABCD", "one")
	s.Append("ABCD", "two")
	s.Append("FFFF", "other")

	got, ok := s.Take("ABCD")
	if !ok || "onetwo" != got {
		t.Fatalf("Take failed: got:%q/%v want:%q", got, ok, "onetwo")
	}

	/* Take removes the entry */
	if got, ok := s.Take("ABCD"); ok {
		t.Fatalf("Second Take returned %q", got)
	}

	/* Unrelated transactions are untouched */
	if got, ok := s.Take("FFFF"); !ok || "other" != got {
		t.Fatalf("Unrelated Take: got:%q/%v want:%q", got, ok, "other")
	}
}

func TestMemStore_Slice(t *testing.T) {
	for _, c := range []struct {
		name  string
		value string
		want  []string /* Successive slices until ok is false */
	}{
		{"absent", "", nil},
		{"short", "abc", []string{"abc"}},
		{"exact", strings.Repeat("x", 255), []string{
			strings.Repeat("x", 255),
			"",
		}},
		{"long", strings.Repeat("y", 300), []string{
			strings.Repeat("y", 255),
			strings.Repeat("y", 45),
		}},
		{"twoexact", strings.Repeat("z", 510), []string{
			strings.Repeat("z", 255),
			strings.Repeat("z", 255),
			"",
		}},
	} {
		s := NewMemStore()
		if "absent" != c.name {
			s.Put("K", c.value)
		}

		for i, want := range c.want {
			got, ok := s.Slice("K", 255)
			if !ok || got != want {
				t.Fatalf(
					"Slice %v of %q: got:%q/%v want:%q",
					i,
					c.name,
					got,
					ok,
					want,
				)
			}
		}

		/* The entry must be gone afterwards */
		if got, ok := s.Slice("K", 255); ok {
			t.Fatalf(
				"Slice after end of %q returned %q",
				c.name,
				got,
			)
		}
	}
}

func TestMemStore_PutOverwrites(t *testing.T) {
	s := NewMemStore()
	s.Put("K", "first")
	s.Put("K", "second")

	got, ok := s.Slice("K", 255)
	if !ok || "second" != got {
		t.Fatalf("Overwrite failed: got:%q/%v", got, ok)
	}
}

/* Transaction ids and committed keys live in separate namespaces; an id
which happens to equal a key must not touch the key's value. */
func TestMemStore_SeparateNamespaces(t *testing.T) {
	s := NewMemStore()

	s.Put("ABCD", "real value")
	s.Append("ABCD", "chunktext")

	if got, ok := s.Take("ABCD"); !ok || "chunktext" != got {
		t.Fatalf("Pending entry clobbered: got:%q/%v", got, ok)
	}
	if got, ok := s.Slice("ABCD", 255); !ok || "real value" != got {
		t.Fatalf("Committed entry clobbered: got:%q/%v", got, ok)
	}
}
