package sampler

import (
	"fmt"
	"testing"
)

func TestSampleReturnsDistinctEligible(t *testing.T) {
	t.Parallel()

	manifest := make([]string, 100)
	for i := range manifest {
		manifest[i] = fmt.Sprintf("doc_%03d.html", i)
	}

	excluded := NewExclusionSet()
	for i := 0; i < 40; i++ {
		excluded.Add(manifest[i])
	}

	got := Sample(manifest, excluded, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 identifiers, got %d", len(got))
	}

	seen := map[string]struct{}{}
	for _, id := range got {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate identifier %s", id)
		}
		seen[id] = struct{}{}
		if excluded.Has(id) {
			t.Fatalf("sampled excluded identifier %s", id)
		}
	}
}

func TestSampleFewerEligibleThanRequested(t *testing.T) {
	t.Parallel()

	manifest := []string{"a.html", "b.html", "c.html", "d.html", "e.html"}
	got := Sample(manifest, NewExclusionSet(), 30)

	if len(got) != 5 {
		t.Fatalf("expected all 5 identifiers, got %d", len(got))
	}

	seen := map[string]struct{}{}
	for _, id := range got {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate identifier %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSampleDoesNotMutateExclusion(t *testing.T) {
	t.Parallel()

	manifest := []string{"a.html", "b.html", "c.html"}
	excluded := NewExclusionSet()
	excluded.Add("a.html")

	_ = Sample(manifest, excluded, 3)

	if excluded.Len() != 1 {
		t.Fatalf("exclusion set mutated, len = %d", excluded.Len())
	}
}

func TestExclusionSetTruncateDropsOldest(t *testing.T) {
	t.Parallel()

	set := NewExclusionSet()
	for i := 0; i < 10; i++ {
		set.Add(fmt.Sprintf("doc_%d", i))
	}

	set.Truncate(4)

	if set.Len() != 4 {
		t.Fatalf("expected 4 entries after truncate, got %d", set.Len())
	}
	for i := 0; i < 6; i++ {
		if set.Has(fmt.Sprintf("doc_%d", i)) {
			t.Fatalf("old entry doc_%d survived truncation", i)
		}
	}
	for i := 6; i < 10; i++ {
		if !set.Has(fmt.Sprintf("doc_%d", i)) {
			t.Fatalf("recent entry doc_%d lost in truncation", i)
		}
	}
}

func TestExclusionSetReAddIsNoop(t *testing.T) {
	t.Parallel()

	set := NewExclusionSet()
	set.Add("a")
	set.Add("a")

	if set.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", set.Len())
	}
}
