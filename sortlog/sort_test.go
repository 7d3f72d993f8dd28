package sortlog

import (
	"context"
	"testing"

	"github.com/oriole-systems/causallog/entry"
	"github.com/oriole-systems/causallog/store"
	"github.com/oriole-systems/causallog/testutil"
)

func fetchAll(t *testing.T, s store.BlockStore, hashes []entry.Hash) []entry.Entry {
	t.Helper()
	entries := make([]entry.Entry, 0, len(hashes))
	for _, h := range hashes {
		e, err := entry.FromHash(context.Background(), s, h, nil)
		if err != nil {
			t.Fatalf("FromHash(%s): %v", h, err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestSortLinearChainIsOrderPreservingRegardlessOfInputOrder(t *testing.T) {
	s, hashes := testutil.Chain(t, 5)

	entries := fetchAll(t, s, hashes)

	scrambled := []entry.Entry{entries[3], entries[0], entries[4], entries[1], entries[2]}

	sorted, err := Sort(context.Background(), scrambled)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}

	if len(sorted) != len(entries) {
		t.Fatalf("len(sorted) = %d, want %d", len(sorted), len(entries))
	}
	for i, e := range sorted {
		if e.Hash() != entries[i].Hash() {
			t.Errorf("sorted[%d] = %s, want %s", i, e.Hash(), entries[i].Hash())
		}
	}
}

func TestSortIsDeterministicAcrossInputPermutations(t *testing.T) {
	s, hashes := testutil.Chain(t, 6)
	entries := fetchAll(t, s, hashes)

	perm1 := []entry.Entry{entries[5], entries[1], entries[3], entries[0], entries[4], entries[2]}
	perm2 := []entry.Entry{entries[2], entries[4], entries[0], entries[3], entries[1], entries[5]}

	sorted1, err := Sort(context.Background(), perm1)
	if err != nil {
		t.Fatalf("Sort perm1: %v", err)
	}
	sorted2, err := Sort(context.Background(), perm2)
	if err != nil {
		t.Fatalf("Sort perm2: %v", err)
	}

	if len(sorted1) != len(sorted2) {
		t.Fatalf("len mismatch: %d vs %d", len(sorted1), len(sorted2))
	}
	for i := range sorted1 {
		if sorted1[i].Hash() != sorted2[i].Hash() {
			t.Errorf("position %d: %s vs %s", i, sorted1[i].Hash(), sorted2[i].Hash())
		}
	}
}

func TestSortResolvesPredecessorsThroughLookup(t *testing.T) {
	s, hashes := testutil.Chain(t, 3)
	entries := fetchAll(t, s, hashes)

	lookup := func(ctx context.Context, h entry.Hash) (entry.Entry, bool, error) {
		e, err := entry.FromHash(ctx, s, h, nil)
		if err != nil {
			return entry.Entry{}, false, nil
		}
		return e, true, nil
	}

	sorted, err := Sort(context.Background(), []entry.Entry{entries[2]}, lookup)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}

	if len(sorted) != 3 {
		t.Fatalf("len(sorted) = %d, want 3 (the head plus its two ancestors)", len(sorted))
	}
	for i, e := range sorted {
		if e.Hash() != entries[i].Hash() {
			t.Errorf("sorted[%d] = %s, want %s", i, e.Hash(), entries[i].Hash())
		}
	}
}

func TestSortMergePointComesAfterBothBranches(t *testing.T) {
	s, chainHashes := testutil.Chain(t, 1)
	root := chainHashes[0]

	leftHashes := testutil.Fork(t, s, root, "left-", 2)
	rightHashes := testutil.Fork(t, s, root, "right-", 2)

	merge, err := entry.Create(context.Background(), s, []byte("merge"),
		[]entry.Hash{leftHashes[1], rightHashes[1]}, nil)
	if err != nil {
		t.Fatalf("Create merge: %v", err)
	}

	lookup := func(ctx context.Context, h entry.Hash) (entry.Entry, bool, error) {
		e, err := entry.FromHash(ctx, s, h, nil)
		if err != nil {
			return entry.Entry{}, false, nil
		}
		return e, true, nil
	}

	sorted, err := Sort(context.Background(), []entry.Entry{merge}, lookup)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}

	pos := make(map[entry.Hash]int, len(sorted))
	for i, e := range sorted {
		pos[e.Hash()] = i
	}

	if len(sorted) != 6 {
		t.Fatalf("len(sorted) = %d, want 6 (root + 2 left + 2 right + merge)", len(sorted))
	}
	if pos[merge.Hash()] != len(sorted)-1 {
		t.Errorf("merge entry at position %d, want last (%d)", pos[merge.Hash()], len(sorted)-1)
	}
	for _, h := range []entry.Hash{leftHashes[1], rightHashes[1]} {
		if pos[h] >= pos[merge.Hash()] {
			t.Errorf("branch tip %s at %d did not precede merge at %d", h, pos[h], pos[merge.Hash()])
		}
	}
	if pos[root] != 0 {
		t.Errorf("root at position %d, want 0", pos[root])
	}
}
