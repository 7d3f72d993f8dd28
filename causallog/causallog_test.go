package causallog

import (
	"context"
	"testing"

	"github.com/oriole-systems/causallog/causalerr"
	"github.com/oriole-systems/causallog/entry"
	"github.com/oriole-systems/causallog/store"
)

func appendN(t *testing.T, s store.BlockStore, log Log, payloads ...string) Log {
	t.Helper()
	for _, p := range payloads {
		var err error
		log, err = Append(context.Background(), s, log, []byte(p), nil)
		if err != nil {
			t.Fatalf("Append(%q): %v", p, err)
		}
	}
	return log
}

func TestAppendSingleEntryRoundTrip(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)

	log = appendN(t, s, log, "hello")

	if log.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", log.Len())
	}
	if len(log.Heads()) != 1 {
		t.Fatalf("len(Heads()) = %d, want 1", len(log.Heads()))
	}

	hash, err := ToHash(context.Background(), s, log, nil)
	if err != nil {
		t.Fatalf("ToHash: %v", err)
	}

	back, err := FromHash(context.Background(), s, hash, -1, nil)
	if err != nil {
		t.Fatalf("FromHash: %v", err)
	}

	if back.Len() != 1 {
		t.Fatalf("round-tripped Len() = %d, want 1", back.Len())
	}
	got, ok := back.Get(log.Heads()[0])
	if !ok {
		t.Fatalf("round-tripped log missing entry %s", log.Heads()[0])
	}
	if string(got.Payload()) != "hello" {
		t.Errorf("Payload = %q, want %q", got.Payload(), "hello")
	}
}

func TestToHashRejectsEmptyLog(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)

	_, err := ToHash(context.Background(), s, log, nil)
	if !causalerr.Is(err, causalerr.EmptyLog) {
		t.Fatalf("ToHash on an empty log: got %v, want EmptyLog", err)
	}
}

func TestStringRendersNewestFirstWithAncestryIndent(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)
	log = appendN(t, s, log, "0", "1", "2")

	got := log.String()
	want := "2\n└─1\n  └─0"

	if got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestFromHashBoundedLengthLoadsOnlyThatManyEntries(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)
	for i := 0; i < 100; i++ {
		var err error
		log, err = Append(context.Background(), s, log, []byte{byte(i)}, nil)
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	hash, err := ToHash(context.Background(), s, log, nil)
	if err != nil {
		t.Fatalf("ToHash: %v", err)
	}

	bounded, err := FromHash(context.Background(), s, hash, 10, nil)
	if err != nil {
		t.Fatalf("FromHash: %v", err)
	}
	if bounded.Len() != 10 {
		t.Fatalf("bounded.Len() = %d, want 10", bounded.Len())
	}

	full, err := FromHash(context.Background(), s, hash, -1, nil)
	if err != nil {
		t.Fatalf("FromHash unbounded: %v", err)
	}
	if full.Len() != 100 {
		t.Fatalf("full.Len() = %d, want 100", full.Len())
	}
}

func TestExpandGrowsABoundedLogBackToFull(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)
	log = appendN(t, s, log, "a", "b", "c", "d", "e")

	hash, err := ToHash(context.Background(), s, log, nil)
	if err != nil {
		t.Fatalf("ToHash: %v", err)
	}

	bounded, err := FromHash(context.Background(), s, hash, 2, nil)
	if err != nil {
		t.Fatalf("FromHash bounded: %v", err)
	}
	if bounded.Len() != 2 {
		t.Fatalf("bounded.Len() = %d, want 2", bounded.Len())
	}

	expanded, err := Expand(context.Background(), s, bounded, -1, nil, nil)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if expanded.Len() != 5 {
		t.Fatalf("expanded.Len() = %d, want 5", expanded.Len())
	}
}

func TestJoinIsCommutativeInResultingEntrySet(t *testing.T) {
	s := store.NewMemory()

	base := Create(nil, nil)
	base = appendN(t, s, base, "root")
	rootHash := base.Heads()[0]

	a := appendN(t, s, base, "a1", "a2")
	b := appendN(t, s, base, "b1", "b2", "b3")

	ab, err := Join(a, b, -1)
	if err != nil {
		t.Fatalf("Join(a, b): %v", err)
	}
	ba, err := Join(b, a, -1)
	if err != nil {
		t.Fatalf("Join(b, a): %v", err)
	}

	if ab.Len() != ba.Len() {
		t.Fatalf("len mismatch: Join(a,b)=%d, Join(b,a)=%d", ab.Len(), ba.Len())
	}

	setAB := make(map[entry.Hash]bool, ab.Len())
	for _, e := range ab.Items() {
		setAB[e.Hash()] = true
	}
	for _, e := range ba.Items() {
		if !setAB[e.Hash()] {
			t.Errorf("entry %s present in Join(b,a) but not Join(a,b)", e.Hash())
		}
	}

	// Join(a, b) and Join(b, a) must agree not just on the entry set but
	// on the resulting order: the whole point of a deterministic
	// linearization is that it does not depend on argument order.
	for i := range ab.Items() {
		if ab.Items()[i].Hash() != ba.Items()[i].Hash() {
			t.Fatalf("position %d: Join(a,b) has %s, Join(b,a) has %s", i, ab.Items()[i].Hash(), ba.Items()[i].Hash())
		}
	}

	if _, ok := ab.Get(rootHash); !ok {
		t.Errorf("joined log missing common ancestor %s", rootHash)
	}
	if ab.Len() != 6 {
		t.Fatalf("Len() = %d, want 6 (root + 2 from a + 3 from b)", ab.Len())
	}
}

func TestJoinLinearizationIsIndependentOfArgumentOrderOnDivergentSingleEntryBranches(t *testing.T) {
	s := store.NewMemory()
	base := Create(nil, nil)
	base = appendN(t, s, base, "root")

	a := appendN(t, s, base, "a1")
	b := appendN(t, s, base, "b1")

	ab, err := Join(a, b, -1)
	if err != nil {
		t.Fatalf("Join(a, b): %v", err)
	}
	ba, err := Join(b, a, -1)
	if err != nil {
		t.Fatalf("Join(b, a): %v", err)
	}

	if ab.Len() != ba.Len() {
		t.Fatalf("len mismatch: Join(a,b)=%d, Join(b,a)=%d", ab.Len(), ba.Len())
	}
	for i := range ab.Items() {
		if ab.Items()[i].Hash() != ba.Items()[i].Hash() {
			t.Fatalf("position %d: Join(a,b) has %s, Join(b,a) has %s", i, ab.Items()[i].Hash(), ba.Items()[i].Hash())
		}
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)
	log = appendN(t, s, log, "x", "y", "z")

	joined, err := Join(log, log, -1)
	if err != nil {
		t.Fatalf("Join(log, log): %v", err)
	}

	if joined.Len() != log.Len() {
		t.Fatalf("Join(log, log).Len() = %d, want %d", joined.Len(), log.Len())
	}
}

func TestJoinAllFoldsAcrossMultipleLogs(t *testing.T) {
	s := store.NewMemory()
	base := Create(nil, nil)
	base = appendN(t, s, base, "root")

	a := appendN(t, s, base, "a1")
	b := appendN(t, s, base, "b1")
	c := appendN(t, s, base, "c1")

	joined, err := JoinAll(s, []Log{a, b, c}, -1)
	if err != nil {
		t.Fatalf("JoinAll: %v", err)
	}

	if joined.Len() != 4 {
		t.Fatalf("Len() = %d, want 4 (root + one entry each from a, b, c)", joined.Len())
	}
}

func TestValidateCatchesDuplicateHash(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)
	log = appendN(t, s, log, "only")

	items := log.Items()
	dup := Create([]entry.Entry{items[0], items[0]}, nil)

	if err := Validate(dup); !causalerr.Is(err, causalerr.BadArgument) {
		t.Fatalf("Validate on a duplicated entry: got %v, want BadArgument", err)
	}
}

func TestValidateCatchesPredecessorAppearingAfterItsChild(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	p, err := entry.Create(ctx, s, []byte("p"), nil, nil)
	if err != nil {
		t.Fatalf("Create p: %v", err)
	}
	e, err := entry.Create(ctx, s, []byte("e"), []entry.Hash{p.Hash()}, nil)
	if err != nil {
		t.Fatalf("Create e: %v", err)
	}

	// e names p as a predecessor but is placed before it in the entry
	// sequence: this must be rejected even though p never appears in
	// "seen so far" when e itself is checked.
	outOfOrder := Create([]entry.Entry{e, p}, []entry.Hash{e.Hash()})

	if err := Validate(outOfOrder); !causalerr.Is(err, causalerr.BadArgument) {
		t.Fatalf("Validate on an out-of-order predecessor: got %v, want BadArgument", err)
	}
}

func TestFindHeadsOfSingleEntryLogIsThatEntry(t *testing.T) {
	s := store.NewMemory()
	log := Create(nil, nil)
	log = appendN(t, s, log, "only-one")

	heads := FindHeads(log.Items())
	if len(heads) != 1 {
		t.Fatalf("len(heads) = %d, want 1", len(heads))
	}
	if heads[0] != log.Items()[0].Hash() {
		t.Errorf("heads[0] = %s, want %s", heads[0], log.Items()[0].Hash())
	}
}
