// Package causallog implements the Log value, an ordered sequence of
// entries plus a set of head hashes, and the pure and store-touching
// operations that produce new Log values from it.
package causallog

import (
	"sort"
	"strings"

	"github.com/oriole-systems/causallog/causalerr"
	"github.com/oriole-systems/causallog/entry"
)

// Log is an immutable value: an ordered sequence of entries plus the set
// of current head hashes. Operations never mutate a Log; they return a
// new one.
type Log struct {
	entries []entry.Entry
	heads   []entry.Hash
}

// Create builds a Log from an explicit entry sequence and, optionally, an
// explicit head set. If heads is nil, it is computed with FindHeads.
// Create does not deduplicate or validate causal order; use Validate for
// that.
func Create(entries []entry.Entry, heads []entry.Hash) Log {
	entriesCopy := make([]entry.Entry, len(entries))
	copy(entriesCopy, entries)

	var headsCopy []entry.Hash
	if heads != nil {
		headsCopy = make([]entry.Hash, len(heads))
		copy(headsCopy, heads)
	} else {
		headsCopy = FindHeads(entriesCopy)
	}

	return Log{entries: entriesCopy, heads: headsCopy}
}

// Get performs a linear scan of the log's entries for one with the given
// hash.
func (l Log) Get(hash entry.Hash) (entry.Entry, bool) {
	for _, e := range l.entries {
		if e.Hash() == hash {
			return e, true
		}
	}
	return entry.Entry{}, false
}

// Items returns the log's ordered entry sequence. The caller must not
// mutate the returned slice.
func (l Log) Items() []entry.Entry {
	return l.entries
}

// Heads returns the log's current head hashes, in whatever order the
// operation that produced this Log established (Create's default and
// Join sort them lexicographically via FindHeads; FromHash preserves the
// order recorded in the log's metadata block). The caller must not
// mutate the returned slice.
func (l Log) Heads() []entry.Hash {
	return l.heads
}

// Len returns the number of entries in the log.
func (l Log) Len() int {
	return len(l.entries)
}

// IsEmpty reports whether the log has no entries.
func (l Log) IsEmpty() bool {
	return len(l.entries) == 0
}

// FindHeads returns the hashes of entries in entries that are not named
// as a predecessor by any other entry in entries, sorted lexicographically
// for determinism.
func FindHeads(entries []entry.Entry) []entry.Hash {
	referenced := make(map[entry.Hash]struct{}, len(entries))
	for _, e := range entries {
		for _, h := range e.Next() {
			referenced[h] = struct{}{}
		}
	}

	heads := make([]entry.Hash, 0, len(entries))
	for _, e := range entries {
		if _, ok := referenced[e.Hash()]; !ok {
			heads = append(heads, e.Hash())
		}
	}

	sort.Slice(heads, func(i, j int) bool { return strings.Compare(heads[i], heads[j]) < 0 })

	return heads
}

// Validate checks the universal invariants a Log is expected to hold: no
// duplicate entry hashes, and every entry appears after every
// already-present predecessor it names. It does not require causal
// closure (dangling Next references into entries not present are
// permitted, matching a bounded, in-progress Log).
func Validate(l Log) error {
	index := make(map[entry.Hash]int, len(l.entries))
	for idx, e := range l.entries {
		if _, dup := index[e.Hash()]; dup {
			return causalerr.New(causalerr.BadArgument, "duplicate entry hash %s", e.Hash())
		}
		index[e.Hash()] = idx
	}

	for idx, e := range l.entries {
		for _, h := range e.Next() {
			if pidx, ok := index[h]; ok && pidx >= idx {
				return causalerr.New(causalerr.BadArgument, "predecessor %s of %s does not precede it", h, e.Hash())
			}
		}
	}

	referenced := make(map[entry.Hash]struct{}, len(l.entries))
	for _, e := range l.entries {
		for _, h := range e.Next() {
			referenced[h] = struct{}{}
		}
	}
	for _, h := range l.heads {
		if _, ok := referenced[h]; ok {
			return causalerr.New(causalerr.BadArgument, "head %s is referenced by another entry", h)
		}
	}

	return nil
}
