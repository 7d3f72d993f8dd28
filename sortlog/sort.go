// Package sortlog implements the deterministic topological linearization
// of a causal-log's entries, built around an explicit insertion-buffer
// algorithm and a proper three-valued lexicographic comparator anywhere
// a comparison is needed, rather than a boolean predicate.
package sortlog

import (
	"context"

	"github.com/oriole-systems/causallog/entry"
)

// Lookup resolves a hash to an entry from some external source (typically
// a block store), returning ok=false if the hash is unknown to that
// source rather than treating that as an error.
type Lookup func(ctx context.Context, hash entry.Hash) (entry.Entry, bool, error)

// Sort linearizes entries into a causally consistent sequence. The
// result contains every entry of entries (deduped by hash, first-seen
// wins) plus every entry transitively reachable from entries through the
// given lookups. For every entry e in the result and every predecessor p
// with p.Hash() in e.Next(), if p is in the result then p appears before
// e. The result is a deterministic function of entries and lookups.
func Sort(ctx context.Context, entries []entry.Entry, lookups ...Lookup) ([]entry.Entry, error) {
	firstSeen := make(map[entry.Hash]entry.Entry, len(entries))
	for _, e := range entries {
		if _, ok := firstSeen[e.Hash()]; !ok {
			firstSeen[e.Hash()] = e
		}
	}

	queue := make([]entry.Entry, len(entries))
	copy(queue, entries)

	processed := make(map[entry.Hash]bool, len(entries))
	result := make([]entry.Entry, 0, len(entries))

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e := queue[0]
		queue = queue[1:]

		if processed[e.Hash()] {
			continue
		}

		// Predecessors not yet inserted go to the front of the queue, with
		// e right behind them, so e is inserted only after all of them.
		var toResolve []entry.Entry
		for _, h := range e.Next() {
			resolved, ok, err := resolve(ctx, h, firstSeen, lookups)
			if err != nil {
				return nil, err
			}
			if ok && !processed[h] {
				toResolve = append(toResolve, resolved)
			}
		}
		if len(toResolve) > 0 {
			toResolve = append(toResolve, e)
			queue = append(append(make([]entry.Entry, 0, len(toResolve)+len(queue)), toResolve...), queue...)
			continue
		}

		processed[e.Hash()] = true
		pos := insertionPosition(result, e)
		result = insertAt(result, pos)
		result[pos] = e
	}

	return result, nil
}

// insertionPosition computes where e belongs in the partially built
// result: after every already-present predecessor of e (i1+1), and
// before every already-present entry that names e as a predecessor (i2).
// When neither constraint applies, position 0 is used.
func insertionPosition(result []entry.Entry, e entry.Entry) int {
	i1 := -1
	for _, h := range e.Next() {
		if idx := positionOf(result, h); idx > i1 {
			i1 = idx
		}
	}

	i2 := -1
	for idx, r := range result {
		if containsHash(r.Next(), e.Hash()) && idx > i2 {
			i2 = idx
		}
	}

	c1 := i1 + 1
	c2 := i2
	if c2 == -1 {
		c2 = len(result) // unconstrained: any position up to append is fine
	}

	if c1 < c2 {
		return c1
	}
	return c2
}

func positionOf(result []entry.Entry, h entry.Hash) int {
	for idx, r := range result {
		if r.Hash() == h {
			return idx
		}
	}
	return -1
}

func containsHash(hashes []entry.Hash, h entry.Hash) bool {
	for _, x := range hashes {
		if x == h {
			return true
		}
	}
	return false
}

// insertAt grows result by one slot at pos, leaving the caller to fill it
// in (the caller always immediately assigns result[pos]).
func insertAt(result []entry.Entry, pos int) []entry.Entry {
	result = append(result, entry.Entry{})
	copy(result[pos+1:], result[pos:])
	return result
}

func resolve(ctx context.Context, h entry.Hash, firstSeen map[entry.Hash]entry.Entry, lookups []Lookup) (entry.Entry, bool, error) {
	if e, ok := firstSeen[h]; ok {
		return e, true, nil
	}
	for _, lookup := range lookups {
		if lookup == nil {
			continue
		}
		e, ok, err := lookup(ctx, h)
		if err != nil {
			return entry.Entry{}, false, err
		}
		if ok {
			return e, true, nil
		}
	}
	return entry.Entry{}, false, nil
}
