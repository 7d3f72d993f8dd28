package causallog

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oriole-systems/causallog/causalerr"
	"github.com/oriole-systems/causallog/entry"
	"github.com/oriole-systems/causallog/fetch"
	"github.com/oriole-systems/causallog/sortlog"
	"github.com/oriole-systems/causallog/store"
)

func withLogger(logger *logrus.Entry) *logrus.Entry {
	if logger != nil {
		return logger
	}
	discard := logrus.New()
	discard.Out = discardWriter{}
	return discard.WithField("component", "causallog")
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Append creates a new entry whose predecessors are log's current heads,
// writes it to the store, and returns a new Log with that entry appended
// and as its sole head.
func Append(ctx context.Context, s store.BlockStore, log Log, payload []byte, logger *logrus.Entry) (Log, error) {
	logger = withLogger(logger)

	if s == nil {
		return Log{}, causalerr.New(causalerr.StoreMissing, "causallog.Append requires a store")
	}

	e, err := entry.Create(ctx, s, payload, log.Heads(), logger)
	if err != nil {
		return Log{}, err
	}

	entries := make([]entry.Entry, len(log.entries), len(log.entries)+1)
	copy(entries, log.entries)
	entries = append(entries, e)

	return Log{entries: entries, heads: []entry.Hash{e.Hash()}}, nil
}

// Join returns the causal union of a and b, linearized per sortlog.Sort
// and optionally truncated to size entries (size < 0 means the default,
// len(a.Items())+len(b.Items())). Join is synchronous and side-effect
// free: it only resolves predecessors already materialized in a or b, so
// it takes no store and no context.
func Join(a, b Log, size int) (Log, error) {
	headEntriesA := resolveHeads(a)
	headEntriesB := resolveHeads(b)

	if size < 0 {
		size = len(a.entries) + len(b.entries)
	}

	if len(headEntriesA) == 0 && len(headEntriesB) == 0 {
		return Create(nil, nil), nil
	}

	// Tie-break orientation: this makes the outcome a function of head
	// identity rather than argument order, so Join(a, b) and Join(b, a)
	// agree on the resulting linearization, not just the resulting entry
	// set. The seed queue itself must follow the same orientation as the
	// lookups, since sortlog.Sort breaks ties by first-seen queue order.
	l1, l2 := &a, &b
	headEntries1, headEntries2 := headEntriesA, headEntriesB
	if len(headEntriesA) > 0 && len(headEntriesB) > 0 {
		aa := headEntriesA[0].Hash()
		bb := headEntriesB[0].Hash()
		if strings.Compare(aa, bb) >= 0 {
			l1, l2 = &b, &a
			headEntries1, headEntries2 = headEntriesB, headEntriesA
		}
	} else if len(headEntriesA) == 0 {
		l1, l2 = &b, &a
		headEntries1, headEntries2 = headEntriesB, headEntriesA
	}

	seeds := make([]entry.Entry, 0, len(headEntries1)+len(headEntries2))
	seeds = append(seeds, headEntries1...)
	seeds = append(seeds, headEntries2...)

	ctx := context.Background()
	sorted, err := sortlog.Sort(ctx, seeds, logLookup(l1), logLookup(l2))
	if err != nil {
		return Log{}, err
	}

	if size < len(sorted) {
		sorted = sorted[:size]
	}

	return Log{entries: sorted, heads: FindHeads(sorted)}, nil
}

// JoinAll left-folds Join over logs, using the first non-empty log as the
// initial accumulator. store is accepted to mirror the named operation's
// signature but is unused: JoinAll, like Join, only touches already
// materialized Logs.
func JoinAll(s store.BlockStore, logs []Log, size int) (Log, error) {
	_ = s

	startIdx := -1
	for i, l := range logs {
		if !l.IsEmpty() {
			startIdx = i
			break
		}
	}
	if startIdx == -1 {
		return Create(nil, nil), nil
	}

	acc := logs[startIdx]
	for _, l := range logs[startIdx+1:] {
		joined, err := Join(acc, l, size)
		if err != nil {
			return Log{}, err
		}
		acc = joined
	}

	return acc, nil
}

// Expand grows log backward along its unresolved ancestry: it fetches up
// to length-len(log.Items()) additional entries (or unbounded if
// length == -1) starting from log's tails, hashes referenced by some
// entry's Next() that are not yet present, then merges, re-sorts, and
// rebuilds the Log.
func Expand(ctx context.Context, s store.BlockStore, log Log, length int, exclude map[entry.Hash]struct{}, logger *logrus.Entry) (Log, error) {
	logger = withLogger(logger)

	if s == nil {
		return Log{}, causalerr.New(causalerr.StoreMissing, "causallog.Expand requires a store")
	}

	tails := findTails(log.entries)
	if len(tails) == 0 {
		return log, nil
	}

	budget := -1
	if length >= 0 {
		budget = length - len(log.entries)
		if budget < 0 {
			budget = 0
		}
	}

	excludeSet := make(map[entry.Hash]struct{}, len(log.entries)+len(exclude))
	for _, e := range log.entries {
		excludeSet[e.Hash()] = struct{}{}
	}
	for h := range exclude {
		excludeSet[h] = struct{}{}
	}

	fetched, err := fetch.FetchAll(ctx, s, tails, budget, excludeSet, logger)
	if err != nil {
		return Log{}, err
	}

	union := make([]entry.Entry, 0, len(log.entries)+len(fetched))
	union = append(union, log.entries...)
	union = append(union, fetched...)

	sorted, err := sortlog.Sort(ctx, union)
	if err != nil {
		return Log{}, err
	}

	return Create(sorted, nil), nil
}

// FromHash fetches the JSON log metadata block at hash, then fetches up
// to length entries (length == -1 means the whole reachable DAG) starting
// from the metadata's heads, and constructs a new Log with exactly those
// heads.
func FromHash(ctx context.Context, s store.BlockStore, hash entry.Hash, length int, logger *logrus.Entry) (Log, error) {
	logger = withLogger(logger)

	if s == nil {
		return Log{}, causalerr.New(causalerr.StoreMissing, "causallog.FromHash requires a store")
	}

	raw, err := s.Get(ctx, hash)
	if err != nil {
		return Log{}, causalerr.Wrap(causalerr.NotFound, err, "get %s failed", hash)
	}

	var meta logJSON
	if jsonErr := json.Unmarshal(raw, &meta); jsonErr != nil || meta.Heads == nil {
		return Log{}, causalerr.New(causalerr.NotALog, "block %s does not decode to a log metadata block", hash)
	}

	fetched, err := fetch.FetchAll(ctx, s, meta.Heads, length, nil, logger)
	if err != nil {
		return Log{}, err
	}

	sorted, err := sortlog.Sort(ctx, fetched)
	if err != nil {
		return Log{}, err
	}

	return Log{entries: sorted, heads: meta.Heads}, nil
}

// ToHash serializes log.ToJSON() and writes it to the store, returning
// the resulting hash. Fails with EmptyLog if log has no entries.
func ToHash(ctx context.Context, s store.BlockStore, log Log, logger *logrus.Entry) (entry.Hash, error) {
	logger = withLogger(logger)

	if s == nil {
		return "", causalerr.New(causalerr.StoreMissing, "causallog.ToHash requires a store")
	}
	if log.IsEmpty() {
		return "", causalerr.New(causalerr.EmptyLog, "cannot hash an empty log")
	}

	raw, err := log.ToJSON()
	if err != nil {
		return "", causalerr.Wrap(causalerr.Malformed, err, "marshaling log metadata")
	}

	h, err := s.Put(ctx, raw)
	if err != nil {
		return "", causalerr.Wrap(causalerr.StoreError, err, "put failed")
	}

	return h, nil
}

func resolveHeads(l Log) []entry.Entry {
	heads := make([]entry.Entry, 0, len(l.heads))
	for _, h := range l.heads {
		if e, ok := l.Get(h); ok {
			heads = append(heads, e)
		}
	}
	return heads
}

func logLookup(l *Log) sortlog.Lookup {
	return func(_ context.Context, h entry.Hash) (entry.Entry, bool, error) {
		e, ok := l.Get(h)
		return e, ok, nil
	}
}

func findTails(entries []entry.Entry) []entry.Hash {
	present := make(map[entry.Hash]struct{}, len(entries))
	for _, e := range entries {
		present[e.Hash()] = struct{}{}
	}

	seen := make(map[entry.Hash]struct{})
	var tails []entry.Hash
	for _, e := range entries {
		for _, h := range e.Next() {
			if _, ok := present[h]; ok {
				continue
			}
			if _, dup := seen[h]; dup {
				continue
			}
			seen[h] = struct{}{}
			tails = append(tails, h)
		}
	}
	return tails
}
