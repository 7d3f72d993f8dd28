// Package fetch implements the bounded, causally-biased breadth-first
// traversal that materializes entries from a block store starting at a
// set of seed hashes, subject to a fetch budget and an exclusion set.
package fetch

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oriole-systems/causallog/causalerr"
	"github.com/oriole-systems/causallog/entry"
	"github.com/oriole-systems/causallog/store"
)

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = discardWriter{}
	return l.WithField("component", "fetch")
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// FetchAll walks the DAG reachable from seeds, following Next edges,
// fetching at most budget entries (budget = -1 means unbounded) and
// never returning a hash present in exclude. Traversal is causally
// biased breadth-first: each entry's own predecessors are queued
// immediately after it, ahead of the remaining siblings at its level.
func FetchAll(ctx context.Context, s store.BlockStore, seeds []entry.Hash, budget int, exclude map[entry.Hash]struct{}, logger *logrus.Entry) ([]entry.Entry, error) {
	if logger == nil {
		logger = discardLogger()
	}

	if s == nil {
		return nil, causalerr.New(causalerr.StoreMissing, "fetch.FetchAll requires a store")
	}

	if exclude == nil {
		exclude = map[entry.Hash]struct{}{}
	}

	queue := make([]entry.Hash, len(seeds))
	copy(queue, seeds)

	seen := make(map[entry.Hash]struct{}, len(seeds))
	result := make([]entry.Entry, 0, len(seeds))

	for len(queue) > 0 && (budget < 0 || len(result) < budget) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h := queue[0]
		queue = queue[1:]

		if _, excluded := exclude[h]; excluded {
			continue
		}
		if _, already := seen[h]; already {
			continue
		}
		seen[h] = struct{}{}

		logger.WithField("hash", h).Debug("fetching entry")

		e, err := entry.FromHash(ctx, s, h, logger)
		if err != nil {
			return nil, err
		}

		result = append(result, e)

		// The just-fetched entry's predecessors go right after it, ahead
		// of whatever else remains queued at this level.
		queue = append(append(make([]entry.Hash, 0, len(e.Next())+len(queue)), e.Next()...), queue...)
	}

	return result, nil
}
