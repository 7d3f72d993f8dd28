// Package testutil provides test fixtures shared across the causal-log
// packages' test files: a test-scoped logger that adapts a *logrus.Logger's
// output into testing.TB.Log calls, and helpers for building linear chains
// and divergent branches over a store.Memory.
package testutil

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/oriole-systems/causallog/entry"
	"github.com/oriole-systems/causallog/store"
)

type testLoggerAdapter struct {
	t testing.TB
}

func (a *testLoggerAdapter) Write(p []byte) (int, error) {
	if len(p) > 0 && p[len(p)-1] == '\n' {
		p = p[:len(p)-1]
	}
	a.t.Log(string(p))
	return len(p), nil
}

// NewLogger returns a *logrus.Entry that writes through to t.Log, so log
// output only surfaces for failed tests.
func NewLogger(t testing.TB) *logrus.Entry {
	logger := logrus.New()
	logger.Out = &testLoggerAdapter{t: t}
	logger.Level = logrus.DebugLevel
	return logger.WithField("component", "test")
}

// Chain appends n entries to an empty store.Memory, one after another, as
// a linear chain. Each payload is one character: "0" to "9" for the first
// ten entries, "a" to "z" for the next 26, rune('A'+i) after that. It
// returns the store and
// the hash of every entry created, in append order (so hashes[len-1] is
// the chain's head).
func Chain(t testing.TB, n int) (*store.Memory, []entry.Hash) {
	t.Helper()

	s := store.NewMemory()
	logger := NewLogger(t)

	var next []entry.Hash
	hashes := make([]entry.Hash, 0, n)

	for i := 0; i < n; i++ {
		e, err := entry.Create(context.Background(), s, []byte(payloadFor(i)), next, logger)
		if err != nil {
			t.Fatalf("testutil.Chain: entry.Create(%d): %v", i, err)
		}
		hashes = append(hashes, e.Hash())
		next = []entry.Hash{e.Hash()}
	}

	return s, hashes
}

// Fork appends n further entries on top of the given parent hash,
// returning the hash of every entry created.
func Fork(t testing.TB, s store.BlockStore, parent entry.Hash, prefix string, n int) []entry.Hash {
	t.Helper()

	logger := NewLogger(t)
	next := []entry.Hash{parent}
	hashes := make([]entry.Hash, 0, n)

	for i := 0; i < n; i++ {
		e, err := entry.Create(context.Background(), s, []byte(prefix+payloadFor(i)), next, logger)
		if err != nil {
			t.Fatalf("testutil.Fork: entry.Create(%d): %v", i, err)
		}
		hashes = append(hashes, e.Hash())
		next = []entry.Hash{e.Hash()}
	}

	return hashes
}

func payloadFor(i int) string {
	const digits = "0123456789abcdefghijklmnopqrstuvwxyz"
	if i < len(digits) {
		return string(digits[i])
	}
	return string(rune('A' + i))
}
