// Package store defines the block store adapter the causal-log core
// consumes (put/get over opaque, content-addressed bytes) and ships two
// reference implementations: an in-memory store for tests and small
// programs, and a BadgerDB-backed disk store for the CLI.
package store

import "context"

// Hash is an opaque, lexicographically-ordered, store-assigned string
// identifying a block by its content.
type Hash = string

// BlockStore is the minimal interface the causal-log core consumes. Put is
// idempotent with respect to content: putting the same bytes twice yields
// the same Hash. Get fails with a NotFound-kind error (see causalerr) if no
// block with that hash exists.
type BlockStore interface {
	Put(ctx context.Context, data []byte) (Hash, error)
	Get(ctx context.Context, hash Hash) ([]byte, error)
}
