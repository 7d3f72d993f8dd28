// Package entry implements the immutable DAG node of a causal-log: the
// Entry type, its content-addressed hash, and the CBOR wire encoding used
// to persist it to a block store. The serialized body determines the
// hash, and the Entry type caches it.
package entry

import (
	"bytes"
	"context"

	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"

	"github.com/oriole-systems/causallog/causalerr"
	"github.com/oriole-systems/causallog/store"
)

// Hash is an opaque, store-assigned, lexicographically-ordered identifier.
type Hash = string

// body is the on-store wire shape: (payload, next[]). The entry's hash is
// a pure function of these two fields and nothing else.
type body struct {
	Payload []byte
	Next    []Hash
}

func (b body) marshal() ([]byte, error) {
	var buf bytes.Buffer
	h := new(codec.CborHandle)
	enc := codec.NewEncoder(&buf, h)
	if err := enc.Encode(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalBody(data []byte) (body, error) {
	var b body
	h := new(codec.CborHandle)
	dec := codec.NewDecoder(bytes.NewReader(data), h)
	if err := dec.Decode(&b); err != nil {
		return body{}, err
	}
	return b, nil
}

// Entry is an immutable DAG node. Its zero value is not meaningful; use
// Create or FromHash to obtain one.
type Entry struct {
	payload []byte
	next    []Hash
	hash    Hash
}

// Payload returns the entry's opaque application data.
func (e Entry) Payload() []byte {
	return e.payload
}

// Next returns the entry's ordered predecessor hashes. The caller must not
// mutate the returned slice.
func (e Entry) Next() []Hash {
	return e.next
}

// Hash returns the entry's stable, content-derived identifier.
func (e Entry) Hash() Hash {
	return e.hash
}

// HasChild reports whether child.Hash() is listed in parent.Next(), i.e.
// whether parent names child as one of its causal predecessors. The name
// is inverted from what it tests: it asks whether child is a parent-of
// parent in the DAG, not whether parent is an ancestor of child.
func HasChild(parent, child Entry) bool {
	for _, h := range parent.next {
		if h == child.hash {
			return true
		}
	}
	return false
}

func withLogger(logger *logrus.Entry) *logrus.Entry {
	if logger != nil {
		return logger
	}
	discard := logrus.New()
	discard.Out = ioDiscard{}
	return discard.WithField("component", "entry")
}

type ioDiscard struct{}

func (ioDiscard) Write(p []byte) (int, error) { return len(p), nil }

// Create serializes (payload, next) into the block store's wire format,
// writes it, and returns the resulting Entry. next may be empty for a
// genesis entry.
func Create(ctx context.Context, s store.BlockStore, payload []byte, next []Hash, logger *logrus.Entry) (Entry, error) {
	logger = withLogger(logger)

	if s == nil {
		return Entry{}, causalerr.New(causalerr.StoreMissing, "entry.Create requires a store")
	}

	nextCopy := make([]Hash, len(next))
	copy(nextCopy, next)

	b := body{Payload: payload, Next: nextCopy}
	raw, err := b.marshal()
	if err != nil {
		return Entry{}, causalerr.Wrap(causalerr.Malformed, err, "marshaling entry body")
	}

	logger.WithField("nextCount", len(nextCopy)).Debug("putting entry")

	h, err := s.Put(ctx, raw)
	if err != nil {
		return Entry{}, causalerr.Wrap(causalerr.StoreError, err, "put failed")
	}

	return Entry{payload: payload, next: nextCopy, hash: h}, nil
}

// FromHash fetches the block named by hash, decodes it, and returns the
// resulting Entry. Fails with NotFound if the store has no such block, or
// Malformed if the block does not decode to a valid entry body.
func FromHash(ctx context.Context, s store.BlockStore, hash Hash, logger *logrus.Entry) (Entry, error) {
	logger = withLogger(logger)

	if s == nil {
		return Entry{}, causalerr.New(causalerr.StoreMissing, "entry.FromHash requires a store")
	}

	logger.WithField("hash", hash).Debug("getting entry")

	raw, err := s.Get(ctx, hash)
	if err != nil {
		return Entry{}, causalerr.Wrap(causalerr.NotFound, err, "get %s failed", hash)
	}

	b, err := unmarshalBody(raw)
	if err != nil {
		return Entry{}, causalerr.Wrap(causalerr.Malformed, err, "decoding entry %s", hash)
	}

	return Entry{payload: b.Payload, next: b.Next, hash: hash}, nil
}
