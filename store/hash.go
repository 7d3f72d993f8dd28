package store

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// blockDomainKey is a fixed 32-byte BLAKE3 key used to hash block content
// for both of this package's store implementations. Domain separation
// keeps these hashes out of collision with any other BLAKE3 use in the
// same process.
var blockDomainKey = [32]byte{
	'c', 'a', 'u', 's', 'a', 'l', 'l', 'o', 'g', '.', 'b', 'l', 'o', 'c', 'k',
}

// hashBlock computes the hex-encoded content hash used as a block's Hash.
func hashBlock(data []byte) Hash {
	hasher, err := blake3.NewKeyed(blockDomainKey[:])
	if err != nil {
		// blockDomainKey is always exactly 32 bytes; NewKeyed only fails
		// on key length.
		panic("store: blake3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}
