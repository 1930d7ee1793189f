// Package merkle computes the insertion-order merkle root over a block's
// record hashes.
//
// Unlike a sorted merkle tree, this construction preserves the semantic
// ordering of records inside a block, which matters when payload
// semantics depend on order (e.g. dependent transactions), at the cost
// of not supporting compact non-membership proofs.
package merkle

import "github.com/nisaacdz/blockify/digest"

// ComputeRoot builds the merkle root over hashes in insertion order.
//
//   - len(hashes) == 0: returns the zero digest.
//   - len(hashes) == 1: returns H(hashes[0]).
//   - otherwise: pairs adjacent hashes left||right at each level,
//     duplicating the last hash when a level has odd length, until one
//     hash remains.
func ComputeRoot(hashes []digest.Digest) digest.Digest {
	switch len(hashes) {
	case 0:
		return digest.Zero
	case 1:
		return digest.Sum(hashes[0][:])
	}

	level := make([]digest.Digest, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]digest.Digest, len(level)/2)
		for i := 0; i < len(next); i++ {
			next[i] = digest.Pair(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}
