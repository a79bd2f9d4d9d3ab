package stats

import (
	"hash/fnv"

	"golang.org/x/exp/rand"
)

// SeededRNG derives one fixed random source per (stream, chunk) pair from a
// base seed. The derivation only depends on the inputs, never on call order,
// so chunked samplers stay reproducible under parallel execution.
type SeededRNG struct {
	BaseSeed uint64
}

// NewSeededRNG creates an RNG provider rooted at the given seed.
func NewSeededRNG(seed uint64) SeededRNG {
	return SeededRNG{BaseSeed: seed}
}

// Source returns the deterministic source for one chunk of a named stream.
func (r SeededRNG) Source(stream string, chunk int) rand.Source {
	h := fnv.New64a()
	h.Write([]byte(stream))
	// Golden-ratio increment keeps adjacent chunk seeds well separated.
	seed := r.BaseSeed ^ h.Sum64() ^ (uint64(chunk)+1)*0x9e3779b97f4a7c15
	return rand.NewSource(seed)
}
