package ports

import (
	"golang.org/x/exp/rand"
)

// RNGPort provides seeded random sources for deterministic sampling.
//
// Streams are identified by an operation name and a chunk index so that
// batched samplers can draw in parallel while staying reproducible: the
// same (stream, chunk) pair must always yield an identically seeded source
// regardless of scheduling. Sources are gonum-compatible
// (golang.org/x/exp/rand) because the samplers feed distuv distributions.
type RNGPort interface {
	// Source returns a deterministic random source for one chunk of a
	// named sampling stream.
	Source(stream string, chunk int) rand.Source
}
