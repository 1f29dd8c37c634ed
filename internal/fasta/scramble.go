package fasta

import (
	"math/rand/v2"

	"github.com/vertti/biokit/internal/seq"
)

// Scramble shuffles the residues within rec's sequence. Composition, length
// and header are preserved; the order of residues is destroyed.
func Scramble(rec seq.Record, rng *rand.Rand) seq.Record {
	b := []byte(rec.Seq.Data)
	rng.Shuffle(len(b), func(i, j int) {
		b[i], b[j] = b[j], b[i]
	})
	rec.Seq = seq.New(rec.Seq.Kind, string(b))
	return rec
}
