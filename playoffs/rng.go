package playoffs

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Generator draws standard normal variates for one trial at a time. Reset is
// called before every trial with the run seed and the trial number, so the
// draws of trial t only depend on (seed, t). A Generator is owned by a single
// worker and need not be safe for concurrent use.
type Generator interface {
	Reset(seed uint64, trial int)
	NormFloat64() float64
}

// pcgGenerator reseeds one PCG stream per trial.
type pcgGenerator struct {
	src *rand.PCG
	rng *rand.Rand
}

func NewPCGGenerator() Generator {
	src := rand.NewPCG(0, 0)
	return &pcgGenerator{src: src, rng: rand.New(src)}
}

func (g *pcgGenerator) Reset(seed uint64, trial int) {
	g.src.Seed(seed, uint64(trial))
}

func (g *pcgGenerator) NormFloat64() float64 {
	return g.rng.NormFloat64()
}

func randomSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Int64()
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
