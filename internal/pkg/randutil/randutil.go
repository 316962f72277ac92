package randutil

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
	"sync"
)

// Source provides the sampling and shuffling primitives used for quiz
// assembly. Implementations are safe for concurrent use.
type Source interface {
	Perm(n int) []int
	Shuffle(n int, swap func(i, j int))
	IntN(n int) int
}

type pcgSource struct {
	mu sync.Mutex
	r  *mathrand.Rand
}

// NewSeeded returns a deterministic Source for the given seed pair.
func NewSeeded(seed1, seed2 uint64) Source {
	return &pcgSource{r: mathrand.New(mathrand.NewPCG(seed1, seed2))}
}

// New returns a Source seeded from the operating system entropy pool.
func New() Source {
	var b [16]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return NewSeeded(mathrand.Uint64(), mathrand.Uint64())
	}
	return NewSeeded(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
}

func (s *pcgSource) Perm(n int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Perm(n)
}

func (s *pcgSource) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

func (s *pcgSource) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
