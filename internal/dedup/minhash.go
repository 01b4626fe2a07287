package dedup

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// MinHasher builds fixed-size MinHash sketches over a document's word set.
// Permutations are simulated with double hashing: h_i(w) = h1(w) + i*h2(w).
type MinHasher struct {
	permutations int
}

func NewMinHasher(permutations int) *MinHasher {
	if permutations <= 0 {
		permutations = 128
	}
	return &MinHasher{permutations: permutations}
}

func (m *MinHasher) Permutations() int {
	if m == nil {
		return 0
	}
	return m.permutations
}

// Signature sketches the unique whitespace-separated words of text. The same
// word set always yields the same signature, regardless of word order or
// repetition.
func (m *MinHasher) Signature(text string) []uint64 {
	sig := make([]uint64, m.permutations)
	for i := range sig {
		sig[i] = ^uint64(0)
	}

	seen := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}

		h1 := xxhash.Sum64String(word)
		// Salted second hash; forced odd so successive permutation values
		// stay distinct modulo 2^64.
		h2 := xxhash.Sum64(append([]byte(word), 0x1f)) | 1

		v := h1
		for i := 0; i < m.permutations; i++ {
			if v < sig[i] {
				sig[i] = v
			}
			v += h2
		}
	}
	return sig
}

// EstimateJaccard estimates set similarity from two sketches of equal size.
func EstimateJaccard(a, b []uint64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	matches := 0
	for i := range a {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}
