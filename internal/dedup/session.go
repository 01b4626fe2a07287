package dedup

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Options configures one dedup session.
type Options struct {
	ExactEnabled        bool
	FuzzyEnabled        bool
	SimilarityThreshold float64
	Permutations        int
}

// Stats reports per-session dedup counters.
type Stats struct {
	Checked         int64 `json:"checked"`
	ExactDuplicates int64 `json:"exact_duplicates"`
	NearDuplicates  int64 `json:"near_duplicates"`
	ExactSetSize    int   `json:"exact_set_size"`
	IndexedSketches int   `json:"indexed_sketches"`
}

// Session owns the mutable duplicate-detection state for one run: an exact
// content-hash set plus an optional MinHash/LSH near-duplicate index. A
// session spans a single input file or a whole merge, at the caller's choice;
// Reset starts a fresh one. Sessions are not safe for concurrent use.
//
// Memory grows with corpus size: 32 bytes per accepted document for the
// exact set, plus 8*permutations bytes per sketch when fuzzy dedup is on.
type Session struct {
	opts   Options
	exact  map[[blake2b.Size256]byte]struct{}
	hasher *MinHasher
	index  *Index
	stats  Stats
}

func NewSession(opts Options) *Session {
	if opts.SimilarityThreshold <= 0 || opts.SimilarityThreshold > 1 {
		opts.SimilarityThreshold = 0.9
	}
	if opts.Permutations <= 0 {
		opts.Permutations = 128
	}

	s := &Session{opts: opts}
	s.Reset()
	return s
}

// Normalize collapses whitespace runs so that formatting-only variants of the
// same text hash identically.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// ContentHash digests the normalized text. Identical normalized text always
// yields the same hash.
func ContentHash(text string) [blake2b.Size256]byte {
	return blake2b.Sum256([]byte(Normalize(text)))
}

// CheckAndRegister returns true iff text is not a duplicate of anything the
// session has seen. Accepted texts are registered so a bit-identical or
// near-identical future submission is classified a duplicate. The exact check
// runs first: it is O(1) and short-circuits most true duplicates before any
// sketch is computed.
func (s *Session) CheckAndRegister(text string) bool {
	if s == nil {
		return true
	}
	s.stats.Checked++

	norm := Normalize(text)
	hash := blake2b.Sum256([]byte(norm))

	if s.opts.ExactEnabled {
		if _, dup := s.exact[hash]; dup {
			s.stats.ExactDuplicates++
			return false
		}
		s.exact[hash] = struct{}{}
	}

	if s.opts.FuzzyEnabled && s.index != nil {
		sig := s.hasher.Signature(norm)
		if len(s.index.Query(sig)) > 0 {
			s.stats.NearDuplicates++
			return false
		}
		s.index.Insert(hex.EncodeToString(hash[:16]), sig)
	}

	return true
}

// FuzzyEnabled reports whether the near-duplicate index is active.
func (s *Session) FuzzyEnabled() bool {
	if s == nil {
		return false
	}
	return s.opts.FuzzyEnabled && s.index != nil
}

// Reset discards all session state and starts a fresh session with the same
// options.
func (s *Session) Reset() {
	if s == nil {
		return
	}
	s.exact = make(map[[blake2b.Size256]byte]struct{})
	s.stats = Stats{}
	s.hasher = nil
	s.index = nil
	if s.opts.FuzzyEnabled {
		s.hasher = NewMinHasher(s.opts.Permutations)
		s.index = NewIndex(s.opts.Permutations, s.opts.SimilarityThreshold)
	}
}

func (s *Session) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	stats := s.stats
	stats.ExactSetSize = len(s.exact)
	stats.IndexedSketches = s.index.Len()
	return stats
}
