package dedup

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Index is a banded locality-sensitive hash over MinHash sketches. A query
// returns the identifiers of previously inserted documents that collide with
// the probe in at least one band, which approximates "estimated Jaccard
// similarity at or above the configured threshold".
//
// A band collision is treated as a candidate match without a secondary exact
// Jaccard verification; occasional false-positive rejections are accepted in
// exchange for O(bands) lookups per document.
type Index struct {
	bands   int
	rows    int
	buckets []map[uint64][]string
	size    int
}

// NewIndex picks the band/row split whose collision threshold (1/b)^(1/r)
// sits closest to the requested similarity threshold.
func NewIndex(permutations int, threshold float64) *Index {
	bands, rows := optimalBands(permutations, threshold)
	buckets := make([]map[uint64][]string, bands)
	for i := range buckets {
		buckets[i] = make(map[uint64][]string)
	}
	return &Index{bands: bands, rows: rows, buckets: buckets}
}

// Query returns identifiers sharing at least one band bucket with sig.
func (idx *Index) Query(sig []uint64) []string {
	if idx == nil || len(sig) < idx.bands*idx.rows {
		return nil
	}

	var candidates []string
	seen := make(map[string]struct{})
	for band := 0; band < idx.bands; band++ {
		key := idx.bandKey(band, sig)
		for _, id := range idx.buckets[band][key] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			candidates = append(candidates, id)
		}
	}
	return candidates
}

// Insert files sig under id in every band bucket. Callers must insert a
// document at most once, after it survived the candidate query.
func (idx *Index) Insert(id string, sig []uint64) {
	if idx == nil || len(sig) < idx.bands*idx.rows {
		return
	}
	for band := 0; band < idx.bands; band++ {
		key := idx.bandKey(band, sig)
		idx.buckets[band][key] = append(idx.buckets[band][key], id)
	}
	idx.size++
}

// Len reports how many documents are indexed.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.size
}

func (idx *Index) bandKey(band int, sig []uint64) uint64 {
	digest := xxhash.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(band))
	_, _ = digest.Write(buf[:])

	start := band * idx.rows
	for _, v := range sig[start : start+idx.rows] {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = digest.Write(buf[:])
	}
	return digest.Sum64()
}

func optimalBands(permutations int, threshold float64) (bands, rows int) {
	bands, rows = permutations, 1
	best := math.Inf(1)
	for b := 1; b <= permutations; b++ {
		if permutations%b != 0 {
			continue
		}
		r := permutations / b
		approx := math.Pow(1/float64(b), 1/float64(r))
		if diff := math.Abs(approx - threshold); diff < best {
			best = diff
			bands, rows = b, r
		}
	}
	return bands, rows
}
