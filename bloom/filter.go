// Package bloom tracks which meeting detail pages a crawl has already
// visited, using a Bloom filter so the set stays small even across large
// month ranges.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Seen is a probabilistic set of visited detail-page URLs. A false
// positive skips a page that was never fetched; a false negative never
// happens, so no page is fetched twice.
type Seen struct {
	f *bloom.BloomFilter
}

// NewSeen creates a set sized for n expected URLs at the given false
// positive rate.
func NewSeen(n uint, fpRate float64) *Seen {
	return &Seen{f: bloom.NewWithEstimates(n, fpRate)}
}

// Visit records url and reports whether it had already been recorded.
func (s *Seen) Visit(url string) bool {
	return s.f.TestAndAddString(url)
}

// Contains reports whether url might have been recorded.
func (s *Seen) Contains(url string) bool {
	return s.f.TestString(url)
}

// Count returns the approximate number of recorded URLs.
func (s *Seen) Count() uint {
	return uint(s.f.ApproximatedSize())
}
