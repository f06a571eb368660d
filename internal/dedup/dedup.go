package dedup

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// SeenSet tracks which posting URLs already exist in the store. It is
// seeded once from a snapshot at run start and grows in memory as new
// postings are inserted; the database stays the source of truth
// between runs, so nothing here touches disk.
type SeenSet struct {
	urls mapset.Set[string]
}

// NewSeenSet builds the set from the store snapshot.
func NewSeenSet(urls []string) *SeenSet {
	return &SeenSet{urls: mapset.NewSet(urls...)}
}

// Seen reports whether the URL was in the snapshot or added since.
func (s *SeenSet) Seen(url string) bool {
	return s.urls.Contains(url)
}

// Add records a freshly inserted URL so later pages of the same run
// dedup against it.
func (s *SeenSet) Add(url string) {
	s.urls.Add(url)
}

func (s *SeenSet) Len() int {
	return s.urls.Cardinality()
}
