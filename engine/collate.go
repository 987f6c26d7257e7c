package engine

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator performs locale-aware string comparison for display ordering
// (table rows, series, x-axis domain). Latest-row detection does NOT use it;
// that comparison is ordinal.
//
// Collator is safe for concurrent use.
type Collator struct {
	mu  sync.Mutex
	col *collate.Collator
}

// NewCollator returns a collator for the given locale.
func NewCollator(tag language.Tag) *Collator {
	return &Collator{col: collate.New(tag)}
}

// Compare returns -1, 0 or 1.
func (c *Collator) Compare(a, b string) int {
	if a == b {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col.CompareString(a, b)
}

// Less reports whether a sorts before b.
func (c *Collator) Less(a, b string) bool {
	return c.Compare(a, b) < 0
}
