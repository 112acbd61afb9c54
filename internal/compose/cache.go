package compose

import (
	"context"
	"fmt"
	"sync"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
)

// CacheKey identifies a reusable section rendering.
type CacheKey struct {
	DocumentPageIndex int
	Section           layout.SectionType
	PhysicalPageIndex int
	PhysicalPageType  layout.PhysicalPageType
}

// String implements fmt.Stringer.
func (k CacheKey) String() string {
	if k.PhysicalPageType == "" {
		return fmt.Sprintf("%d/%s", k.DocumentPageIndex, k.Section)
	}
	return fmt.Sprintf("%d/%s/%d:%s", k.DocumentPageIndex, k.Section, k.PhysicalPageIndex, k.PhysicalPageType)
}

// KeyFor builds the cache key of a resolved setting.
func KeyFor(documentPageIndex int, t layout.SectionType, s *layout.SectionSetting) CacheKey {
	k := CacheKey{DocumentPageIndex: documentPageIndex, Section: t}
	if s.IsVariant() {
		k.PhysicalPageIndex = s.PhysicalPageIndex
		k.PhysicalPageType = s.PhysicalPageType
	}
	return k
}

// SectionElement is a rendered and loaded section fragment.
// It is embedded into the target document on first use.
type SectionElement struct {
	Key     CacheKey
	Setting layout.SectionSetting
	Source  *pdfdoc.Source

	mu       sync.Mutex
	embedded *pdfdoc.Embedded
}

// Embedded returns the element's first page embedded into doc, importing it once.
func (e *SectionElement) Embedded(doc Canvas) (*pdfdoc.Embedded, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.embedded != nil {
		return e.embedded, nil
	}
	em, err := doc.Embed(e.Source, 0)
	if err != nil {
		return nil, fmt.Errorf("embedding %s: %w", e.Key, err)
	}
	e.embedded = em
	return em, nil
}

// cacheEntry is a memoized fill; ready closes once elem or err is set.
type cacheEntry struct {
	ready chan struct{}
	elem  *SectionElement
	err   error
}

// SectionCache shares renderings of reusable settings across the output pages
// of one document page. It is safe for concurrent use: a caller asking for a
// key that is being filled waits for that fill instead of rendering again.
type SectionCache struct {
	mu      sync.Mutex
	entries map[CacheKey]*cacheEntry
}

// NewSectionCache returns an empty cache.
func NewSectionCache() *SectionCache {
	return &SectionCache{entries: make(map[CacheKey]*cacheEntry)}
}

// Get returns the element for key, calling fill if no element exists yet.
// reused is true when the element came from an earlier fill. A failed fill
// is not cached.
func (c *SectionCache) Get(ctx context.Context, key CacheKey, fill func() (*SectionElement, error)) (elem *SectionElement, reused bool, err error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
		if e.err != nil {
			return nil, false, e.err
		}
		return e.elem, true, nil
	}

	e := &cacheEntry{ready: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.elem, e.err = fill()
	if e.err != nil {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}
	close(e.ready)

	return e.elem, false, e.err
}

// Len returns the number of cached elements, including fills in flight.
func (c *SectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
