package pipeline

import "sync"

// Pager owns the pagination cursor. Changing filters or sort does not
// reset it; only Reset does.
type Pager struct {
	mu     sync.RWMutex
	cursor Cursor
}

// NewPager starts at page 1 with the given page size
func NewPager(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Pager{cursor: Cursor{Page: 1, PageSize: pageSize}}
}

// Cursor returns the current position
func (p *Pager) Cursor() Cursor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cursor
}

// LoadMore advances one page
func (p *Pager) LoadMore() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor.Page++
	return p.cursor
}

// Reset returns to page 1
func (p *Pager) Reset() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cursor.Page = 1
	return p.cursor
}
