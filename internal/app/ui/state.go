package ui

import "sync"

// Snapshot is the transient UI state
type Snapshot struct {
	MobileFilterOpen bool `json:"mobileFilterOpen"`
	QuickViewOpen    bool `json:"quickViewOpen"`
	ActiveProduct    *int `json:"activeProduct"`
	CartOpen         bool `json:"cartOpen"`
}

// State tracks which drawer or modal is open and which product the
// quick view targets
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewState() *State {
	return &State{}
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

func (s *State) copyLocked() Snapshot {
	out := s.snap
	if s.snap.ActiveProduct != nil {
		id := *s.snap.ActiveProduct
		out.ActiveProduct = &id
	}
	return out
}

func (s *State) ToggleMobileFilter() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.MobileFilterOpen = !s.snap.MobileFilterOpen
	return s.copyLocked()
}

func (s *State) ToggleCart() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.CartOpen = !s.snap.CartOpen
	return s.copyLocked()
}

// OpenQuickView targets productID. The id is not checked against the catalog.
func (s *State) OpenQuickView(productID int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.QuickViewOpen = true
	s.snap.ActiveProduct = &productID
	return s.copyLocked()
}

func (s *State) CloseQuickView() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.QuickViewOpen = false
	s.snap.ActiveProduct = nil
	return s.copyLocked()
}
