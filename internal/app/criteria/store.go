package criteria

import (
	"slices"
	"sync"

	"github.com/mrops-br/storefront-core/internal/domain"
)

// State is the shopper's current filter, sort and view preference
type State struct {
	Filter   domain.FilterCriteria `json:"filter"`
	Sort     domain.SortDirective  `json:"sort"`
	ViewMode domain.ViewMode       `json:"viewMode"`
}

// Store holds the criteria. It is independent of catalog data.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore starts with no filter, featured sort and grid view
func NewStore() *Store {
	return &Store{state: State{
		Filter:   domain.DefaultFilter(),
		Sort:     domain.DefaultSort(),
		ViewMode: domain.ViewGrid,
	}}
}

// Snapshot returns a deep copy of the state
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	out := s.state
	out.Filter = s.state.Filter.Clone()
	return out
}

func (s *Store) SetCategories(categories []string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filter.Categories = slices.Clone(categories)
	if s.state.Filter.Categories == nil {
		s.state.Filter.Categories = []string{}
	}
	return s.snapshotLocked()
}

// ToggleCategory adds category to the selection or removes it if present
func (s *Store) ToggleCategory(category string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.state.Filter.Categories, category); i >= 0 {
		s.state.Filter.Categories = slices.Delete(slices.Clone(s.state.Filter.Categories), i, i+1)
	} else {
		s.state.Filter.Categories = append(slices.Clone(s.state.Filter.Categories), category)
	}
	return s.snapshotLocked()
}

func (s *Store) SetPriceRange(r domain.PriceRange) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filter.PriceRange = domain.FilterCriteria{PriceRange: r}.Clone().PriceRange
	return s.snapshotLocked()
}

// SetRating sets the minimum rating; nil clears it
func (s *Store) SetRating(rating *float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filter.Rating = nil
	if rating != nil {
		r := *rating
		s.state.Filter.Rating = &r
	}
	return s.snapshotLocked()
}

// ToggleRating selects rating, or clears it when it is already selected
func (s *Store) ToggleRating(rating float64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Filter.Rating != nil && *s.state.Filter.Rating == rating {
		s.state.Filter.Rating = nil
	} else {
		s.state.Filter.Rating = &rating
	}
	return s.snapshotLocked()
}

func (s *Store) SetSearch(search string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filter.Search = search
	return s.snapshotLocked()
}

// SetSort selects a registered sort option by id
func (s *Store) SetSort(id string) (State, error) {
	opt, err := domain.SortOptionByID(id)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Sort = opt
	return s.snapshotLocked(), nil
}

func (s *Store) SetViewMode(mode domain.ViewMode) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ViewMode = mode
	return s.snapshotLocked()
}

// ResetFilters clears the filter; sort and view mode are kept
func (s *Store) ResetFilters() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filter = domain.DefaultFilter()
	return s.snapshotLocked()
}
