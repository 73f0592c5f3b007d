package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront-core/internal/app/criteria"
	"github.com/mrops-br/storefront-core/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Criterion changes never reset the pagination cursor.

// Criteria returns the current filter, sort and view mode
func (s *StorefrontService) Criteria(ctx context.Context) criteria.State {
	_, span := s.tracer.Start(ctx, "StorefrontService.Criteria")
	defer span.End()

	state := s.criteria.Snapshot()
	span.SetStatus(codes.Ok, "Criteria read")
	return state
}

// SetCategories replaces the category filter
func (s *StorefrontService) SetCategories(ctx context.Context, categories []string) criteria.State {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SetCategories")
	defer span.End()

	state := s.criteria.SetCategories(categories)
	span.SetAttributes(attribute.StringSlice("filter.categories", state.Filter.Categories))
	s.logger.DebugContext(ctx, "Category filter set", slog.Any("categories", state.Filter.Categories))
	s.record(ctx, "set_categories", "success")
	span.SetStatus(codes.Ok, "Categories set")
	return state
}

// ToggleCategory adds category to the filter, or removes it if present
func (s *StorefrontService) ToggleCategory(ctx context.Context, category string) criteria.State {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.ToggleCategory")
	defer span.End()

	span.SetAttributes(attribute.String("filter.category", category))
	state := s.criteria.ToggleCategory(category)
	s.record(ctx, "toggle_category", "success")
	span.SetStatus(codes.Ok, "Category toggled")
	return state
}

// SetPriceRange replaces the price filter; a nil Max is unbounded
func (s *StorefrontService) SetPriceRange(ctx context.Context, r domain.PriceRange) criteria.State {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SetPriceRange")
	defer span.End()

	span.SetAttributes(attribute.String("filter.price.min", r.Min.String()))
	if r.Max != nil {
		span.SetAttributes(attribute.String("filter.price.max", r.Max.String()))
	}
	state := s.criteria.SetPriceRange(r)
	s.record(ctx, "set_price_range", "success")
	span.SetStatus(codes.Ok, "Price range set")
	return state
}

// SetRating sets or clears the minimum rating. With toggle set, choosing
// the already selected rating clears it.
func (s *StorefrontService) SetRating(ctx context.Context, rating *float64, toggle bool) criteria.State {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SetRating")
	defer span.End()

	span.SetAttributes(attribute.Bool("filter.rating.toggle", toggle))
	var state criteria.State
	if toggle && rating != nil {
		state = s.criteria.ToggleRating(*rating)
	} else {
		state = s.criteria.SetRating(rating)
	}
	if state.Filter.Rating != nil {
		span.SetAttributes(attribute.Float64("filter.rating", *state.Filter.Rating))
	}
	s.record(ctx, "set_rating", "success")
	span.SetStatus(codes.Ok, "Rating set")
	return state
}

// SetSearch replaces the free-text search term
func (s *StorefrontService) SetSearch(ctx context.Context, search string) criteria.State {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SetSearch")
	defer span.End()

	state := s.criteria.SetSearch(search)
	s.record(ctx, "set_search", "success")
	span.SetStatus(codes.Ok, "Search set")
	return state
}

// SetSort selects one of the predefined sort options by id
func (s *StorefrontService) SetSort(ctx context.Context, id string) (criteria.State, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SetSort")
	defer span.End()

	span.SetAttributes(attribute.String("sort.id", id))
	state, err := s.criteria.SetSort(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown sort option")
		s.logger.WarnContext(ctx, "Unknown sort option", slog.String("sort_id", id))
		s.record(ctx, "set_sort", "failure")
		return state, err
	}
	s.record(ctx, "set_sort", "success")
	span.SetStatus(codes.Ok, "Sort set")
	return state, nil
}

// SetViewMode switches between grid and list layouts
func (s *StorefrontService) SetViewMode(ctx context.Context, mode string) (criteria.State, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SetViewMode")
	defer span.End()

	span.SetAttributes(attribute.String("view.mode", mode))
	vm, err := domain.ParseViewMode(mode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid view mode")
		s.record(ctx, "set_view_mode", "failure")
		return s.criteria.Snapshot(), err
	}
	s.record(ctx, "set_view_mode", "success")
	span.SetStatus(codes.Ok, "View mode set")
	return s.criteria.SetViewMode(vm), nil
}

// ResetFilters clears the filter; sort and view mode are kept
func (s *StorefrontService) ResetFilters(ctx context.Context) criteria.State {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.ResetFilters")
	defer span.End()

	state := s.criteria.ResetFilters()
	s.logger.DebugContext(ctx, "Filters reset")
	s.record(ctx, "reset_filters", "success")
	span.SetStatus(codes.Ok, "Filters reset")
	return state
}

// SortOptions lists the predefined sort options
func (s *StorefrontService) SortOptions(ctx context.Context) []domain.SortDirective {
	return domain.SortOptions()
}
