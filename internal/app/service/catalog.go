package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront-core/internal/app/dto"
	"github.com/mrops-br/storefront-core/internal/app/pipeline"
	"github.com/mrops-br/storefront-core/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ListProducts returns the visible page for the current criteria and
// cursor. The catalog is refetched when stale; a failed refetch is
// reported through the catalog status and the last known items are served.
func (s *StorefrontService) ListProducts(ctx context.Context) *dto.ProductPageResponse {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.ListProducts")
	defer span.End()

	entry, err := s.catalog.RequestCatalog(ctx, s.now())
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Serving products from last known catalog",
			slog.String("error", err.Error()),
			slog.Int("count", len(entry.Items)),
		)
	}

	state := s.criteria.Snapshot()
	cursor := s.pager.Cursor()
	result, memoized := s.memo.Derive(entry.Generation, entry.Items, state.Filter, state.Sort, cursor)

	span.SetAttributes(
		attribute.String("catalog.status", string(entry.Status)),
		attribute.String("sort.id", state.Sort.ID),
		attribute.Int("page", cursor.Page),
		attribute.Int("product.matches", result.TotalMatches),
		attribute.Int("product.visible", len(result.Visible)),
		attribute.Bool("derive.memoized", memoized),
	)

	s.record(ctx, "list", "success")
	s.logger.DebugContext(ctx, "Products derived",
		slog.Int("matches", result.TotalMatches),
		slog.Int("visible", len(result.Visible)),
		slog.Bool("has_more", result.HasMore),
	)

	span.SetStatus(codes.Ok, "Products listed successfully")
	return dto.ToProductPageResponse(result, cursor, entry)
}

// GetProductByID resolves id against the cached catalog
func (s *StorefrontService) GetProductByID(ctx context.Context, id int) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.GetProductByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	product, ok := s.catalog.Lookup(id)
	if !ok {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found",
			slog.Int("product_id", id),
		)
		s.record(ctx, "read", "not_found")
		return nil, domain.ErrProductNotFound
	}

	s.record(ctx, "read", "success")
	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return dto.ToProductResponse(product), nil
}

// PriceBounds returns the lowest and highest catalog price
func (s *StorefrontService) PriceBounds(ctx context.Context) *dto.PriceBoundsResponse {
	_, span := s.tracer.Start(ctx, "StorefrontService.PriceBounds")
	defer span.End()

	lowest, highest, ok := pipeline.PriceBounds(s.catalog.Snapshot().Items)
	if !ok {
		return &dto.PriceBoundsResponse{}
	}
	return &dto.PriceBoundsResponse{Lowest: &lowest, Highest: &highest}
}

// RefreshCatalog requests the catalog, honouring the freshness window.
// A fetch failure is returned together with the failed status.
func (s *StorefrontService) RefreshCatalog(ctx context.Context) (dto.CatalogStatusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.RefreshCatalog")
	defer span.End()

	entry, err := s.catalog.RequestCatalog(ctx, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog refresh failed")
		s.record(ctx, "refresh", "failure")
		return dto.ToCatalogStatusResponse(entry), err
	}

	s.record(ctx, "refresh", "success")
	span.SetStatus(codes.Ok, "Catalog refreshed")
	return dto.ToCatalogStatusResponse(entry), nil
}

// InvalidateCatalog forces the next catalog request to refetch
func (s *StorefrontService) InvalidateCatalog(ctx context.Context) dto.CatalogStatusResponse {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.InvalidateCatalog")
	defer span.End()

	s.catalog.Invalidate(ctx)
	s.record(ctx, "invalidate", "success")
	return dto.ToCatalogStatusResponse(s.catalog.Snapshot())
}

// Categories refetches the category list. Failures keep the previous list.
func (s *StorefrontService) Categories(ctx context.Context) []string {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.Categories")
	defer span.End()

	categories := s.catalog.RequestCategories(ctx)
	span.SetAttributes(attribute.Int("category.count", len(categories)))
	s.record(ctx, "categories", "success")
	return categories
}

// LoadMore reveals one more page
func (s *StorefrontService) LoadMore(ctx context.Context) pipeline.Cursor {
	cursor := s.pager.LoadMore()
	s.logger.DebugContext(ctx, "Loaded more products", slog.Int("page", cursor.Page))
	s.record(ctx, "load_more", "success")
	return cursor
}

// ResetPage returns to the first page
func (s *StorefrontService) ResetPage(ctx context.Context) pipeline.Cursor {
	cursor := s.pager.Reset()
	s.record(ctx, "reset_page", "success")
	return cursor
}
