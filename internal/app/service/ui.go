package service

import (
	"context"

	"github.com/mrops-br/storefront-core/internal/app/dto"
	"github.com/mrops-br/storefront-core/internal/app/ui"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// UI returns the drawer and modal state
func (s *StorefrontService) UI(ctx context.Context) ui.Snapshot {
	_, span := s.tracer.Start(ctx, "StorefrontService.UI")
	defer span.End()

	snap := s.ui.Snapshot()
	span.SetStatus(codes.Ok, "UI state read")
	return snap
}

// ToggleMobileFilter opens or closes the mobile filter drawer
func (s *StorefrontService) ToggleMobileFilter(ctx context.Context) ui.Snapshot {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.ToggleMobileFilter")
	defer span.End()

	snap := s.ui.ToggleMobileFilter()
	span.SetAttributes(attribute.Bool("ui.mobile_filter.open", snap.MobileFilterOpen))
	s.record(ctx, "toggle_mobile_filter", "success")
	span.SetStatus(codes.Ok, "Mobile filter toggled")
	return snap
}

// ToggleCart opens or closes the cart drawer
func (s *StorefrontService) ToggleCart(ctx context.Context) ui.Snapshot {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.ToggleCart")
	defer span.End()

	snap := s.ui.ToggleCart()
	span.SetAttributes(attribute.Bool("ui.cart.open", snap.CartOpen))
	s.record(ctx, "toggle_cart", "success")
	span.SetStatus(codes.Ok, "Cart drawer toggled")
	return snap
}

// OpenQuickView targets productID and resolves it against the catalog
func (s *StorefrontService) OpenQuickView(ctx context.Context, productID int) *dto.QuickViewResponse {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.OpenQuickView")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", productID))
	s.ui.OpenQuickView(productID)
	s.record(ctx, "open_quick_view", "success")
	span.SetStatus(codes.Ok, "Quick view opened")
	return s.QuickView(ctx)
}

// CloseQuickView closes the quick-view modal and clears its target
func (s *StorefrontService) CloseQuickView(ctx context.Context) *dto.QuickViewResponse {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.CloseQuickView")
	defer span.End()

	s.ui.CloseQuickView()
	s.record(ctx, "close_quick_view", "success")
	span.SetStatus(codes.Ok, "Quick view closed")
	return s.QuickView(ctx)
}

// QuickView resolves the active product. An id missing from the catalog
// yields a nil product rather than an error.
func (s *StorefrontService) QuickView(ctx context.Context) *dto.QuickViewResponse {
	_, span := s.tracer.Start(ctx, "StorefrontService.QuickView")
	defer span.End()

	snap := s.ui.Snapshot()
	out := &dto.QuickViewResponse{Open: snap.QuickViewOpen, ProductID: snap.ActiveProduct}
	if snap.ActiveProduct == nil {
		span.SetStatus(codes.Ok, "No active product")
		return out
	}

	span.SetAttributes(attribute.Int("product.id", *snap.ActiveProduct))
	if product, ok := s.catalog.Lookup(*snap.ActiveProduct); ok {
		out.Product = dto.ToProductResponse(product)
	}
	span.SetAttributes(attribute.Bool("product.resolved", out.Product != nil))
	span.SetStatus(codes.Ok, "Quick view resolved")
	return out
}
