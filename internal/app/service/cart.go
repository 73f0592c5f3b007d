package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront-core/internal/app/dto"
	"github.com/mrops-br/storefront-core/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Cart returns the ledger lines and totals
func (s *StorefrontService) Cart(ctx context.Context) *dto.CartResponse {
	_, span := s.tracer.Start(ctx, "StorefrontService.Cart")
	defer span.End()

	summary := s.ledger.Summary()
	span.SetAttributes(
		attribute.Int("cart.lines", len(summary.Lines)),
		attribute.Int("cart.items", summary.ItemCount),
	)
	span.SetStatus(codes.Ok, "Cart read")
	return dto.ToCartResponse(summary.Lines, summary.ItemCount, summary.Subtotal)
}

// AddToCart resolves productID against the catalog and merges qty into
// its line. qty below 1 is treated as 1.
func (s *StorefrontService) AddToCart(ctx context.Context, productID, qty int) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.AddToCart")
	defer span.End()

	if qty < 1 {
		qty = 1
	}
	span.SetAttributes(
		attribute.Int("product.id", productID),
		attribute.Int("cart.quantity", qty),
	)

	product, ok := s.catalog.Lookup(productID)
	if !ok {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Cannot add unknown product to cart",
			slog.Int("product_id", productID),
		)
		s.record(ctx, "cart_add", "not_found")
		return nil, domain.ErrProductNotFound
	}

	s.mutateCart(ctx, func() { s.ledger.AddItem(product, qty) })

	s.logger.InfoContext(ctx, "Product added to cart",
		slog.Int("product_id", productID),
		slog.Int("quantity", qty),
	)
	s.record(ctx, "cart_add", "success")
	span.SetStatus(codes.Ok, "Product added to cart")
	return s.Cart(ctx), nil
}

// RemoveFromCart deletes the line for productID if present
func (s *StorefrontService) RemoveFromCart(ctx context.Context, productID int) *dto.CartResponse {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.RemoveFromCart")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", productID))

	s.mutateCart(ctx, func() { s.ledger.RemoveItem(productID) })

	s.record(ctx, "cart_remove", "success")
	span.SetStatus(codes.Ok, "Cart line removed")
	return s.Cart(ctx)
}

// SetCartQuantity overwrites a line's quantity; below 1 removes the line
func (s *StorefrontService) SetCartQuantity(ctx context.Context, productID, qty int) *dto.CartResponse {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.SetCartQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.Int("product.id", productID),
		attribute.Int("cart.quantity", qty),
	)

	s.mutateCart(ctx, func() { s.ledger.SetQuantity(productID, qty) })

	s.record(ctx, "cart_set_quantity", "success")
	span.SetStatus(codes.Ok, "Cart quantity set")
	return s.Cart(ctx)
}
