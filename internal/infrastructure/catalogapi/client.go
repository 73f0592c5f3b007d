package catalogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mrops-br/storefront-core/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	productsPath   = "/products"
	categoriesPath = "/products/categories"

	// maxBodyBytes bounds a catalog response body
	maxBodyBytes = 10 << 20
)

// Client fetches products and categories from the remote catalog API.
// It implements domain.CatalogSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewClient creates a catalog client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, tracer trace.Tracer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tracer: tracer,
		logger: logger,
	}
}

// FetchProducts performs GET {baseURL}/products. Products failing
// domain validation are dropped and logged.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.FetchProducts")
	defer span.End()

	var products []domain.Product
	if err := c.getJSON(ctx, "products", productsPath, &products); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch products")
		return nil, err
	}
	valid := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			c.logger.WarnContext(ctx, "Dropping invalid catalog product",
				slog.Int("product_id", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, p)
	}

	span.SetAttributes(
		attribute.Int("product.count", len(valid)),
		attribute.Int("product.dropped", len(products)-len(valid)),
	)
	span.SetStatus(codes.Ok, "Products fetched")
	return valid, nil
}

// FetchCategories performs GET {baseURL}/products/categories
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "CatalogClient.FetchCategories")
	defer span.End()

	var categories []string
	if err := c.getJSON(ctx, "categories", categoriesPath, &categories); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch categories")
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	span.SetStatus(codes.Ok, "Categories fetched")
	return categories, nil
}

func (c *Client) getJSON(ctx context.Context, resource, path string, dest any) error {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.FetchError{Resource: resource, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "Catalog request failed",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return &domain.FetchError{Resource: resource, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		c.logger.ErrorContext(ctx, "Catalog API returned an error status",
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
		)
		return &domain.FetchError{Resource: resource, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dest); err != nil {
		c.logger.ErrorContext(ctx, "Failed to decode catalog response",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return &domain.FetchError{Resource: resource, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.logger.DebugContext(ctx, "Catalog response decoded",
		slog.String("url", url),
		slog.Int("status", resp.StatusCode),
	)
	return nil
}
