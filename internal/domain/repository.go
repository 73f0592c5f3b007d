package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrFetchFailed     = errors.New("fetch failed")
)

// CatalogSource is the remote product catalog
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// CartStore saves and restores the cart snapshot. Load returns an empty
// snapshot and no error when nothing has been saved yet.
type CartStore interface {
	Load(ctx context.Context) (CartSnapshot, error)
	Save(ctx context.Context, snapshot CartSnapshot) error
}

// FetchError reports a failed catalog or category fetch
type FetchError struct {
	Resource   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: server responded %d", e.Resource, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("fetch %s failed", e.Resource)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
