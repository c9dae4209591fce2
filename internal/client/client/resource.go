package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/medrecords/internal/common"
)

// Resource is a REST collection such as "patients/" whose items live at
// "patients/{id}/". Payloads for Create and Update are sent as given, so a
// partial map works for PATCH.
type Resource[T any] struct {
	g    *Gateway
	path string
}

func NewResource[T any](g *Gateway, path string) *Resource[T] {
	return &Resource[T]{g: g, path: common.EnsureTrailingSlash(path)}
}

// Path is the collection path relative to the base URL.
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + strconv.FormatInt(id, 10) + "/"
}

// List fetches the collection, optionally filtered by query parameters.
func (r *Resource[T]) List(ctx context.Context, filters url.Values) ([]T, error) {
	var items []T
	if err := r.g.Do(ctx, http.MethodGet, r.path, filters, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var item T
	if err := r.g.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	var item T
	if err := r.g.Do(ctx, http.MethodPost, r.path, nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies a partial update (PATCH).
func (r *Resource[T]) Update(ctx context.Context, id int64, payload any) (*T, error) {
	var item T
	if err := r.g.Do(ctx, http.MethodPatch, r.itemPath(id), nil, payload, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.g.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}
