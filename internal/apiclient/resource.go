package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pet-care-portal/internal/platform/httpclient"
)

// resource implementa el CRUD común a todos los recursos REST.
type resource[T any] struct {
	http *httpclient.Client
	base string
}

func (r resource[T]) path(parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, r.base)
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func (r resource[T]) GetAll(ctx context.Context) ([]T, error) {
	return call[[]T](ctx, r.http, http.MethodGet, r.base, nil)
}

func (r resource[T]) GetByID(ctx context.Context, v int64) (T, error) {
	return call[T](ctx, r.http, http.MethodGet, r.path(id(v)), nil)
}

func (r resource[T]) Create(ctx context.Context, in T) (T, error) {
	return call[T](ctx, r.http, http.MethodPost, r.base, in)
}

func (r resource[T]) Update(ctx context.Context, v int64, in T) (T, error) {
	return call[T](ctx, r.http, http.MethodPut, r.path(id(v)), in)
}

func (r resource[T]) Delete(ctx context.Context, v int64) error {
	_, err := raw(ctx, r.http, http.MethodDelete, r.path(id(v)), nil)
	return err
}

func (r resource[T]) search(ctx context.Context, q string) ([]T, error) {
	return call[[]T](ctx, r.http, http.MethodGet, r.base+"/search?q="+url.QueryEscape(q), nil)
}

func (r resource[T]) list(ctx context.Context, parts ...string) ([]T, error) {
	return call[[]T](ctx, r.http, http.MethodGet, r.path(parts...), nil)
}

func raw(ctx context.Context, c *httpclient.Client, method, path string, in any) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.DoJSON(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func call[T any](ctx context.Context, c *httpclient.Client, method, path string, in any) (T, error) {
	b, err := raw(ctx, c, method, path, in)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](b)
}

func urlQuery(s string) string { return url.QueryEscape(s) }
