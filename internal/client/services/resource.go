package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/wire"
)

// fetch sends req and decodes the response data into T.
func fetch[T any](ctx context.Context, api API, req client.Request) (T, error) {
	var zero T
	res, err := api.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	v, err := client.Decode[T](res)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	return v, nil
}

// fetchList is fetch for list endpoints, where a missing data field means
// an empty list.
func fetchList[T any](ctx context.Context, api API, req client.Request) ([]T, error) {
	v, err := fetch[[]T](ctx, api, req)
	if errors.Is(err, wire.ErrNoData) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}

func send(ctx context.Context, api API, req client.Request) error {
	_, err := api.Do(ctx, req)
	return err
}

func requireID(name, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

func path(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
