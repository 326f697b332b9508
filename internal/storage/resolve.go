package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HenrikWarf/creative-studio/internal/domain"
)

// ObjectLister is the slice of BlobStore that Resolve needs.
type ObjectLister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Resolve locates an object the provider wrote under (or near) the requested
// key. Providers given an output URI may append their own path segments, so
// the search lists by prefix and takes the first key with the wanted suffix.
// The budget is bounded: attempts listings with a fixed delay between them,
// then a final existence check on the exact key, then
// domain.ErrOutputNotLocated.
func Resolve(ctx context.Context, lister ObjectLister, key, suffix string, attempts int, delay time.Duration) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}
		keys, err := lister.ListKeys(ctx, key)
		if err != nil {
			return "", fmt.Errorf("list candidates for %s: %w", key, err)
		}
		for _, candidate := range keys {
			if strings.HasSuffix(candidate, suffix) {
				return candidate, nil
			}
		}
	}
	ok, err := lister.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check %s: %w", key, err)
	}
	if ok {
		return key, nil
	}
	return "", fmt.Errorf("%w: %s", domain.ErrOutputNotLocated, key)
}
