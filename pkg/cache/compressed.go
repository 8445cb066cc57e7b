package cache

import (
	"context"
	"time"

	"github.com/golang/snappy"
)

// compressed applies snappy block compression to another cache.
type compressed struct {
	inner Cache
}

// Compressed wraps c so that values are snappy-compressed at rest.
// Entries that fail to decode are deleted and reported as misses.
func Compressed(c Cache) Cache {
	return &compressed{inner: c}
}

func (c *compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return out, true, nil
}

func (c *compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, key, snappy.Encode(nil, data), ttl)
}

func (c *compressed) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *compressed) Close() error { return c.inner.Close() }
