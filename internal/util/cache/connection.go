package cache_utils

import (
	"context"
	"errors"
	"time"

	"github.com/valkey-io/valkey-go"
)

var ErrCacheRoundTrip = errors.New("cache round trip returned an unexpected value")

// TestCacheConnection writes and reads back a probe value. A nil client means
// caching is disabled and is not an error.
func TestCacheConnection(ctx context.Context, client valkey.Client) error {
	if client == nil {
		return nil
	}

	cacheUtil := NewCacheUtil[string](client, "servicelogs:connection_test:").WithExpiry(time.Minute)

	testValue := "valkey_is_working"
	cacheUtil.Set(ctx, "probe", &testValue)

	retrieved := cacheUtil.Get(ctx, "probe")
	if retrieved == nil || *retrieved != testValue {
		return ErrCacheRoundTrip
	}

	cacheUtil.Invalidate(ctx, "probe")

	return nil
}
