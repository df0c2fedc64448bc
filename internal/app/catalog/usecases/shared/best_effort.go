package shared

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/pkg/retry"
)

var releaseRetry = retry.Config{
	MaxAttempts: 3,
	Backoff:     retry.ExponentialBackoff(50 * time.Millisecond),
	ShouldRetry: retryableRelease,
}

// retryableRelease skips errors that another attempt cannot fix.
func retryableRelease(err error) bool {
	return !errors.Is(err, contracts.ErrInvalidLocator) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// ReleaseAll releases every locator independently. Failures are retried a
// few times, then logged; they never stop the remaining releases.
func ReleaseAll(ctx context.Context, media contracts.MediaStore, logger hclog.Logger, locators []string) {
	for _, loc := range locators {
		if loc == "" {
			continue
		}
		err := retry.Do(ctx, releaseRetry, func(ctx context.Context) error {
			return media.Release(ctx, loc)
		})
		if err != nil {
			logger.Error("Unable to release asset, leaking it", "locator", loc, "error", err)
		}
	}
}

// Obsolete returns the locators of before that are no longer referenced by
// after.
func Obsolete(before, after []string) []string {
	keep := make(map[string]bool, len(after))
	for _, l := range after {
		keep[l] = true
	}
	var out []string
	seen := make(map[string]bool, len(before))
	for _, l := range before {
		if l == "" || keep[l] || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// AdjustCount applies a brand counter change. A failure is logged and
// swallowed: the product write already committed.
func AdjustCount(ctx context.Context, store contracts.CatalogStore, logger hclog.Logger, brandID string, delta int64) {
	if brandID == "" || delta == 0 {
		return
	}
	if err := store.AdjustBrandCount(ctx, brandID, delta); err != nil {
		logger.Error("Unable to adjust brand products count",
			"brand_id", brandID,
			"delta", delta,
			"error", err,
		)
	}
}

// Detached returns a context that survives the caller's cancellation, for
// bookkeeping that must follow a committed write.
func Detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
}
