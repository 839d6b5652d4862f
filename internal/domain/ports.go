package domain

import (
	"context"
	"errors"
)

// Sentinel errors shared across adapters.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("upstream unavailable")
)

// ReviewSupplier returns the raw reviews for a product, reading at most
// maxPages pages from the source site. Page mechanics (size, ordering,
// stop conditions) belong to the adapter.
type ReviewSupplier interface {
	FetchReviews(ctx context.Context, productID int64, maxPages int) ([]RawReview, error)
}

// SentimentLabeler classifies one review text. Implementations must be safe
// for concurrent use; the orchestrator fans labeling out across reviews.
type SentimentLabeler interface {
	Label(ctx context.Context, text string) (Sentiment, float64, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
