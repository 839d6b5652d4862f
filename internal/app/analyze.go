package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/analysis"
	"review_radar/internal/domain"
)

// AnalysisService runs the fetch → label → aggregate pipeline for one
// product. All state is request-scoped; the only thing shared across
// requests is the (optional) result cache.
type AnalysisService struct {
	supplier domain.ReviewSupplier
	labeler  domain.SentimentLabeler
	cache    domain.Cache
	agg      analysis.Config
	workers  int64
	cacheTTL time.Duration
}

func NewAnalysisService(s domain.ReviewSupplier, l domain.SentimentLabeler, c domain.Cache, agg analysis.Config, workers int, ttl time.Duration) *AnalysisService {
	if workers <= 0 {
		workers = 4
	}
	return &AnalysisService{supplier: s, labeler: l, cache: c, agg: agg, workers: int64(workers), cacheTTL: ttl}
}

// Analyze fetches up to maxPages of reviews for the product, labels each,
// and aggregates negative-review text into ranked issue terms. Zero fetched
// reviews is a valid outcome, not an error. Supplier failures propagate;
// labeler failures only skip the affected review.
func (s *AnalysisService) Analyze(ctx context.Context, productID int64, maxPages int) (domain.AnalysisResult, error) {
	key := fmt.Sprintf("analysis:%d:%d", productID, maxPages)
	var cached domain.AnalysisResult
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	start := time.Now()
	raw, err := s.supplier.FetchReviews(ctx, productID, maxPages)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("fetch reviews for %d: %w", productID, err)
	}

	res := domain.AnalysisResult{ProductID: productID, TotalReviews: len(raw), TopIssues: []domain.IssueTerm{}}
	if len(raw) == 0 {
		observability.ObserveAnalysis("empty", time.Since(start))
		return res, nil
	}

	labeled, skipped := s.labelAll(ctx, raw)
	res.Skipped = skipped

	var negatives []string
	for _, rv := range labeled {
		res.Breakdown.Add(rv.Label)
		if rv.Label == domain.Negative {
			negatives = append(negatives, rv.Text)
		}
	}
	res.TopIssues = analysis.Top(negatives, s.agg)
	if res.TopIssues == nil {
		res.TopIssues = []domain.IssueTerm{}
	}
	if total := res.Breakdown.Total(); total > 0 {
		res.PositivePct = fmt.Sprintf("%.1f%%", 100*float64(res.Breakdown.Positive)/float64(total))
		res.NegativePct = fmt.Sprintf("%.1f%%", 100*float64(res.Breakdown.Negative)/float64(total))
	}

	if n := len(raw); n > 3 {
		res.SampleReviews = raw[:3]
	} else {
		res.SampleReviews = raw
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds()))
	}
	observability.ObserveAnalysis("ok", time.Since(start))
	return res, nil
}

// labelAll classifies each review with bounded parallelism. The labeled
// slice preserves input order regardless of completion order, which keeps
// the aggregator's first-seen tie-break deterministic. A review whose
// classification fails is dropped and counted, never guessed.
func (s *AnalysisService) labelAll(ctx context.Context, raw []domain.RawReview) ([]domain.Review, int) {
	type slot struct {
		rv domain.Review
		ok bool
	}
	slots := make([]slot, len(raw))

	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup
	for i, r := range raw {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // context gone; remaining reviews stay skipped
		}
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			defer sem.Release(1)
			label, score, err := s.labeler.Label(ctx, text)
			if err != nil {
				log.Warn().Int("review", i).Err(err).Msg("label failed, skipping review")
				return
			}
			slots[i] = slot{rv: domain.Review{Text: text, Label: label, Score: score}, ok: true}
		}(i, r.Text)
	}
	wg.Wait()

	labeled := make([]domain.Review, 0, len(raw))
	skipped := 0
	for _, sl := range slots {
		if !sl.ok {
			skipped++
			continue
		}
		labeled = append(labeled, sl.rv)
	}
	return labeled, skipped
}
