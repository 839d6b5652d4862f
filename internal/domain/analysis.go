package domain

// IssueTerm is one recurring complaint term extracted from negative reviews.
type IssueTerm struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// SentimentBreakdown tallies labels across all successfully classified
// reviews of one request.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Add increments the tally for one label.
func (b *SentimentBreakdown) Add(s Sentiment) {
	switch s {
	case Positive:
		b.Positive++
	case Negative:
		b.Negative++
	case Neutral:
		b.Neutral++
	}
}

// Total is the number of reviews that actually got a label.
func (b SentimentBreakdown) Total() int {
	return b.Positive + b.Negative + b.Neutral
}

// AnalysisResult is the full outcome of one analyze request. Built once per
// request and discarded; never persisted across requests.
type AnalysisResult struct {
	ProductID     int64              `json:"product_id"`
	TotalReviews  int                `json:"total_reviews"`
	Breakdown     SentimentBreakdown `json:"sentiment"`
	PositivePct   string             `json:"positive_pct,omitempty"`
	NegativePct   string             `json:"negative_pct,omitempty"`
	Skipped       int                `json:"skipped,omitempty"` // reviews the labeler failed on
	TopIssues     []IssueTerm        `json:"top_issues"`
	SampleReviews []RawReview        `json:"sample_reviews,omitempty"`
}
