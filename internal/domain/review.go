package domain

import "fmt"

// Sentiment is the closed set of labels the classifier can assign.
// Kept as a tagged enum (not a free string) so downstream code switches
// on values instead of matching label text.
type Sentiment int

const (
	Positive Sentiment = iota
	Negative
	Neutral
)

func (s Sentiment) String() string {
	switch s {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	case Neutral:
		return "neutral"
	}
	return fmt.Sprintf("sentiment(%d)", int(s))
}

func (s Sentiment) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// RawReview is one review item as mapped from the source site's payload,
// before classification.
type RawReview struct {
	SourceID *string  `json:"id,omitempty"`
	Author   *string  `json:"author,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Date     *string  `json:"date,omitempty"`
	Text     string   `json:"content"`
	Likes    *int64   `json:"likes,omitempty"`
}

// Review is a raw review plus its derived sentiment. Immutable once labeled;
// lives only for the duration of one request.
type Review struct {
	Text  string
	Label Sentiment
	Score float64 // classifier confidence in [0,1]
}
