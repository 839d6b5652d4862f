// Package sentiment provides SentimentLabeler adapters backed by hosted
// pretrained models. Two providers exist (HuggingFace inference, OpenAI);
// config picks one at startup. Both wrap calls in a circuit breaker so a
// dead model endpoint fails fast instead of stalling every request.
package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/domain"
)

// maxInputChars mirrors the classifier's input window; longer review text is
// truncated before the call.
const maxInputChars = 512

// breakerSettings is shared by both providers: trip after a majority of
// failures over a minimum sample, probe again after 30s.
func breakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= 5 && float64(c.TotalFailures)/float64(c.Requests) >= 0.6
		},
	}
}

func truncate(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}

// HuggingFace labels text with a hosted SST-2 style binary classifier.
// The model only emits POSITIVE/NEGATIVE; predictions below NeutralFloor
// confidence are reported as Neutral.
type HuggingFace struct {
	url          string
	key          string
	neutralFloor float64
	hc           *http.Client
	cb           *gobreaker.CircuitBreaker
}

// NewHuggingFace builds a labeler against the given model inference URL.
// An empty key is allowed (the public inference API rate-limits instead of
// rejecting); floor outside (0,1) falls back to 0.65.
func NewHuggingFace(url, key string, neutralFloor float64) *HuggingFace {
	if neutralFloor <= 0 || neutralFloor >= 1 {
		neutralFloor = 0.65
	}
	return &HuggingFace{
		url:          url,
		key:          key,
		neutralFloor: neutralFloor,
		hc:           &http.Client{Timeout: 15 * time.Second},
		cb:           gobreaker.NewCircuitBreaker(breakerSettings("huggingface")),
	}
}

type hfPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (h *HuggingFace) Label(ctx context.Context, text string) (domain.Sentiment, float64, error) {
	out, err := h.cb.Execute(func() (any, error) {
		return h.call(ctx, truncate(text, maxInputChars))
	})
	if err != nil {
		return 0, 0, err
	}
	best := out.(hfPrediction)

	score := best.Score
	var label domain.Sentiment
	switch strings.ToUpper(best.Label) {
	case "POSITIVE":
		label = domain.Positive
	case "NEGATIVE":
		label = domain.Negative
	case "NEUTRAL":
		label = domain.Neutral
	default:
		return 0, 0, fmt.Errorf("huggingface: unknown label %q", best.Label)
	}
	if label != domain.Neutral && score < h.neutralFloor {
		label = domain.Neutral
	}
	observability.ObserveSentiment("huggingface", label.String())
	return label, score, nil
}

func (h *HuggingFace) call(ctx context.Context, text string) (hfPrediction, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return hfPrediction{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return hfPrediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.key != "" {
		req.Header.Set("Authorization", "Bearer "+h.key)
	}

	start := time.Now()
	resp, err := h.hc.Do(req)
	if err != nil {
		return hfPrediction{}, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("huggingface", "inference", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return hfPrediction{}, fmt.Errorf("huggingface: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	// response is a list per input, each a list of {label, score}
	var preds [][]hfPrediction
	if err := json.NewDecoder(resp.Body).Decode(&preds); err != nil {
		return hfPrediction{}, fmt.Errorf("huggingface: decode: %w", err)
	}
	if len(preds) == 0 || len(preds[0]) == 0 {
		return hfPrediction{}, fmt.Errorf("huggingface: empty prediction")
	}
	best := preds[0][0]
	for _, p := range preds[0][1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, nil
}
