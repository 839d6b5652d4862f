package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"review_radar/internal/adapters/daraz"
	"review_radar/internal/app"
	"review_radar/internal/domain"
)

const (
	defaultMaxPages = 1
	maxMaxPages     = 3
)

type Handlers struct{ A *app.AnalysisService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/analyze", h.analyze)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// analyze handles GET /v1/analyze?url=<product URL>&max_pages=N.
// max_pages outside [1,3] is rejected, never clamped.
func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeProblem(w, http.StatusBadRequest, "Missing URL", "url query parameter is required")
		return
	}
	productID, err := daraz.ParseProductURL(rawURL)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid URL", "url must be a Daraz product URL")
		return
	}

	maxPages := defaultMaxPages
	if mp := r.URL.Query().Get("max_pages"); mp != "" {
		n, err := strconv.Atoi(mp)
		if err != nil || n < 1 || n > maxMaxPages {
			writeProblem(w, http.StatusBadRequest, "Invalid max_pages", "max_pages must be an integer between 1 and 3")
			return
		}
		maxPages = n
	}

	res, err := h.A.Analyze(r.Context(), productID, maxPages)
	if err != nil {
		log.Error().Int64("product", productID).Err(err).Msg("analysis failed")
		if errors.Is(err, domain.ErrUnavailable) {
			writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", "could not fetch reviews from the source site")
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Analysis Failed", "")
		return
	}

	etag, body := calcETagAndBody(res)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write analyze body")
	}
}
