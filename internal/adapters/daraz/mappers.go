package daraz

import (
	"strconv"
	"strings"

	"review_radar/internal/domain"
)

// Alias paths for the review item fields. Daraz payloads have drifted over
// time; the first non-empty alias wins.
var reviewAliases = map[string][]string{
	"author": {"buyerName", "author", "name", "userName"},
	"text":   {"reviewContent", "content", "review", "comment", "text"},
	"date":   {"reviewTime", "date", "createdAt"},
	"id":     {"reviewRateId", "id", "reviewId"},
}

var ratingAliases = []string{"rating", "rate", "score"}
var likeAliases = []string{"likeCount", "likes", "upVotes"}

func mapReview(item map[string]any) domain.RawReview {
	text := ""
	if s := firstNonEmptyAlias(item, "text"); s != nil {
		text = *s
	}
	return domain.RawReview{
		SourceID: firstNonEmptyAlias(item, "id"),
		Author:   firstNonEmptyAlias(item, "author"),
		Rating:   getFloatFlexible(item, ratingAliases...),
		Date:     firstNonEmptyAlias(item, "date"),
		Text:     text,
		Likes:    getInt64Flexible(item, likeAliases...),
	}
}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		switch s := v.(type) {
		case string:
			return s
		case float64:
			// some payload revisions ship ids and timestamps as numbers
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string across the alias set for key.
func firstNonEmptyAlias(m map[string]any, key string) *string {
	for _, p := range reviewAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// getFloatFlexible: number from several paths (float64/int/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func getInt64Flexible(m map[string]any, paths ...string) *int64 {
	if f := getFloatFlexible(m, paths...); f != nil {
		n := int64(*f)
		return &n
	}
	return nil
}
