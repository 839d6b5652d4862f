package sentiment

import (
	"testing"

	"review_radar/internal/domain"
)

func TestParseLabel(t *testing.T) {
	cases := []struct {
		in     string
		want   domain.Sentiment
		wantOK bool
	}{
		{"negative", domain.Negative, true},
		{"Positive", domain.Positive, true},
		{"NEUTRAL", domain.Neutral, true},
		{" negative.\n", domain.Negative, true},
		{`"positive"`, domain.Positive, true},
		{"somewhat negative", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, err := parseLabel(c.in)
		if c.wantOK {
			if err != nil || got != c.want {
				t.Fatalf("parseLabel(%q) = %v, %v; want %v", c.in, got, err, c.want)
			}
			continue
		}
		if err == nil {
			t.Fatalf("parseLabel(%q) should fail", c.in)
		}
	}
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	if _, err := NewOpenAI("", ""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestNewOpenAI_DefaultModel(t *testing.T) {
	o, err := NewOpenAI("sk-test", "")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if o.model == "" {
		t.Fatal("model default not applied")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 512); got != "short" {
		t.Fatalf("got %q", got)
	}
	long := make([]rune, 600)
	for i := range long {
		long[i] = 'é' // multi-byte, length must count runes not bytes
	}
	if got := truncate(string(long), 512); len([]rune(got)) != 512 {
		t.Fatalf("truncated to %d runes", len([]rune(got)))
	}
}
