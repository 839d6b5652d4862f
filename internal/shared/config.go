package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	RedisAddr string
	RedisDB   int
	RedisPass string

	DarazBase string
	DarazRPS  int

	Provider     string // huggingface | openai
	HFModelURL   string
	HFKey        string
	OpenAIKey    string
	OpenAIModel  string
	NeutralFloor float64

	Workers    int
	CacheTTL   time.Duration
	MinTermLen int
	TopIssues  int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		RedisAddr:    env("REDIS_ADDR", ""),
		RedisPass:    env("REDIS_PASSWORD", ""),
		RedisDB:      atoi("REDIS_DB", 0),
		DarazBase:    env("DARAZ_BASE_URL", "https://my.daraz.pk"),
		DarazRPS:     atoi("DARAZ_RPS", 5),
		Provider:     env("SENTIMENT_PROVIDER", "huggingface"),
		HFModelURL:   env("HF_MODEL_URL", "https://api-inference.huggingface.co/models/distilbert-base-uncased-finetuned-sst-2-english"),
		HFKey:        env("HF_API_KEY", ""),
		OpenAIKey:    env("OPENAI_API_KEY", ""),
		OpenAIModel:  env("OPENAI_MODEL", ""),
		NeutralFloor: atof("SENTIMENT_NEUTRAL_FLOOR", 0.65),
		Workers:      atoi("LABEL_WORKERS", 4),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		MinTermLen:   atoi("ISSUE_MIN_TERM_LEN", 3),
		TopIssues:    atoi("ISSUE_TOP_N", 5),
	}
	if c.Provider == "huggingface" && c.HFKey == "" {
		log.Warn().Msg("HF_API_KEY is empty; the public inference API throttles anonymous calls")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
