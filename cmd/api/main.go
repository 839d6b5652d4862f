package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"review_radar/internal/adapters/daraz"
	server "review_radar/internal/adapters/http_server"
	"review_radar/internal/adapters/observability"
	redisad "review_radar/internal/adapters/redis"
	"review_radar/internal/adapters/sentiment"
	"review_radar/internal/analysis"
	"review_radar/internal/app"
	"review_radar/internal/domain"
	"review_radar/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// sentiment provider
	var labeler domain.SentimentLabeler
	switch cfg.Provider {
	case "openai":
		l, err := sentiment.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
		if err != nil {
			log.Fatal().Err(err).Msg("openai labeler init failed")
		}
		labeler = l
	case "huggingface":
		labeler = sentiment.NewHuggingFace(cfg.HFModelURL, cfg.HFKey, cfg.NeutralFloor)
	default:
		log.Fatal().Str("provider", cfg.Provider).Msg("unknown SENTIMENT_PROVIDER")
	}

	// result cache is optional; without redis every request recomputes
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		log.Info().Str("addr", cfg.RedisAddr).Msg("result cache enabled")
	}

	supplier := daraz.New(cfg.DarazBase, cfg.DarazRPS)
	aggCfg := analysis.Config{
		MinTermLength: cfg.MinTermLen,
		TopN:          cfg.TopIssues,
		Stopwords:     analysis.DefaultStopwords(),
	}
	svc := app.NewAnalysisService(supplier, labeler, cache, aggCfg, cfg.Workers, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{A: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Str("provider", cfg.Provider).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
