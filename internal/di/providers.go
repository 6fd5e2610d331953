package di

import (
	"fmt"
	"time"

	"StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/relay"
	"StockCast/internal/service/twelvedata"
	"StockCast/internal/train"
	"StockCast/internal/usecase"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideArtifactStore creates the configured model artifact store backend.
func ProvideArtifactStore(cfg *config.Config) (repository.ArtifactStore, error) {
	switch cfg.Models.Backend {
	case "file":
		store, err := internalrepo.NewFSStore(cfg.Models.Dir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		return store, nil
	case "redis":
		store, err := internalrepo.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return store, nil
	case "memory":
		return internalrepo.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown models backend '%s'", cfg.Models.Backend)
	}
}

// ProvideTwelveData creates the Twelve Data client.
func ProvideTwelveData(cfg *config.Config, logger *applogger.Logger) *twelvedata.Client {
	return twelvedata.New(
		cfg.TwelveData.APIKey,
		cfg.TwelveData.BaseURL,
		cfg.TwelveData.Exchanges,
		cfg.TwelveData.Timeout,
		logger,
	)
}

// ProvideSymbolSearcher exposes the Twelve Data client as the resolver port.
func ProvideSymbolSearcher(c *twelvedata.Client) repository.SymbolSearcher { return c }

// ProvideMarketData exposes the Twelve Data client as the market-data port.
func ProvideMarketData(c *twelvedata.Client) repository.MarketData { return c }

// ProvideRelay creates the downstream backend relay.
func ProvideRelay(cfg *config.Config, logger *applogger.Logger) repository.ResultRelay {
	return relay.New(cfg.Backend.URL, cfg.Backend.APIToken, cfg.Backend.Timeout, logger)
}

// ProvideTrainParams maps training configuration onto boosting parameters,
// falling back to production defaults for unset values.
func ProvideTrainParams(cfg *config.Config) train.Params {
	p := train.DefaultParams()
	if cfg.Training.Rounds > 0 {
		p.Rounds = cfg.Training.Rounds
	}
	if cfg.Training.LearningRate > 0 {
		p.LearningRate = cfg.Training.LearningRate
	}
	if cfg.Training.MaxDepth > 0 {
		p.MaxDepth = cfg.Training.MaxDepth
	}
	if cfg.Training.Subsample > 0 {
		p.Subsample = cfg.Training.Subsample
	}
	if cfg.Training.ColSample > 0 {
		p.ColSample = cfg.Training.ColSample
	}
	if cfg.Training.Seed != 0 {
		p.Seed = cfg.Training.Seed
	}
	if cfg.Training.EarlyStoppingRounds > 0 {
		p.EarlyStoppingRounds = cfg.Training.EarlyStoppingRounds
	}
	return p
}

// ProvideWindows parses the configured fetch date ranges.
func ProvideWindows(cfg *config.Config) (usecase.Windows, error) {
	const layout = "2006-01-02"
	var w usecase.Windows
	var err error
	if w.TrainingStart, err = time.Parse(layout, cfg.TwelveData.TrainingStart); err != nil {
		return w, fmt.Errorf("twelvedata.training_start: %w", err)
	}
	if w.InferenceStart, err = time.Parse(layout, cfg.TwelveData.InferenceStart); err != nil {
		return w, fmt.Errorf("twelvedata.inference_start: %w", err)
	}
	if w.InferenceEnd, err = time.Parse(layout, cfg.TwelveData.InferenceEnd); err != nil {
		return w, fmt.Errorf("twelvedata.inference_end: %w", err)
	}
	return w, nil
}

// ProvidePredictor creates the prediction orchestrator.
func ProvidePredictor(
	resolver repository.SymbolSearcher,
	market repository.MarketData,
	store repository.ArtifactStore,
	rel repository.ResultRelay,
	m repository.Metrics,
	logger *applogger.Logger,
	params train.Params,
	windows usecase.Windows,
) *usecase.Predictor {
	return usecase.NewPredictor(resolver, market, store, rel, m, logger, params, windows)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(logger *applogger.Logger, predictor *usecase.Predictor) xhttp.Handler {
	return api.NewPredictHandler(logger, predictor)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	store repository.ArtifactStore,
) *server.App {
	app := server.New(cfg, logger, handler)
	if c, ok := store.(server.Closer); ok {
		app.AddCloser(c)
	}
	return app
}
