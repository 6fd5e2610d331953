package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"StockCast/internal/domain/errs"
	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	"StockCast/internal/features"
	"StockCast/internal/train"
	xlogger "StockCast/pkg/logger"
)

// Windows fixes the fetch ranges. Training runs from TrainingStart to
// InferenceEnd; inference always re-fetches the fixed
// InferenceStart..InferenceEnd window, independent of the training series.
type Windows struct {
	TrainingStart  time.Time
	InferenceStart time.Time
	InferenceEnd   time.Time
}

// Predictor is the request-handling core: it resolves the symbol, trains a
// model on first demand, runs inference and relays the rounded result. One
// synchronous pipeline per request, no internal parallelism.
type Predictor struct {
	resolver repository.SymbolSearcher
	market   repository.MarketData
	store    repository.ArtifactStore
	relay    repository.ResultRelay
	metrics  repository.Metrics
	logger   *xlogger.Logger
	params   train.Params
	windows  Windows
}

// NewPredictor wires the pipeline.
func NewPredictor(
	resolver repository.SymbolSearcher,
	market repository.MarketData,
	store repository.ArtifactStore,
	relay repository.ResultRelay,
	metrics repository.Metrics,
	logger *xlogger.Logger,
	params train.Params,
	windows Windows,
) *Predictor {
	return &Predictor{
		resolver: resolver,
		market:   market,
		store:    store,
		relay:    relay,
		metrics:  metrics,
		logger:   logger,
		params:   params,
		windows:  windows,
	}
}

// Predict serves one prediction request end to end. Every downstream error
// comes back kinded; a backend that rejects the relay yields a successful
// result with Saved=false.
func (p *Predictor) Predict(ctx context.Context, query string) (*models.PredictionResult, error) {
	symbol, err := p.resolver.Resolve(ctx, query)
	if err != nil {
		p.metrics.RecordPrediction(errs.KindOf(err).String())
		return nil, err
	}

	model, err := p.ensureModel(ctx, symbol)
	if err != nil {
		p.metrics.RecordPrediction(errs.KindOf(err).String())
		return nil, err
	}

	series, err := p.market.DailySeries(ctx, symbol, p.windows.InferenceStart, p.windows.InferenceEnd)
	if err != nil {
		p.metrics.RecordPrediction(errs.KindOf(err).String())
		return nil, err
	}

	row, err := features.LatestFeatureRow(series)
	if err != nil {
		p.metrics.RecordPrediction(errs.KindOf(err).String())
		return nil, err
	}

	price := Round2(model.Predict(row.Vector()))

	saved, err := p.relay.Save(ctx, symbol, price)
	if err != nil {
		p.metrics.RecordPrediction(errs.KindOf(err).String())
		return nil, err
	}
	if !saved {
		p.metrics.RecordRelayFailure(symbol)
	}

	p.metrics.RecordPrediction("ok")
	p.metrics.RecordLastPrediction(symbol, price)
	p.logger.Info("prediction served",
		xlogger.String("symbol", symbol),
		xlogger.Float64("price", price),
		xlogger.Bool("saved", saved),
	)

	return &models.PredictionResult{Symbol: symbol, Price: price, Saved: saved}, nil
}

// ensureModel loads the cached model for the symbol, training and saving one
// first when the store has none. Two concurrent first-time requests may both
// train; the store's last write wins and both loads stay valid.
func (p *Predictor) ensureModel(ctx context.Context, symbol string) (*train.Model, error) {
	exists, err := p.store.Exists(ctx, symbol)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, "model lookup failed", err).WithSymbol(symbol)
	}

	if exists {
		p.metrics.RecordModelCache("hit")
	} else {
		p.metrics.RecordModelCache("miss")
		if err := p.trainAndSave(ctx, symbol); err != nil {
			return nil, err
		}
	}

	raw, err := p.store.Load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return train.Decode(raw)
}

func (p *Predictor) trainAndSave(ctx context.Context, symbol string) error {
	series, err := p.market.DailySeries(ctx, symbol, p.windows.TrainingStart, p.windows.InferenceEnd)
	if err != nil {
		return err
	}

	table, err := features.BuildTrainingTable(series)
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			e.Symbol = symbol
		}
		return err
	}

	start := time.Now()
	model, mse, err := train.Train(table, p.params)
	if err != nil {
		return err
	}
	p.metrics.RecordTraining(symbol, time.Since(start).Seconds())
	p.logger.Info("model trained",
		xlogger.String("symbol", symbol),
		xlogger.Int("rows", table.Len()),
		xlogger.Int("trees", len(model.Trees)),
		xlogger.Float64("mse", mse),
		xlogger.Duration("took", time.Since(start)),
	)

	artifact, err := model.Encode()
	if err != nil {
		return err
	}
	if err := p.store.Save(ctx, symbol, artifact); err != nil {
		return errs.Wrap(errs.KindUnknown, "save model failed", err).WithSymbol(symbol)
	}
	return nil
}

// Round2 rounds to two decimals, half away from zero. This is the externally
// visible precision contract for every prediction.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
