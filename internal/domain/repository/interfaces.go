package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// SymbolSearcher resolves a free-text query to a canonical exchange ticker.
type SymbolSearcher interface {
	Resolve(ctx context.Context, query string) (string, error)
}

// MarketData fetches an ordered daily price series for a symbol.
type MarketData interface {
	DailySeries(ctx context.Context, symbol string, from, to time.Time) (models.PriceSeries, error)
}

// ArtifactStore persists one trained model per symbol. The storage key is a
// pure function of the symbol, so a retrain always overwrites in full.
type ArtifactStore interface {
	Exists(ctx context.Context, symbol string) (bool, error)
	Load(ctx context.Context, symbol string) ([]byte, error)
	Save(ctx context.Context, symbol string, artifact []byte) error
}

// ResultRelay forwards a computed prediction to the downstream backend.
// saved=false with a nil error means the backend rejected it (partial success).
type ResultRelay interface {
	Save(ctx context.Context, symbol string, price float64) (saved bool, err error)
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordPrediction(status string)
	RecordTraining(symbol string, seconds float64)
	RecordModelCache(result string)
	RecordRelayFailure(symbol string)
	RecordLastPrediction(symbol string, price float64)
}
