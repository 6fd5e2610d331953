package train

import (
	"encoding/json"

	"StockCast/internal/domain/errs"
)

// Model is a trained boosted ensemble. It is the opaque artifact persisted
// per symbol; a retrain replaces it in full.
type Model struct {
	Base      float64 `json:"base"`
	Shrinkage float64 `json:"shrinkage"`
	Trees     []*Node `json:"trees"`
}

// Predict scores one feature vector.
func (m *Model) Predict(x []float64) float64 {
	out := m.Base
	for _, t := range m.Trees {
		out += m.Shrinkage * t.predict(x)
	}
	return out
}

// Encode serializes the model for the artifact store.
func (m *Model) Encode() ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, errs.Wrap(errs.KindTraining, "encode model", err)
	}
	return b, nil
}

// Decode restores a model from stored bytes. A failure here means the stored
// artifact is corrupt, not merely absent.
func Decode(b []byte) (*Model, error) {
	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errs.Wrap(errs.KindCorruptArtifact, "stored model is corrupt", err)
	}
	return &m, nil
}
