package models

// FeatureRow is the engineered per-day feature vector fed to the regressor.
// Field order is the model's input contract; Vector must match it.
type FeatureRow struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Return float64 // 1-day close-to-close return
	MA7    float64 // 7-day rolling mean of close
	MA21   float64 // 21-day rolling mean of close
	STD7   float64 // 7-day rolling sample std of close
	STD21  float64 // 21-day rolling sample std of close
}

// NumFeatures is the width of a feature vector.
const NumFeatures = 10

// Vector returns the row as a flat slice in the fixed input order.
func (f FeatureRow) Vector() []float64 {
	return []float64{f.Open, f.High, f.Low, f.Close, f.Volume, f.Return, f.MA7, f.MA21, f.STD7, f.STD21}
}

// TrainingTable pairs feature rows with next-day close targets.
type TrainingTable struct {
	Rows    []FeatureRow
	Targets []float64
}

// Len returns the number of supervised rows.
func (t TrainingTable) Len() int { return len(t.Rows) }

// Matrix returns the feature matrix as row vectors.
func (t TrainingTable) Matrix() [][]float64 {
	m := make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		m[i] = r.Vector()
	}
	return m
}
