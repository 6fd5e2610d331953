// Package train fits the per-symbol regressor: gradient-boosted regression
// trees with a squared-error objective, bounded depth and row/column
// subsampling to keep small per-symbol datasets from overfitting.
package train

import (
	"math"
	"math/rand"

	"StockCast/internal/domain/errs"
	"StockCast/internal/domain/models"
)

// Params controls the boosting run. Values mirror the service's production
// defaults; the seed fixes both the train/test split and the subsampling.
type Params struct {
	Rounds              int
	LearningRate        float64
	MaxDepth            int
	Subsample           float64
	ColSample           float64
	Seed                int64
	EarlyStoppingRounds int
	TestFraction        float64
}

// DefaultParams returns the production training configuration.
func DefaultParams() Params {
	return Params{
		Rounds:              100,
		LearningRate:        0.05,
		MaxDepth:            5,
		Subsample:           0.8,
		ColSample:           0.8,
		Seed:                42,
		EarlyStoppingRounds: 10,
		TestFraction:        0.2,
	}
}

const minSplitSize = 2

// Train fits a boosted ensemble on the table and reports held-out MSE.
// The held-out subset comes from a seeded shuffle, not a time-ordered split,
// so the metric is an approximation rather than a walk-forward backtest.
func Train(table models.TrainingTable, p Params) (*Model, float64, error) {
	x := table.Matrix()
	y := table.Targets
	n := len(x)

	rng := rand.New(rand.NewSource(p.Seed))
	perm := rng.Perm(n)
	nTest := int(float64(n) * p.TestFraction)
	testIdx := perm[:nTest]
	trainIdx := perm[nTest:]

	if len(trainIdx) == 0 {
		return nil, 0, errs.Newf(errs.KindTraining,
			"training subset is empty after split: %d rows total", n)
	}

	base := 0.0
	for _, i := range trainIdx {
		base += y[i]
	}
	base /= float64(len(trainIdx))

	model := &Model{Base: base, Shrinkage: p.LearningRate}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = base
	}

	bestMSE := evalMSE(y, pred, testIdx)
	bestRound := -1 // base score only
	sinceBest := 0

	for round := 0; round < p.Rounds; round++ {
		rows := sampleRows(rng, trainIdx, p.Subsample)
		cols := sampleCols(rng, models.NumFeatures, p.ColSample)

		// squared-error objective: pseudo-residual is just y - prediction
		resid := make([]float64, n)
		for _, i := range rows {
			resid[i] = y[i] - pred[i]
		}

		tree := buildTree(x, resid, rows, cols, p.MaxDepth)
		model.Trees = append(model.Trees, tree)

		for i := range pred {
			pred[i] += p.LearningRate * tree.predict(x[i])
		}

		mse := evalMSE(y, pred, testIdx)
		if len(testIdx) == 0 || mse < bestMSE {
			bestMSE = mse
			bestRound = round
			sinceBest = 0
		} else {
			sinceBest++
			if p.EarlyStoppingRounds > 0 && sinceBest >= p.EarlyStoppingRounds {
				break
			}
		}
	}

	// keep only the rounds up to the best held-out score
	model.Trees = model.Trees[:bestRound+1]

	return model, bestMSE, nil
}

// evalMSE computes mean squared error over the given indices. With an empty
// held-out set (tiny tables) it falls back to all rows.
func evalMSE(y, pred []float64, idx []int) float64 {
	if len(idx) == 0 {
		idx = make([]int, len(y))
		for i := range idx {
			idx[i] = i
		}
	}
	sum := 0.0
	for _, i := range idx {
		d := y[i] - pred[i]
		sum += d * d
	}
	return sum / float64(len(idx))
}

func sampleRows(rng *rand.Rand, idx []int, fraction float64) []int {
	k := int(math.Ceil(fraction * float64(len(idx))))
	if k >= len(idx) {
		return idx
	}
	shuffled := make([]int, len(idx))
	copy(shuffled, idx)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:k]
}

func sampleCols(rng *rand.Rand, total int, fraction float64) []int {
	k := int(math.Ceil(fraction * float64(total)))
	if k < 1 {
		k = 1
	}
	perm := rng.Perm(total)
	return perm[:k]
}
