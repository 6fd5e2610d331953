package train

import "sort"

// Node is one node of a regression tree. Leaves carry the fitted residual
// mean; internal nodes route on x[Feature] < Threshold.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

func (n *Node) predict(x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// buildTree fits a depth-bounded regression tree to the residuals over the
// given rows, considering only the sampled feature columns.
func buildTree(x [][]float64, resid []float64, rows, cols []int, depth int) *Node {
	if depth <= 0 || len(rows) < minSplitSize {
		return leaf(resid, rows)
	}

	feature, threshold, ok := bestSplit(x, resid, rows, cols)
	if !ok {
		return leaf(resid, rows)
	}

	var left, right []int
	for _, i := range rows {
		if x[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf(resid, rows)
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildTree(x, resid, left, cols, depth-1),
		Right:     buildTree(x, resid, right, cols, depth-1),
	}
}

func leaf(resid []float64, rows []int) *Node {
	sum := 0.0
	for _, i := range rows {
		sum += resid[i]
	}
	return &Node{Leaf: true, Value: sum / float64(len(rows))}
}

// bestSplit scans every candidate feature with a sorted prefix-sum sweep and
// returns the split minimizing the summed squared error of the two sides.
func bestSplit(x [][]float64, resid []float64, rows, cols []int) (int, float64, bool) {
	total := 0.0
	total2 := 0.0
	for _, i := range rows {
		total += resid[i]
		total2 += resid[i] * resid[i]
	}
	parentSSE := total2 - total*total/float64(len(rows))

	bestSSE := parentSSE
	bestFeature := -1
	bestThreshold := 0.0

	order := make([]int, len(rows))
	for _, f := range cols {
		copy(order, rows)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		leftSum := 0.0
		leftSum2 := 0.0
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			leftSum += resid[i]
			leftSum2 += resid[i] * resid[i]

			// can't split between identical values
			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}

			nl := float64(k + 1)
			nr := float64(len(order) - k - 1)
			rightSum := total - leftSum
			rightSum2 := total2 - leftSum2
			sse := (leftSum2 - leftSum*leftSum/nl) + (rightSum2 - rightSum*rightSum/nr)
			if sse < bestSSE {
				bestSSE = sse
				bestFeature = f
				bestThreshold = (x[order[k]][f] + x[order[k+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}
