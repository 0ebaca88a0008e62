package propensity

import "sort"

// accuracy is the share of rows where thresholding the probability at 0.5
// reproduces the true label.
func accuracy(truth []int, probs []float64) float64 {
	if len(truth) == 0 {
		return 0
	}
	var hits int
	for i, p := range probs {
		pred := 0
		if p >= 0.5 {
			pred = 1
		}
		if pred == truth[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(truth))
}

// rocAUC computes the area under the ROC curve via the rank statistic
// (Mann-Whitney U), averaging ranks over tied probabilities. ok is false when
// the labels contain a single class, where AUC is undefined.
func rocAUC(truth []int, probs []float64) (auc float64, ok bool) {
	var nPos, nNeg int
	for _, y := range truth {
		if y == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0, false
	}

	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return probs[idx[i]] < probs[idx[j]] })

	ranks := make([]float64, len(probs))
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && probs[idx[j]] == probs[idx[i]] {
			j++
		}
		// ranks are 1-based; ties share the average rank
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}

	var rankSum float64
	for i, y := range truth {
		if y == 1 {
			rankSum += ranks[i]
		}
	}
	u := rankSum - float64(nPos)*float64(nPos+1)/2
	return u / (float64(nPos) * float64(nNeg)), true
}
