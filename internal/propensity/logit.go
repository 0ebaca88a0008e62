package propensity

import "math"

// fitLogistic trains logistic regression weights by batch gradient descent on
// the log loss. Iterations are bounded; training stops early once the
// gradient norm falls under a small tolerance.
func fitLogistic(X [][]float64, y []int, lr float64, maxIter int) (weights []float64, bias float64) {
	if len(X) == 0 {
		return nil, 0
	}
	dim := len(X[0])
	weights = make([]float64, dim)
	grad := make([]float64, dim)
	n := float64(len(X))
	const tol = 1e-6

	for iter := 0; iter < maxIter; iter++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0
		for i, x := range X {
			diff := sigmoid(dot(weights, x)+bias) - float64(y[i])
			for j, v := range x {
				grad[j] += diff * v
			}
			gradBias += diff
		}
		gradBias /= n
		norm := gradBias * gradBias
		for j := range grad {
			grad[j] /= n
			norm += grad[j] * grad[j]
		}
		for j := range grad {
			weights[j] -= lr * grad[j]
		}
		bias -= lr * gradBias
		if norm < tol*tol {
			break
		}
	}
	return weights, bias
}

func sigmoid(z float64) float64 {
	// split to avoid overflow for large negative z
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
