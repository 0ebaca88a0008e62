// Package propensity fits a logistic classifier that estimates each record's
// probability of conversion from the canonical view.
package propensity

import (
	"errors"
	"fmt"
	"math"

	"github.com/funnelform/leadlens/internal/schema"
)

// Algorithm names the classifier for reporting surfaces.
const Algorithm = "Logistic Regression"

// Recoverable training preconditions. The caller degrades to "no model" and
// still serves analytics when one of these comes back.
var (
	ErrNoTarget      = errors.New("no conversion target available for modeling")
	ErrNoFeatures    = errors.New("no usable features found for modeling")
	ErrNoVariability = errors.New("conversion target has no variability: only one class present")
)

// ErrFeatureMismatch signals a scoring failure: the view lacks a feature the
// model was trained with. Distinct from training preconditions so callers can
// tell the two failure modes apart.
var ErrFeatureMismatch = errors.New("view is missing a feature the model was trained with")

// Options tunes training. Zero values fall back to defaults, so Options{} is
// the reproducible configuration used in production.
type Options struct {
	TestFraction float64 // held-out share, default 0.25
	Seed         int64   // split shuffle seed, default 42
	MaxIter      int     // gradient descent iteration bound, default 1000
	LearningRate float64 // default 0.1
}

func (o Options) withDefaults() Options {
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		o.TestFraction = 0.25
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	if o.MaxIter <= 0 {
		o.MaxIter = 1000
	}
	if o.LearningRate <= 0 {
		o.LearningRate = 0.1
	}
	return o
}

// Metrics is the held-out evaluation. ROCAUC is nil when the held-out split
// contains a single class, because AUC is undefined there.
type Metrics struct {
	Accuracy float64  `json:"accuracy"`
	ROCAUC   *float64 `json:"roc_auc"`
}

// Model is a fitted classifier bound to the exact feature set and categorical
// encoding used at training time. It lives only for the duration of one
// request and is never persisted.
type Model struct {
	enc     *encoder
	weights []float64
	bias    float64
	means   []float64 // numeric standardization, fitted on training rows
	stds    []float64
}

// Features returns the ordered conceptual features the model was fit with.
func (m *Model) Features() []schema.Field {
	return m.enc.features()
}

// Train selects available features, splits the data 75/25 stratified by the
// target, fits the classifier, and evaluates on the held-out rows.
func Train(v *schema.View, opt Options) (*Model, []schema.Field, Metrics, error) {
	opt = opt.withDefaults()
	if v.Converted == nil {
		return nil, nil, Metrics{}, ErrNoTarget
	}
	enc, err := newEncoder(v)
	if err != nil {
		return nil, nil, Metrics{}, err
	}

	var ones int
	for _, y := range v.Converted {
		ones += y
	}
	if ones == 0 || ones == len(v.Converted) {
		return nil, nil, Metrics{}, ErrNoVariability
	}

	trainIdx, testIdx := stratifiedSplit(v.Converted, opt.TestFraction, opt.Seed)
	enc.fitCategories(v, trainIdx)

	m := &Model{enc: enc}
	m.fitScaler(v, trainIdx)
	X := make([][]float64, len(trainIdx))
	y := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		X[i] = m.encodeRow(v, idx)
		y[i] = v.Converted[idx]
	}
	m.weights, m.bias = fitLogistic(X, y, opt.LearningRate, opt.MaxIter)

	// Tiny datasets can leave the held-out side empty; evaluate on the
	// training rows then so accuracy is still defined.
	evalIdx := testIdx
	if len(evalIdx) == 0 {
		evalIdx = trainIdx
	}
	probs := make([]float64, len(evalIdx))
	truth := make([]int, len(evalIdx))
	for i, idx := range evalIdx {
		probs[i] = m.score(v, idx)
		truth[i] = v.Converted[idx]
	}
	metrics := Metrics{Accuracy: accuracy(truth, probs)}
	if auc, ok := rocAUC(truth, probs); ok {
		metrics.ROCAUC = &auc
	}
	return m, m.Features(), metrics, nil
}

// Predict scores every row of the view with the training-time feature set and
// encoding. Unseen campaign levels map to an all-zero indicator vector, so
// scoring never fails on new categories. Row order and count are preserved.
func (m *Model) Predict(v *schema.View) ([]float64, error) {
	for _, f := range m.enc.features() {
		if !v.Has(f) {
			return nil, fmt.Errorf("%w: %s", ErrFeatureMismatch, f)
		}
	}
	out := make([]float64, v.N)
	for i := 0; i < v.N; i++ {
		out[i] = m.score(v, i)
	}
	return out, nil
}

func (m *Model) score(v *schema.View, row int) float64 {
	return sigmoid(dot(m.weights, m.encodeRow(v, row)) + m.bias)
}

// fitScaler computes mean/std of each numeric feature over the training rows.
// Standardizing keeps gradient descent stable across wildly different scales
// (sales vs. impressions).
func (m *Model) fitScaler(v *schema.View, rows []int) {
	n := len(m.enc.numeric)
	m.means = make([]float64, n)
	m.stds = make([]float64, n)
	if len(rows) == 0 {
		for j := range m.stds {
			m.stds[j] = 1
		}
		return
	}
	for j, f := range m.enc.numeric {
		var sum float64
		for _, r := range rows {
			sum += m.enc.numericValue(v, f, r)
		}
		mean := sum / float64(len(rows))
		var sq float64
		for _, r := range rows {
			d := m.enc.numericValue(v, f, r) - mean
			sq += d * d
		}
		std := 0.0
		if len(rows) > 1 {
			std = sq / float64(len(rows))
		}
		m.means[j] = mean
		if std > 0 {
			m.stds[j] = math.Sqrt(std)
		} else {
			m.stds[j] = 1
		}
	}
}

func (m *Model) encodeRow(v *schema.View, row int) []float64 {
	x := make([]float64, m.enc.width())
	for j, f := range m.enc.numeric {
		x[j] = (m.enc.numericValue(v, f, row) - m.means[j]) / m.stds[j]
	}
	if m.enc.useCampaign {
		if idx, ok := m.enc.catIndex[v.Campaign[row]]; ok {
			x[len(m.enc.numeric)+idx] = 1
		}
	}
	return x
}
