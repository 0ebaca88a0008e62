package propensity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/funnelform/leadlens/internal/schema"
)

// sepView builds a view with a cleanly separable signal: converted rows have
// high sales, non-converted rows low sales, campaigns alternate.
func sepView(n int) *schema.View {
	v := &schema.View{N: n}
	v.Sales = make([]float64, n)
	v.Campaign = make([]string, n)
	v.Converted = make([]int, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			v.Converted[i] = 1
			v.Sales[i] = 100 + float64(i)
		} else {
			v.Sales[i] = 10 + float64(i%7)
		}
		if i%3 == 0 {
			v.Campaign[i] = "Email"
		} else {
			v.Campaign[i] = "Social"
		}
	}
	return v
}

func TestTrainRequiresTarget(t *testing.T) {
	v := &schema.View{N: 3, Sales: []float64{1, 2, 3}}
	_, _, _, err := Train(v, Options{})
	if !errors.Is(err, ErrNoTarget) {
		t.Fatalf("err = %v, want ErrNoTarget", err)
	}
}

func TestTrainRequiresFeatures(t *testing.T) {
	v := &schema.View{
		N:          2,
		CustomerID: []string{"1", "2"},
		Converted:  []int{0, 1},
	}
	_, _, _, err := Train(v, Options{})
	if !errors.Is(err, ErrNoFeatures) {
		t.Fatalf("err = %v, want ErrNoFeatures", err)
	}
}

func TestTrainRequiresTargetVariability(t *testing.T) {
	v := &schema.View{
		N:         3,
		Sales:     []float64{1, 2, 3},
		Converted: []int{0, 0, 0},
	}
	_, _, _, err := Train(v, Options{})
	if !errors.Is(err, ErrNoVariability) {
		t.Fatalf("err = %v, want ErrNoVariability", err)
	}
}

func TestTrainAndPredict(t *testing.T) {
	v := sepView(40)
	m, features, metrics, err := Train(v, Options{})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	wantFeatures := []schema.Field{schema.FieldSales, schema.FieldCampaign}
	if len(features) != len(wantFeatures) {
		t.Fatalf("features = %v", features)
	}
	for i, f := range wantFeatures {
		if features[i] != f {
			t.Fatalf("features[%d] = %s, want %s", i, features[i], f)
		}
	}
	if metrics.Accuracy < 0.9 || metrics.Accuracy > 1 {
		t.Fatalf("accuracy = %v", metrics.Accuracy)
	}
	if metrics.ROCAUC == nil || *metrics.ROCAUC < 0.99 {
		t.Fatalf("roc_auc = %v, want near 1 on separable data", metrics.ROCAUC)
	}

	probs, err := m.Predict(v)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(probs) != v.N {
		t.Fatalf("probs len = %d, want %d", len(probs), v.N)
	}
	for i, p := range probs {
		if p < 0 || p > 1 {
			t.Fatalf("probs[%d] = %v out of [0,1]", i, p)
		}
	}
	// converted rows must score clearly higher than the rest
	if probs[0] <= probs[1] {
		t.Fatalf("separable data not separated: p(converted)=%v p(other)=%v", probs[0], probs[1])
	}
}

func TestTrainDeterministic(t *testing.T) {
	a, _, ma, err := Train(sepView(24), Options{})
	if err != nil {
		t.Fatalf("Train a: %v", err)
	}
	b, _, mb, err := Train(sepView(24), Options{})
	if err != nil {
		t.Fatalf("Train b: %v", err)
	}
	if ma.Accuracy != mb.Accuracy {
		t.Fatalf("accuracy differs across runs: %v vs %v", ma.Accuracy, mb.Accuracy)
	}
	pa, _ := a.Predict(sepView(24))
	pb, _ := b.Predict(sepView(24))
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("prediction %d differs across runs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

func TestPredictUnseenCampaign(t *testing.T) {
	m, _, _, err := Train(sepView(20), Options{})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	v := &schema.View{
		N:         2,
		Sales:     []float64{120, 5},
		Campaign:  []string{"BrandNewChannel", "AnotherNewOne"},
		Converted: []int{1, 0},
	}
	probs, err := m.Predict(v)
	if err != nil {
		t.Fatalf("Predict with unseen categories: %v", err)
	}
	if len(probs) != 2 {
		t.Fatalf("probs = %#v", probs)
	}
	if probs[0] <= probs[1] {
		t.Fatalf("sales signal lost for unseen campaigns: %#v", probs)
	}
}

func TestPredictFeatureMismatch(t *testing.T) {
	m, _, _, err := Train(sepView(20), Options{})
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	v := &schema.View{N: 1, Campaign: []string{"Email"}}
	if _, err := m.Predict(v); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("err = %v, want ErrFeatureMismatch", err)
	}
}

func TestStratifiedSplit(t *testing.T) {
	target := make([]int, 100)
	for i := 80; i < 100; i++ {
		target[i] = 1
	}
	train, test := stratifiedSplit(target, 0.25, 42)
	if len(train)+len(test) != 100 {
		t.Fatalf("split sizes = %d + %d", len(train), len(test))
	}
	var testPos int
	seen := map[int]bool{}
	for _, i := range append(append([]int(nil), train...), test...) {
		if seen[i] {
			t.Fatalf("index %d appears twice", i)
		}
		seen[i] = true
	}
	for _, i := range test {
		if target[i] == 1 {
			testPos++
		}
	}
	if testPos != 5 {
		t.Fatalf("held-out positives = %d, want 5 (25%% of 20)", testPos)
	}
	if len(test) != 25 {
		t.Fatalf("held-out size = %d, want 25", len(test))
	}

	train2, test2 := stratifiedSplit(target, 0.25, 42)
	if fmt.Sprint(train) != fmt.Sprint(train2) || fmt.Sprint(test) != fmt.Sprint(test2) {
		t.Fatalf("split not deterministic for a fixed seed")
	}
}

func TestAccuracy(t *testing.T) {
	truth := []int{1, 0, 1, 0}
	probs := []float64{0.9, 0.2, 0.4, 0.6}
	if got := accuracy(truth, probs); got != 0.5 {
		t.Fatalf("accuracy = %v, want 0.5", got)
	}
}

func TestROCAUC(t *testing.T) {
	// perfect ranking
	auc, ok := rocAUC([]int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9})
	if !ok || auc != 1 {
		t.Fatalf("auc = %v ok=%v, want 1", auc, ok)
	}
	// inverted ranking
	auc, ok = rocAUC([]int{1, 1, 0, 0}, []float64{0.1, 0.2, 0.8, 0.9})
	if !ok || auc != 0 {
		t.Fatalf("auc = %v ok=%v, want 0", auc, ok)
	}
	// all probabilities tied: chance level
	auc, ok = rocAUC([]int{0, 1}, []float64{0.5, 0.5})
	if !ok || auc != 0.5 {
		t.Fatalf("auc = %v ok=%v, want 0.5", auc, ok)
	}
	// undefined for a single class
	if _, ok := rocAUC([]int{1, 1}, []float64{0.5, 0.6}); ok {
		t.Fatalf("auc should be undefined for a single class")
	}
}
