package propensity

import "math/rand"

// stratifiedSplit partitions row indices into train and held-out sets,
// sampling the held-out fraction within each class so rare classes are
// represented on both sides. The seed fixes the shuffle, so identical input
// produces identical splits across runs.
func stratifiedSplit(target []int, testFraction float64, seed int64) (train, test []int) {
	byClass := map[int][]int{}
	for i, y := range target {
		byClass[y] = append(byClass[y], i)
	}
	rng := rand.New(rand.NewSource(seed))
	// iterate classes in a fixed order for determinism
	for _, class := range []int{0, 1} {
		idxs := byClass[class]
		if len(idxs) == 0 {
			continue
		}
		rng.Shuffle(len(idxs), func(i, j int) {
			idxs[i], idxs[j] = idxs[j], idxs[i]
		})
		nTest := int(float64(len(idxs))*testFraction + 0.5)
		if nTest == 0 && len(idxs) > 1 {
			nTest = 1
		}
		if nTest >= len(idxs) {
			// a class never goes entirely to the held-out side
			nTest = len(idxs) - 1
		}
		test = append(test, idxs[:nTest]...)
		train = append(train, idxs[nTest:]...)
	}
	return train, test
}
