package track

import (
	"math"
	"math/rand"
	"testing"
)

func TestRampSamplerWeights(t *testing.T) {
	s := RampSampler{}

	for upper := 2; upper <= 6; upper++ {
		weights := s.Weights(1, upper)
		if len(weights) != upper-1 {
			t.Fatalf("Weights(1, %d) has %d entries, expected %d", upper, len(weights), upper-1)
		}
		sum := 0.0
		for i, w := range weights {
			sum += w
			if i > 0 && w <= weights[i-1] {
				t.Errorf("Weights(1, %d)[%d] = %f, not greater than %f", upper, i, w, weights[i-1])
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Weights(1, %d) sums to %f, expected 1", upper, sum)
		}
	}

	if w := s.Weights(3, 3); w != nil {
		t.Errorf("Weights(3, 3) = %v, expected nil", w)
	}
}

func TestRampSamplerMatchesWeights(t *testing.T) {
	s := NewRampSampler(rand.New(rand.NewSource(99)))
	const draws = 200000

	counts := make([]int, 6)
	for i := 0; i < draws; i++ {
		k := s.Draw(1, 6)
		if k < 1 || k >= 6 {
			t.Fatalf("Draw(1, 6) = %d, out of range", k)
		}
		counts[k]++
	}

	weights := s.Weights(1, 6)
	for k := 1; k < 6; k++ {
		got := float64(counts[k]) / draws
		if math.Abs(got-weights[k-1]) > 0.01 {
			t.Errorf("frequency of %d = %.4f, expected %.4f", k, got, weights[k-1])
		}
	}
	if counts[5] <= counts[1] {
		t.Errorf("harder value drawn %d times, easier %d times", counts[5], counts[1])
	}
}

func TestRampSamplerEmptyRange(t *testing.T) {
	s := NewRampSampler(rand.New(rand.NewSource(1)))
	if got := s.Draw(4, 4); got != 4 {
		t.Errorf("Draw(4, 4) = %d, expected 4", got)
	}
}
