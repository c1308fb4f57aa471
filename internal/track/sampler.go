package track

import (
	"math"
	"math/rand"
)

// RampSampler draws integers whose probability grows linearly with their
// value. A continuous t with density proportional to t is drawn on
// [lower, upper) by inverse CDF and floored, giving
// P(k) = ((k+1)² - k²) / (upper² - lower²).
type RampSampler struct {
	rng *rand.Rand
}

// NewRampSampler wraps rng.
func NewRampSampler(rng *rand.Rand) RampSampler {
	return RampSampler{rng: rng}
}

// Draw returns an integer in [lower, upper). It returns lower when the
// range is empty.
func (s RampSampler) Draw(lower, upper int) int {
	if upper <= lower {
		return lower
	}
	lo2 := float64(lower * lower)
	hi2 := float64(upper * upper)
	t := math.Sqrt(lo2 + s.rng.Float64()*(hi2-lo2))
	k := int(math.Floor(t))
	if k >= upper {
		k = upper - 1
	}
	if k < lower {
		k = lower
	}
	return k
}

// Weights returns the target probability of each value in [lower, upper),
// indexed from lower. It returns nil when the range is empty.
func (RampSampler) Weights(lower, upper int) []float64 {
	if upper <= lower {
		return nil
	}
	total := float64(upper*upper - lower*lower)
	weights := make([]float64, 0, upper-lower)
	for k := lower; k < upper; k++ {
		weights = append(weights, float64(2*k+1)/total)
	}
	return weights
}
