package meter

import "math"

// blockLevel derives a decibel loudness from one block of normalized
// samples: 20·log10 of the block's root-mean-square amplitude. Silence
// (zero RMS) and empty blocks map to -Inf, which compares below every
// finite threshold.
func blockLevel(samples []float64) float64 {
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sumSquares float64
	for _, s := range samples {
		sumSquares += s * s
	}
	rms := math.Sqrt(sumSquares / float64(len(samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}

// baseline is the rolling ambient-loudness estimate. The first window
// levels are averaged exactly (sum/count); afterwards each new level folds
// in with weight 1/window. The value at the transition is the same under
// both rules, so there is no discontinuity.
type baseline struct {
	value  float64
	count  int
	sum    float64
	window int
}

// fold absorbs one loudness level. Callers must screen out non-finite
// levels: a single -Inf fold would pin the average there for the rest of
// the run.
func (b *baseline) fold(level float64) {
	if b.value == 0 {
		// Zero is the unset marker, not a meaningful ambient loudness;
		// the first level seeds the estimate directly.
		b.value = level
	}
	if b.count < b.window {
		b.count++
		b.sum += level
		b.value = b.sum / float64(b.count)
	} else {
		b.value = (b.value*float64(b.window-1) + level) / float64(b.window)
	}
}
