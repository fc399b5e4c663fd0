package indicators

// DetectVolumeSpike reports whether the latest volume exceeds spikeRatio
// times the average of the preceding lookback bars. ok is false while there
// is not enough history to form the average.
func DetectVolumeSpike(volumes []float64, lookback int, spikeRatio float64) (spike bool, ok bool) {
	last := len(volumes) - 1
	if last < lookback || lookback <= 0 {
		return false, false
	}

	avg := 0.0
	for i := last - lookback; i < last; i++ {
		avg += volumes[i]
	}
	avg /= float64(lookback)
	if avg <= 0 {
		return false, false
	}

	return volumes[last] >= spikeRatio*avg, true
}
