package measure

// Summarize derives a TrendSummary from a series. It is only used for
// entries that ship without a precomputed summary. Forecast rows are skipped.
// Slopes are least-squares fits against the period index, so a missing
// period keeps its slot and does not compress the time axis.
func Summarize(id string, obs []Observation) TrendSummary {
	var localX, localY, benchX, benchY []float64
	idx := 0
	for _, o := range obs {
		if o.Forecast {
			continue
		}
		if v, ok := o.Local.Get(); ok {
			localX = append(localX, float64(idx))
			localY = append(localY, v)
		}
		if v, ok := o.Benchmark.Get(); ok {
			benchX = append(benchX, float64(idx))
			benchY = append(benchY, v)
		}
		idx++
	}

	return TrendSummary{
		MeasureID:      id,
		LocalMean:      mean(localY),
		BenchmarkMean:  mean(benchY),
		LocalSlope:     slope(localX, localY),
		BenchmarkSlope: slope(benchX, benchY),
	}
}

func mean(ys []float64) Value {
	if len(ys) == 0 {
		return None()
	}
	var sum float64
	for _, y := range ys {
		sum += y
	}
	return Some(sum / float64(len(ys)))
}

// slope returns the ordinary least-squares slope, or 0 with fewer than two points.
func slope(xs, ys []float64) float64 {
	n := float64(len(xs))
	if len(xs) < 2 {
		return 0
	}
	var sx, sy, sxy, sxx float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxy += xs[i] * ys[i]
		sxx += xs[i] * xs[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
