package summary

import (
	"sort"
	"time"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// meanGapMinutes sorts the timestamps and averages the gaps between
// neighbours. Fewer than two timestamps have no gap.
func meanGapMinutes(times []time.Time) float64 {
	if len(times) < 2 {
		return 0
	}
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Sub(sorted[i-1]).Minutes())
	}
	return mean(gaps)
}

func ptr(v float64) *float64 {
	return &v
}
