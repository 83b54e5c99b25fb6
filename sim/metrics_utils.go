// sim/metrics_utils.go
package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// MetricSummary reports total/avg/max/min over a list-valued per-job metric,
// the aggregation shape spec'd for end-of-trajectory statistics.
type MetricSummary struct {
	Total float64
	Avg   float64
	Max   float64
	Min   float64
}

func summarize(values []float64) MetricSummary {
	if len(values) == 0 {
		return MetricSummary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return MetricSummary{
		Total: total,
		Avg:   stat.Mean(sorted, nil),
		Max:   sorted[len(sorted)-1],
		Min:   sorted[0],
	}
}
