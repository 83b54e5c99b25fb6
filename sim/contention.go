package sim

import "math"

// ArchConstants holds the per-core (modelV1) or per-node (modelV1_1)
// architecture constants that parameterize the contention model, grounded on
// original_source/irmasim/platform/models/modelV1/Core.py's config fields.
type ArchConstants struct {
	ClockRate       float64
	DPFlopsPerCycle float64
	DynamicPower    float64
	StaticPower     float64
	MinPower        float64
	B, C            float64
	DA, DB, DC, DD  float64
}

// MopsPerCore is the nominal per-core throughput in mega-operations/second,
// clock_rate * dpflops_per_cycle * 1e3.
func (a ArchConstants) MopsPerCore() float64 {
	return a.ClockRate * a.DPFlopsPerCycle * 1e3
}

// smootherstep is Perlin's smootherstep, clamped at the domain boundary.
func smootherstep(x float64) float64 {
	switch {
	case x < 0:
		return 1
	case x > 1:
		return 0
	default:
		return 1 - x*x*x*(x*(6*x-15)+10)
	}
}

// contentionDecay is d(y,n): the concurrency- and demand-scaled decay factor
// feeding into perf.
func contentionDecay(y, n float64, arch ArchConstants) float64 {
	aux := (y - (arch.DA-n)*arch.DB) / (arch.DC - n*arch.DD)
	aux = smootherstep(aux)
	return aux*(n*0.6/(1+n*0.6)) + 1/(1+n*0.6)
}

// perf is the contention-adjusted performance fraction in (0,1] for a
// resource demanding y bytes/s against an aggregate demand of aggBW across n
// other contenders.
func perf(aggBW, y, n float64, arch ArchConstants) float64 {
	d := contentionDecay(y, n, arch)
	switch {
	case aggBW < arch.C:
		return 1
	case aggBW > (d+arch.B*arch.C-1)/arch.B:
		return d
	default:
		return arch.B*(aggBW-arch.C) + 1
	}
}

// roundSpeedup preserves the reference's exact 9-decimal rounding rule,
// which affects comparisons in the backfill predicate.
func roundSpeedup(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}
