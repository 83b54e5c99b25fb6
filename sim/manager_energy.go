package sim

import "math/rand"

// Energy is Heuristic specialized with energy-aware defaults: node
// selection prefers the lowest estimated energy, job selection prefers the
// lowest estimated energy-delay-product, reusing the same estimator
// Backfill uses. Grounded on
// original_source/irmasim/workload_manager/EnergyHeuristic.go (Python
// original: Energy.py).
func NewEnergy(sim *Simulator, nodes []NodeResource, rng *rand.Rand) *Heuristic {
	return NewHeuristic(sim, nodes, "energy_lowest", "edp_lowest", rng)
}
