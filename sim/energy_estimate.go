package sim

// energyEstimator estimates the energy and energy-delay-product a job would
// consume if run on a given node, without actually placing it — used by the
// energy_lowest/_highest and edp_lowest/_highest selection criteria.
// Grounded on original_source/irmasim/workload_manager/Backfill.py's
// node_energy/node_edp/estimate_speedup.
type energyEstimator struct {
	minClockRate float64 // slowest node in the platform, for the frequency-speedup factor
	assigned     map[string]int
}

type clockRater interface{ ClockRate() float64 }
type mopsPerCoreNode interface{ MopsPerCore() float64 }
type staticDynamicPowerNode interface {
	StaticPowerPerCore() float64
	DynamicPowerPerCore() float64
}

func newEnergyEstimator(nodes []NodeResource) *energyEstimator {
	e := &energyEstimator{assigned: make(map[string]int)}
	min := -1.0
	for _, n := range nodes {
		if cr, ok := n.(clockRater); ok {
			if min < 0 || cr.ClockRate() < min {
				min = cr.ClockRate()
			}
		}
	}
	if min < 0 {
		min = 1
	}
	e.minClockRate = min
	return e
}

// estimateSpeedup returns the node's frequency- and throughput-relative
// speedup factor used to scale a job's nominal req_time for estimation
// purposes only (it never feeds the real contention model).
func (e *energyEstimator) estimateSpeedup(n NodeResource) float64 {
	cr, ok1 := n.(clockRater)
	mp, ok2 := n.(mopsPerCoreNode)
	if !ok1 || !ok2 || mp.MopsPerCore() == 0 || cr.ClockRate() == 0 {
		return 1
	}
	freqSpeedup := e.minClockRate / cr.ClockRate()
	invertedThroughput := (cr.ClockRate() * 1e3) / mp.MopsPerCore()
	return freqSpeedup * invertedThroughput
}

// Estimate returns (energy, energy-delay-product) for running job on node.
func (e *energyEstimator) Estimate(node NodeResource, job *Job) (energy, edp float64) {
	sdp, ok := node.(staticDynamicPowerNode)
	if !ok {
		return 0, 0
	}
	speedup := e.estimateSpeedup(node)
	nodeTime := job.ReqTime * speedup

	dynFraction := float64(job.NTasks) * sdp.DynamicPowerPerCore()
	running := e.assigned[node.ID()]
	staticFraction := sdp.StaticPowerPerCore() * float64(node.TotalCores()) / float64(running+1)

	energy = nodeTime * (dynFraction + staticFraction)
	edp = energy * nodeTime
	return energy, edp
}

// NoteAssignment records that node now runs one more (or fewer) job, for the
// running-job-count term of Estimate's static-power amortization.
func (e *energyEstimator) NoteAssignment(nodeID string, delta int) {
	e.assigned[nodeID] += delta
}
