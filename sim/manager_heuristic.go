package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Heuristic keeps the pending queue ordered by a configurable job-selection
// key and tries nodes in a configurable resource-selection order, without
// backfilling: only the head of the (re-ordered) pending queue is ever
// attempted. Grounded on
// original_source/irmasim/workload_manager/Heuristic.py.
type Heuristic struct {
	sim     *Simulator
	log     *logrus.Logger
	rng     *rand.Rand
	nodes   []NodeResource
	pending []*Job

	resourceSelection string
	jobSelection      string

	estimator *energyEstimator
}

// NewHeuristic constructs a Heuristic manager over the given node pool.
func NewHeuristic(sim *Simulator, nodes []NodeResource, resourceSelection, jobSelection string, rng *rand.Rand) *Heuristic {
	if !IsValidResourceSelection(resourceSelection) {
		panic("unknown resource selection " + resourceSelection)
	}
	if jobSelection != "" && !IsValidJobSelection(jobSelection) {
		panic("unknown job selection " + jobSelection)
	}
	return &Heuristic{
		sim:               sim,
		log:               sim.Log,
		rng:               rng,
		nodes:             nodes,
		resourceSelection: resourceSelection,
		jobSelection:      jobSelection,
		estimator:         newEnergyEstimator(nodes),
	}
}

func (h *Heuristic) OnJobSubmission(jobs []*Job) {
	h.pending = append(h.pending, jobs...)
	h.reorderPending()
	h.tryScheduleAll()
}

func (h *Heuristic) OnJobCompletion(jobs []*Job) {
	h.tryScheduleAll()
}

func (h *Heuristic) OnEndStep() {}

func (h *Heuristic) reorderPending() {
	jobEstimate := func(j *Job) (energy, edp float64) {
		if len(h.nodes) == 0 {
			return 0, 0
		}
		return h.estimator.Estimate(h.nodes[0], j)
	}
	h.pending = OrderJobsByJobSelection(h.jobSelection, h.pending, jobEstimate, h.rng)
}

func (h *Heuristic) tryScheduleAll() {
	for {
		if !h.tryScheduleHead() {
			return
		}
	}
}

func (h *Heuristic) tryScheduleHead() bool {
	if len(h.pending) == 0 {
		return false
	}
	head := h.pending[0]
	ordered := OrderNodesByResourceSelection(h.resourceSelection, h.nodes, head, h.estimator.Estimate, h.rng)
	paths := collectJobPlacement(ordered, head)
	if paths == nil {
		return false
	}
	tasks := make([]*Task, 0, len(head.Tasks))
	for i, t := range head.Tasks {
		t.Placement = paths[i]
		tasks = append(tasks, t)
	}
	if err := h.sim.Schedule(tasks); err != nil {
		h.log.Errorf("heuristic schedule failed for job %s: %v", head.ID, err)
		return false
	}
	if len(ordered) > 0 {
		h.estimator.NoteAssignment(ordered[0].ID(), 1)
	}
	h.pending = h.pending[1:]
	return true
}
