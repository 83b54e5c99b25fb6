package sim

import "github.com/sirupsen/logrus"

// Minimal is the simplest workload manager: strictly first-come-first-served,
// never reordering the pending queue. The head job is placed with
// collectJobPlacement: nodes are walked in order, each node with an idle slot
// contributes up to NTasksPerNode of them, at most job.Nodes nodes are used,
// and the head waits when those slots do not cover all its tasks. Grounded on
// original_source/irmasim/workload_manager/Minimal.go (Python original:
// Minimal.py).
type Minimal struct {
	sim     *Simulator
	log     *logrus.Logger
	nodes   []NodeResource
	pending []*Job
}

// NewMinimal constructs a Minimal manager over the given node pool.
func NewMinimal(sim *Simulator, nodes []NodeResource) *Minimal {
	return &Minimal{sim: sim, log: sim.Log, nodes: nodes}
}

func (m *Minimal) OnJobSubmission(jobs []*Job) {
	m.pending = append(m.pending, jobs...)
	m.tryScheduleAll()
}

func (m *Minimal) OnJobCompletion(jobs []*Job) {
	m.tryScheduleAll()
}

func (m *Minimal) OnEndStep() {}

func (m *Minimal) tryScheduleAll() {
	for {
		if !m.tryScheduleOne() {
			return
		}
	}
}

func (m *Minimal) tryScheduleOne() bool {
	if len(m.pending) == 0 {
		return false
	}
	head := m.pending[0]
	paths := collectJobPlacement(m.nodes, head)
	if paths == nil {
		return false
	}
	tasks := make([]*Task, 0, len(head.Tasks))
	for i, t := range head.Tasks {
		t.Placement = paths[i]
		tasks = append(tasks, t)
	}
	if err := m.sim.Schedule(tasks); err != nil {
		m.log.Errorf("minimal schedule failed for job %s: %v", head.ID, err)
		return false
	}
	m.pending = m.pending[1:]
	return true
}
