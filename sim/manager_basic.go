package sim

import "github.com/sirupsen/logrus"

// Basic schedules jobs FCFS across the platform's flattened idle-slot list,
// ignoring node boundaries: a job's tasks may land on different nodes even
// when NTasksPerNode would prefer otherwise. Grounded on
// original_source/irmasim/workload_manager/Basic.py.
type Basic struct {
	sim     *Simulator
	log     *logrus.Logger
	nodes   []NodeResource
	pending []*Job
}

// NewBasic constructs a Basic manager over the given node pool.
func NewBasic(sim *Simulator, nodes []NodeResource) *Basic {
	return &Basic{sim: sim, log: sim.Log, nodes: nodes}
}

func (b *Basic) OnJobSubmission(jobs []*Job) {
	b.pending = append(b.pending, jobs...)
	b.tryScheduleAll()
}

func (b *Basic) OnJobCompletion(jobs []*Job) {
	b.tryScheduleAll()
}

func (b *Basic) OnEndStep() {}

func (b *Basic) tryScheduleAll() {
	for len(b.pending) > 0 {
		head := b.pending[0]
		if b.idleSlotCount() < len(head.Tasks) {
			return
		}
		b.scheduleAcrossAllNodes(head)
		b.pending = b.pending[1:]
	}
}

func (b *Basic) idleSlotCount() int {
	total := 0
	for _, n := range b.nodes {
		total += n.IdleCores()
	}
	return total
}

// scheduleAcrossAllNodes claims idle slots from the node pool in order,
// regardless of node boundaries, until every task of job has a placement.
func (b *Basic) scheduleAcrossAllNodes(job *Job) {
	tasks := make([]*Task, 0, len(job.Tasks))
	ti := 0
	for _, n := range b.nodes {
		if ti >= len(job.Tasks) {
			break
		}
		for _, path := range idleSlotPaths(n) {
			if ti >= len(job.Tasks) {
				break
			}
			job.Tasks[ti].Placement = path
			tasks = append(tasks, job.Tasks[ti])
			ti++
		}
	}
	if err := b.sim.Schedule(tasks); err != nil {
		b.log.Errorf("basic schedule failed for job %s: %v", job.ID, err)
	}
}
