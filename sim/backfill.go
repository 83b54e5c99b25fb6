package sim

import (
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/irmasim/irmasim/sim/trace"
)

// Backfill implements conservative backfilling: compute a shadow time and
// extra-core count at the head of the pending queue, and admit later jobs
// only when they provably cannot delay the blocked head job. Grounded on
// original_source/irmasim/workload_manager/Backfill.py.
type Backfill struct {
	sim  *Simulator
	log  *logrus.Logger
	rng  *rand.Rand
	trace *trace.SimulationTrace

	nodes   []NodeResource
	pending []*Job

	resourceSelection string
	jobSelection      string
	admitZeroReqTime  bool

	estimator *energyEstimator
}

// NewBackfill constructs a Backfill manager over the given node pool.
// resourceSelection and jobSelection name the §6 enums; rng seeds the
// random selection criteria deterministically.
func NewBackfill(sim *Simulator, nodes []NodeResource, resourceSelection, jobSelection string, admitZeroReqTime bool, rng *rand.Rand, tr *trace.SimulationTrace) *Backfill {
	if !IsValidResourceSelection(resourceSelection) {
		panic("unknown resource selection " + resourceSelection)
	}
	if jobSelection != "" && !IsValidJobSelection(jobSelection) {
		panic("unknown job selection " + jobSelection)
	}
	return &Backfill{
		sim:               sim,
		log:               sim.Log,
		rng:               rng,
		trace:             tr,
		nodes:             nodes,
		resourceSelection: resourceSelection,
		jobSelection:      jobSelection,
		admitZeroReqTime:  admitZeroReqTime,
		estimator:         newEnergyEstimator(nodes),
	}
}

func (b *Backfill) OnJobSubmission(jobs []*Job) {
	for _, j := range jobs {
		if j.ReqTime <= 0 && !b.admitZeroReqTime {
			b.log.Warnf("job %s has req_time<=0 and admit_zero_req_time is disabled; dropping", j.ID)
			continue
		}
		b.pending = append(b.pending, j)
	}
	b.scheduleRounds()
}

func (b *Backfill) OnJobCompletion(jobs []*Job) {
	for _, j := range jobs {
		if len(j.Tasks) > 0 && j.Tasks[0].Placement != nil {
			// Platform.Reap, called from Simulator.drainAndNotifyCompletions,
			// has already freed the slots and cleared Placement; nothing to
			// release here.
			_ = j
		}
	}
	b.scheduleRounds()
}

func (b *Backfill) OnEndStep() {}

// scheduleRounds repeats head-allocation and backfill attempts until
// neither makes progress, emitting one observability row per round.
func (b *Backfill) scheduleRounds() {
	for {
		considered, backfilled, placedJobID := b.scheduleRound()
		if b.trace != nil {
			b.trace.RecordAdmission(trace.AdmissionRecord{
				JobID:    placedJobID,
				Clock:    int64(b.sim.Time),
				Admitted: backfilled > 0,
				Reason:   "backfill_round",
			})
		}
		b.log.Debugf("[t=%.6f] backfill round: %d candidates considered, %d backfilled, %d pending",
			b.sim.Time, considered, backfilled, len(b.pending))
		if backfilled == 0 {
			return
		}
	}
}

// scheduleRound performs one pass of step A (head allocation) followed, if
// that fails, by steps B-C (shadow time + backfill). Returns the number of
// backfill candidates considered, the number actually placed, and the ID of
// the job placed this round (empty if none).
func (b *Backfill) scheduleRound() (considered, backfilled int, placedJobID string) {
	if len(b.pending) == 0 {
		return 0, 0, ""
	}

	head := b.pending[0]
	ordered := b.orderNodesForHead(head)

	// Step A: head allocation, possibly spanning multiple nodes (e.g. a
	// 6-task job with ntasks_per_node=4 takes one node entirely and 2
	// cores of a second).
	if paths := collectJobPlacement(ordered, head); paths != nil {
		b.allocateAt(paths, head)
		b.pending = b.pending[1:]
		return 0, 1, head.ID
	}

	// Step B+C: for each tail job and each node, compute that node's own
	// shadow time and extra-core count against the head job's demand, and
	// accept the first candidate that clears either the spatial or the
	// temporal backfill gate.
	for _, j := range b.pending[1:] {
		for _, n := range ordered {
			if j.NTasks > n.TotalCores() {
				continue
			}
			considered++
			if n.IdleCores() == n.TotalCores() {
				// Fully idle node: cannot possibly delay the head.
				b.allocate(n, j)
				b.removePending(j)
				backfilled++
				return considered, backfilled, j.ID
			}
			shadowTime, extraCores := nodeShadowTime(n, head)
			spatial := j.NTasks <= extraCores && j.NTasks <= n.IdleCores()
			temporal := j.NTasks <= n.IdleCores() && b.sim.Time+j.ReqTime <= shadowTime
			if spatial || temporal {
				b.allocate(n, j)
				b.removePending(j)
				backfilled++
				return considered, backfilled, j.ID
			}
		}
	}
	return considered, backfilled, ""
}

func (b *Backfill) removePending(j *Job) {
	for i, p := range b.pending {
		if p == j {
			b.pending = append(b.pending[:i], b.pending[i+1:]...)
			return
		}
	}
}

// orderNodesForHead applies the configured resource-selection criterion.
func (b *Backfill) orderNodesForHead(head *Job) []NodeResource {
	return OrderNodesByResourceSelection(b.resourceSelection, b.nodes, head, b.estimator.Estimate, b.rng)
}


// nodeShadowTime computes a single node's contribution to the shadow time:
// the earliest point at which the accumulation of ending running jobs'
// freed cores covers the head job's demand, and how many cores on that node
// are never needed by either the head or the strictly-later-ending jobs.
func nodeShadowTime(n NodeResource, head *Job) (shadowTime float64, extraCores int) {
	running := runningJobsOf(n)
	if len(running) == 0 {
		return math.Inf(1), n.TotalCores() - head.NTasks
	}
	sortByEndTime(running)

	idle := n.IdleCores()
	shadowTime = running[len(running)-1].StartTime + running[len(running)-1].ReqTime
	splitIdx := len(running) - 1
	for i, j := range running {
		idle += len(jobTasksOn(n, j))
		if idle >= head.NTasks {
			shadowTime = j.StartTime + j.ReqTime
			splitIdx = i
			break
		}
	}
	extraCores = n.TotalCores() - head.NTasks
	for _, j := range running[splitIdx+1:] {
		extraCores -= len(jobTasksOn(n, j))
	}
	return shadowTime, extraCores
}

func runningJobsOf(n NodeResource) []*Job {
	seen := make(map[*Job]bool)
	var jobs []*Job
	for _, t := range n.RunningTasks() {
		if !seen[t.Job] {
			seen[t.Job] = true
			jobs = append(jobs, t.Job)
		}
	}
	return jobs
}

func jobTasksOn(n NodeResource, j *Job) []*Task {
	var out []*Task
	for _, t := range n.RunningTasks() {
		if t.Job == j {
			out = append(out, t)
		}
	}
	return out
}

func sortByEndTime(jobs []*Job) {
	for i := 1; i < len(jobs); i++ {
		for k := i; k > 0 && jobs[k-1].StartTime+jobs[k-1].ReqTime > jobs[k].StartTime+jobs[k].ReqTime; k-- {
			jobs[k-1], jobs[k] = jobs[k], jobs[k-1]
		}
	}
}

// allocate assigns every task of job onto node's idle slots, in slot order,
// and calls back into the simulator to actually place them.
func (b *Backfill) allocate(n NodeResource, job *Job) {
	idleIDs := idleSlotPaths(n)
	tasks := make([]*Task, 0, len(job.Tasks))
	for i, t := range job.Tasks {
		t.Placement = idleIDs[i]
		tasks = append(tasks, t)
	}
	if err := b.sim.Schedule(tasks); err != nil {
		b.log.Errorf("backfill schedule failed for job %s: %v", job.ID, err)
		return
	}
	b.estimator.NoteAssignment(n.ID(), 1)
	if b.trace != nil {
		b.trace.RecordRouting(trace.RoutingRecord{
			JobID:      job.ID,
			Clock:      int64(b.sim.Time),
			ChosenNode: n.ID(),
			Reason:     b.resourceSelection,
		})
	}
}

// allocateAt assigns job's tasks onto already-computed paths (possibly
// spanning more than one node, per collectJobPlacement) and records one
// routing entry per distinct node touched.
func (b *Backfill) allocateAt(paths [][]string, job *Job) {
	tasks := make([]*Task, 0, len(job.Tasks))
	for i, t := range job.Tasks {
		t.Placement = paths[i]
		tasks = append(tasks, t)
	}
	if err := b.sim.Schedule(tasks); err != nil {
		b.log.Errorf("backfill schedule failed for job %s: %v", job.ID, err)
		return
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		nodeID := p[1]
		if seen[nodeID] {
			continue
		}
		seen[nodeID] = true
		b.estimator.NoteAssignment(nodeID, 1)
		if b.trace != nil {
			b.trace.RecordRouting(trace.RoutingRecord{
				JobID:      job.ID,
				Clock:      int64(b.sim.Time),
				ChosenNode: nodeID,
				Reason:     b.resourceSelection,
			})
		}
	}
}

// idleSlotPaths returns full resource paths for every idle leaf slot
// beneath n, sufficient in count for whatever job will claim them.
func idleSlotPaths(n NodeResource) [][]string {
	switch node := n.(type) {
	case *NodeV1:
		var paths [][]string
		for _, p := range node.Processors {
			for _, c := range p.Cores {
				if c.Task == nil {
					paths = append(paths, []string{node.ClusterID, node.IDStr, p.IDStr, c.IDStr})
				}
			}
		}
		return paths
	case *NodeV1_1:
		var paths [][]string
		for _, s := range node.Slots {
			if s.Task == nil {
				paths = append(paths, []string{node.ClusterID, node.IDStr, s.IDStr})
			}
		}
		return paths
	case *NodeV2:
		var paths [][]string
		for _, s := range node.Slots {
			if s.Task == nil {
				paths = append(paths, []string{node.ClusterID, node.IDStr, s.IDStr})
			}
		}
		return paths
	default:
		return nil
	}
}
