package sim

import (
	"container/heap"
	"math"
)

// jobHeap is a min-heap of future jobs ordered by submit_time, ties broken
// by stable id — mirrors the teacher's EventHeap pattern in sim/cluster.
type jobHeap []*Job

func (h jobHeap) Len() int { return len(h) }
func (h jobHeap) Less(i, j int) bool {
	if h[i].SubmitTime != h[j].SubmitTime {
		return h[i].SubmitTime < h[j].SubmitTime
	}
	return h[i].ID < h[j].ID
}
func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x any)   { *h = append(*h, x.(*Job)) }
func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// JobQueue partitions jobs into three disjoint sets: future (submit_time >
// now), submitted (arrived but not finished), and finished.
type JobQueue struct {
	future    jobHeap
	submitted []*Job
	finished  []*Job
}

// NewJobQueue returns an empty, ready-to-use JobQueue.
func NewJobQueue() *JobQueue {
	q := &JobQueue{}
	heap.Init(&q.future)
	return q
}

// Add inserts a job into future. Adding after the simulation has ended is
// permitted but silently has no effect on in-flight trajectories.
func (q *JobQueue) Add(j *Job) {
	heap.Push(&q.future, j)
}

// NextSubmitTime returns the submit_time at the heap root, or +Inf if future
// is empty.
func (q *JobQueue) NextSubmitTime() float64 {
	if len(q.future) == 0 {
		return math.Inf(1)
	}
	return q.future[0].SubmitTime
}

// PopArrived repeatedly pops future jobs with submit_time <= now, moving
// them into submitted, and returns them in ascending submit-time order. On
// an empty future set it returns nil — the NoJobsInQueue condition is
// recovered locally, not an error.
func (q *JobQueue) PopArrived(now float64) []*Job {
	var arrived []*Job
	for len(q.future) > 0 && q.future[0].SubmitTime <= now {
		j := heap.Pop(&q.future).(*Job)
		arrived = append(arrived, j)
		q.submitted = append(q.submitted, j)
	}
	return arrived
}

// CollectFinished scans submitted, moves every finished job into finished,
// and returns the moved list.
func (q *JobQueue) CollectFinished() []*Job {
	var done []*Job
	remaining := q.submitted[:0]
	for _, j := range q.submitted {
		if j.IsFinished() {
			done = append(done, j)
			q.finished = append(q.finished, j)
		} else {
			remaining = append(remaining, j)
		}
	}
	q.submitted = remaining
	return done
}

// Counts returns (future, pending_or_running, finished) job counts.
func (q *JobQueue) Counts() (future, pendingOrRunning, finishedCount int) {
	return len(q.future), len(q.submitted), len(q.finished)
}

// Finished returns the finished job slice (for statistics aggregation).
func (q *JobQueue) Finished() []*Job { return q.finished }

// Submitted returns the submitted (pending-or-running) job slice.
func (q *JobQueue) Submitted() []*Job { return q.submitted }
