package sim

import (
	"math"

	"github.com/google/uuid"
)

// Job is an aggregate of N tasks with submission/start/finish times and a
// resource request, owned by the JobQueue.
type Job struct {
	ID   string
	Name string

	SubmitTime float64
	StartTime  float64 // +Inf until the first task is placed
	FinishTime float64 // +Inf until every task is done

	Nodes         int
	NTasks        int
	NTasksPerNode int
	ReqTime       float64
	ReqEnergy     *float64 // optional

	Profile string
	Tasks   []*Task

	// CommVol is inter-node communication volume for a partial MPI job
	// subclass. Not wired into any contention model; metadata only.
	CommVol float64
}

// NewJob constructs a Job and its owned Tasks, validating the
// nodes/ntasks/ntasks_per_node relationship per the workload schema.
func NewJob(id, name string, submitTime float64, nodes, ntasks, ntasksPerNode int, reqTime, reqOps, ipc, mem, memVol float64, reqEnergy *float64) (*Job, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if ntasks <= 0 {
		return nil, &WorkloadValidationError{JobID: id, Reason: "ntasks must be positive"}
	}
	if nodes*ntasksPerNode < ntasks {
		return nil, &WorkloadValidationError{JobID: id, Reason: "nodes * ntasks_per_node must be >= ntasks"}
	}

	opsPerTask := math.Ceil(reqOps / ipc)

	j := &Job{
		ID:            id,
		Name:          name,
		SubmitTime:    submitTime,
		StartTime:     math.Inf(1),
		FinishTime:    math.Inf(1),
		Nodes:         nodes,
		NTasks:        ntasks,
		NTasksPerNode: ntasksPerNode,
		ReqTime:       reqTime,
		ReqEnergy:     reqEnergy,
	}
	j.Tasks = make([]*Task, ntasks)
	for i := 0; i < ntasks; i++ {
		j.Tasks[i] = &Task{
			Job:          j,
			Index:        i,
			RemainingOps: opsPerTask,
			IPC:          ipc,
			Memory:       mem,
			MemoryVolume: memVol,
		}
	}
	return j, nil
}

// IsFinished reports whether every task belonging to the job has completed.
func (j *Job) IsFinished() bool {
	for _, t := range j.Tasks {
		if !t.IsDone() {
			return false
		}
	}
	return true
}

// RecordStart updates StartTime to the earliest of its current value and t,
// called the first time any of the job's tasks is placed.
func (j *Job) RecordStart(t float64) {
	if t < j.StartTime {
		j.StartTime = t
	}
}

// Slowdown is (finish - submit) / max(finish - start, 1).
func (j *Job) Slowdown() float64 {
	run := j.FinishTime - j.StartTime
	if run < 1 {
		run = 1
	}
	return (j.FinishTime - j.SubmitTime) / run
}

// BoundedSlowdown is max((finish - submit) / max(finish - start, 10), 1).
func (j *Job) BoundedSlowdown() float64 {
	run := j.FinishTime - j.StartTime
	if run < 10 {
		run = 10
	}
	sld := (j.FinishTime - j.SubmitTime) / run
	if sld < 1 {
		return 1
	}
	return sld
}

// WaitingTime is start - submit.
func (j *Job) WaitingTime() float64 {
	return j.StartTime - j.SubmitTime
}
