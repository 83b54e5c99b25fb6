package sim

// WorkloadManager is the scheduling-policy contract. The simulator notifies
// it at well-defined step boundaries; it calls back into Simulator.Schedule
// any number of times to place tasks.
//
// Invariants a conforming implementation must preserve:
//   - it never schedules more tasks onto a leaf than its capacity (one task
//     per core in modelV1/modelV1_1, up to TotalCores() tasks per node in
//     modelV2);
//   - for every task it schedules, it later observes that task's job in
//     OnJobCompletion;
//   - the sum of placed tasks per job equals job.NTasks before the job
//     starts running.
type WorkloadManager interface {
	// OnJobSubmission is called once per event time carrying all
	// just-arrived jobs, in arrival order.
	OnJobSubmission(jobs []*Job)
	// OnJobCompletion is called after tasks are reaped from resources;
	// each job's FinishTime is already set.
	OnJobCompletion(jobs []*Job)
	// OnEndStep is called after every event.
	OnEndStep()
}
