package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Simulator owns the JobQueue, the Platform resource tree, and a
// WorkloadManager, and drives them through the event loop of
// next_arrival()/next_completion() probes described by the reference's
// Simulator.py main loop, rather than a generic event heap — the two event
// sources here are few and fixed, so explicit probing needs no priority
// queue.
type Simulator struct {
	Queue    *JobQueue
	Platform *Platform
	Manager  WorkloadManager

	Time   float64
	Energy float64

	Log *logrus.Logger

	// OnTaskFinish, when set, is invoked once per reaped task at a
	// completion boundary — the jobs.log emission hook.
	OnTaskFinish func(task *Task)
}

// NewSimulator wires a queue, platform, and workload manager together. Log
// defaults to logrus's standard logger if nil.
func NewSimulator(queue *JobQueue, platform *Platform, manager WorkloadManager) *Simulator {
	return &Simulator{
		Queue:    queue,
		Platform: platform,
		Manager:  manager,
		Log:      logrus.StandardLogger(),
	}
}

// nextArrival probes the queue for its next submission time.
func (s *Simulator) nextArrival() float64 {
	return s.Queue.NextSubmitTime()
}

// nextCompletion probes the platform for its next completion time.
func (s *Simulator) nextCompletion() float64 {
	return s.Platform.NextStep()
}

// Schedule places each task at its already-assigned Placement path,
// recording the owning job's start time on first placement.
func (s *Simulator) Schedule(tasks []*Task) error {
	for _, t := range tasks {
		if err := s.Platform.Schedule(t, t.Placement); err != nil {
			return err
		}
		t.Job.RecordStart(s.Time)
	}
	return nil
}

// Run drives the event loop until both the future queue and every platform
// leaf are idle. Returns the final simulation time (the makespan).
func (s *Simulator) Run() float64 {
	if math.IsInf(s.nextArrival(), 1) {
		return 0
	}

	// Step 1: advance to the first submission.
	firstArrival := s.nextArrival()
	s.advanceTo(firstArrival)

	// Step 2: drain initial arrivals, notify.
	s.drainAndNotifySubmissions()

	// Step 3: on_end_step.
	s.Manager.OnEndStep()

	for {
		arrival := s.nextArrival()
		completion := s.nextCompletion() // already relative to s.Time
		arrivalDelta := arrival - s.Time
		delta := math.Min(arrivalDelta, completion)
		if math.IsInf(delta, 1) {
			break
		}

		if delta > 0 {
			s.advance(delta)
		}

		fired := false
		// Tie handling: submissions fire before completions.
		if arrivalDelta-delta <= 1e-12 {
			s.drainAndNotifySubmissions()
			fired = true
		}
		if completion-delta <= 1e-12 {
			s.drainAndNotifyCompletions()
			fired = true
		}
		if fired {
			s.Manager.OnEndStep()
		}
	}

	return s.Time
}

func (s *Simulator) advanceTo(t float64) {
	if t <= s.Time {
		return
	}
	s.advance(t - s.Time)
}

func (s *Simulator) advance(dt float64) {
	if dt <= 0 {
		return
	}
	s.Energy += s.Platform.Joules(dt)
	s.Platform.Advance(dt)
	s.Time += dt
}

func (s *Simulator) drainAndNotifySubmissions() {
	arrived := s.Queue.PopArrived(s.Time)
	if len(arrived) == 0 {
		return
	}
	s.Log.Debugf("[t=%.6f] %d job(s) submitted", s.Time, len(arrived))
	s.Manager.OnJobSubmission(arrived)
}

func (s *Simulator) drainAndNotifyCompletions() {
	finished := s.Queue.CollectFinished()
	if len(finished) == 0 {
		return
	}
	for _, job := range finished {
		job.FinishTime = s.Time
		for _, t := range job.Tasks {
			if s.OnTaskFinish != nil {
				s.OnTaskFinish(t)
			}
			if err := s.Platform.Reap(t, t.Placement); err != nil {
				s.Log.Errorf("reap failed for task %s: %v", t.ID(), err)
				continue
			}
		}
	}
	s.Log.Debugf("[t=%.6f] %d job(s) completed", s.Time, len(finished))
	s.Manager.OnJobCompletion(finished)
}
