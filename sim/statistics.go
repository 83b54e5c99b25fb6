package sim

import "github.com/sirupsen/logrus"

// TrajectoryStatistics is the end-of-trajectory summary computed over
// finished jobs, grounded on spec §4.7: slowdown, bounded slowdown, waiting
// time, total energy, and makespan, each list-valued metric reported as
// total/avg/max/min via summarize().
type TrajectoryStatistics struct {
	Slowdown        MetricSummary
	BoundedSlowdown MetricSummary
	WaitingTime     MetricSummary
	TotalEnergy     float64
	Makespan        float64
}

// zeroRunWarned latches the first zero-execution-time job encountered, so
// the degenerate-denominator warning fires once per process rather than
// once per job (spec §7 numerical degeneracies).
var zeroRunWarned bool

// Summarize computes a TrajectoryStatistics snapshot from the queue's
// finished jobs and the simulator's accumulated energy. It is safe to call
// mid-run, though the slowdown-family metrics only make sense once a job has
// both started and finished.
func Summarize(log *logrus.Logger, finished []*Job, totalEnergy float64) TrajectoryStatistics {
	slowdowns := make([]float64, 0, len(finished))
	bounded := make([]float64, 0, len(finished))
	waits := make([]float64, 0, len(finished))
	makespan := 0.0

	for _, j := range finished {
		if j.FinishTime-j.StartTime < 1 && !zeroRunWarned {
			zeroRunWarned = true
			if log != nil {
				log.Warnf("job %s has zero (or sub-unit) execution time; substituting 1 in the slowdown denominator", j.ID)
			}
		}
		slowdowns = append(slowdowns, j.Slowdown())
		bounded = append(bounded, j.BoundedSlowdown())
		waits = append(waits, j.WaitingTime())
		if j.FinishTime > makespan {
			makespan = j.FinishTime
		}
	}

	return TrajectoryStatistics{
		Slowdown:        summarize(slowdowns),
		BoundedSlowdown: summarize(bounded),
		WaitingTime:     summarize(waits),
		TotalEnergy:     totalEnergy,
		Makespan:        makespan,
	}
}
