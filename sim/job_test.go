package sim

import (
	"math"
	"testing"
)

func TestNewJob_AssignsOneTaskPerSlotWithSplitOps(t *testing.T) {
	j, err := NewJob("j0", "job0", 5, 1, 4, 4, 60, 1e9, 2, 0, 0, nil)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if len(j.Tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(j.Tasks))
	}
	wantOps := math.Ceil(1e9 / 2)
	for i, task := range j.Tasks {
		if task.Job != j || task.Index != i {
			t.Errorf("task %d: Job/Index not wired correctly", i)
		}
		if task.RemainingOps != wantOps {
			t.Errorf("task %d: RemainingOps = %v, want %v", i, task.RemainingOps, wantOps)
		}
	}
	if !math.IsInf(j.StartTime, 1) || !math.IsInf(j.FinishTime, 1) {
		t.Error("a fresh job must start with StartTime/FinishTime at +Inf")
	}
}

func TestNewJob_EmptyIDGetsUUIDFallback(t *testing.T) {
	j, err := NewJob("", "anon", 0, 1, 1, 1, 1, 1, 1, 0, 0, nil)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if j.ID == "" {
		t.Error("expected a generated UUID fallback for an empty id")
	}
}

func TestNewJob_NonPositiveNTasksIsRejected(t *testing.T) {
	if _, err := NewJob("j", "j", 0, 1, 0, 1, 1, 1, 1, 0, 0, nil); err == nil {
		t.Fatal("expected an error for ntasks <= 0")
	}
}

func TestNewJob_NodesTimesNTasksPerNodeBelowNTasksIsRejected(t *testing.T) {
	if _, err := NewJob("j", "j", 0, 1, 5, 4, 1, 1, 1, 0, 0, nil); err == nil {
		t.Fatal("expected an error when nodes * ntasks_per_node < ntasks")
	}
}

func TestJob_IsFinished(t *testing.T) {
	j := newTestJob(t, "j", 1, 2, 2)
	if j.IsFinished() {
		t.Fatal("a job with untouched tasks must not report finished")
	}
	j.Tasks[0].RemainingOps = 0
	if j.IsFinished() {
		t.Fatal("only one of two tasks done; job must not report finished")
	}
	j.Tasks[1].RemainingOps = 0
	if !j.IsFinished() {
		t.Fatal("both tasks done; job must report finished")
	}
}

func TestJob_RecordStartKeepsEarliest(t *testing.T) {
	j := newTestJob(t, "j", 1, 1, 1)
	j.RecordStart(5)
	j.RecordStart(10)
	if j.StartTime != 5 {
		t.Errorf("RecordStart must keep the earliest time, got %v", j.StartTime)
	}
}

func TestJob_SlowdownMetrics(t *testing.T) {
	j := newTestJob(t, "j", 1, 1, 1)
	j.SubmitTime = 0
	j.StartTime = 2
	j.FinishTime = 12

	if got, want := j.Slowdown(), 1.2; got != want {
		t.Errorf("Slowdown() = %v, want %v", got, want)
	}
	if got, want := j.BoundedSlowdown(), 1.2; got != want {
		t.Errorf("BoundedSlowdown() = %v, want %v", got, want)
	}
	if got, want := j.WaitingTime(), 2.0; got != want {
		t.Errorf("WaitingTime() = %v, want %v", got, want)
	}
}

func TestJob_BoundedSlowdownFloorsAtOne(t *testing.T) {
	j := newTestJob(t, "j", 1, 1, 1)
	j.SubmitTime = 0
	j.StartTime = 0
	j.FinishTime = 1 // run=1 < 10, floor applies: (1-0)/10 = 0.1 < 1
	if got := j.BoundedSlowdown(); got != 1 {
		t.Errorf("BoundedSlowdown() = %v, want 1 (floored)", got)
	}
}
