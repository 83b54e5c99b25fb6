package sim

import (
	"math"
	"math/rand"
	"testing"
)

func TestBackfill_HeadAllocatesImmediatelyWhenItFits(t *testing.T) {
	nodes := twoNodePlatform(t, 4, 4)
	s := NewSimulator(NewJobQueue(), NewPlatform("p", "modelV1_1", []*Cluster{NewCluster("c0", nodes)}), nil)
	rng := rand.New(rand.NewSource(1))
	b := NewBackfill(s, nodes, "first", "first", false, rng, nil)

	job := newTestJob(t, "j", 1, 4, 4)
	b.OnJobSubmission([]*Job{job})
	for _, task := range job.Tasks {
		if !task.Placed() {
			t.Fatal("a job that fits the head node must be placed immediately")
		}
	}
	if len(b.pending) != 0 {
		t.Errorf("expected pending to be drained, got %d left", len(b.pending))
	}
}

func TestBackfill_FullyIdleNodeBackfillsAheadOfBlockedHead(t *testing.T) {
	// Node A (2 slots) can't host the 4-task head alone and node B (4
	// slots) is untried while A still offers a nonzero partial contribution
	// (2 of 4), so the head blocks on the first round. The 2-task tail then
	// backfills onto A's fully-idle 2 slots ahead of the head. Once A is
	// full, collectJobPlacement skips it (zero contribution doesn't spend
	// the head's one-node budget) and the head ends up placed on B within
	// the same OnJobSubmission call.
	nodes := twoNodePlatform(t, 2, 4)
	s := NewSimulator(NewJobQueue(), NewPlatform("p", "modelV1_1", []*Cluster{NewCluster("c0", nodes)}), nil)
	rng := rand.New(rand.NewSource(1))
	b := NewBackfill(s, nodes, "first", "first", false, rng, nil)

	head := newTestJob(t, "head", 1, 4, 4)
	tail := newTestJob(t, "tail", 1, 2, 2)
	b.OnJobSubmission([]*Job{head, tail})

	for _, task := range tail.Tasks {
		if !task.Placed() || task.Placement[1] != "A" {
			t.Fatalf("expected tail backfilled entirely onto node A, got %v", task.Placement)
		}
	}
	for _, task := range head.Tasks {
		if !task.Placed() || task.Placement[1] != "B" {
			t.Fatalf("expected head eventually placed entirely onto node B once A stopped offering any capacity, got %v", task.Placement)
		}
	}
}

func TestBackfill_RejectsCandidateThatWouldDelayHead(t *testing.T) {
	// Node A has 4 slots; 3 are occupied by a running job that finishes far
	// in the future, leaving only 1 idle. The head needs all 4 slots on a
	// single node and is blocked. A tail job needing 2 tasks cannot fit in
	// the 1 idle slot, so it cannot backfill either.
	nodes := twoNodePlatform(t, 4, 1)
	a := nodes[0].(*NodeV1_1)
	occupant := newTestJob(t, "occupant", 1, 3, 3)
	occupant.StartTime = 0
	occupant.ReqTime = 1000
	for i, task := range occupant.Tasks {
		if err := a.Schedule(task, []string{slotID(i)}); err != nil {
			t.Fatalf("seed occupant: %v", err)
		}
	}

	s := NewSimulator(NewJobQueue(), NewPlatform("p", "modelV1_1", []*Cluster{NewCluster("c0", nodes)}), nil)
	rng := rand.New(rand.NewSource(1))
	b := NewBackfill(s, nodes, "first", "first", false, rng, nil)

	head := newTestJob(t, "head", 1, 4, 4)
	tail := newTestJob(t, "tail", 1, 2, 2)
	b.OnJobSubmission([]*Job{head, tail})

	for _, task := range tail.Tasks {
		if task.Placed() {
			t.Fatal("tail job needs 2 slots but only 1 is idle on any node; must not backfill")
		}
	}
}

func TestBackfill_ZeroReqTimeJobDroppedWithoutAdmitFlag(t *testing.T) {
	nodes := twoNodePlatform(t, 2, 2)
	s := NewSimulator(NewJobQueue(), NewPlatform("p", "modelV1_1", []*Cluster{NewCluster("c0", nodes)}), nil)
	rng := rand.New(rand.NewSource(1))
	b := NewBackfill(s, nodes, "first", "first", false, rng, nil)

	job := newTestJob(t, "j", 1, 1, 1)
	job.ReqTime = 0
	b.OnJobSubmission([]*Job{job})
	if len(b.pending) != 0 {
		t.Error("a req_time<=0 job must be dropped, not left pending, when admit_zero_req_time is disabled")
	}
	if job.Tasks[0].Placed() {
		t.Error("a dropped job must never be placed")
	}
}

func TestBackfill_ZeroReqTimeJobAdmittedWithFlag(t *testing.T) {
	nodes := twoNodePlatform(t, 2, 2)
	s := NewSimulator(NewJobQueue(), NewPlatform("p", "modelV1_1", []*Cluster{NewCluster("c0", nodes)}), nil)
	rng := rand.New(rand.NewSource(1))
	b := NewBackfill(s, nodes, "first", "first", true, rng, nil)

	job := newTestJob(t, "j", 1, 1, 1)
	job.ReqTime = 0
	b.OnJobSubmission([]*Job{job})
	if !job.Tasks[0].Placed() {
		t.Error("with admit_zero_req_time set, a req_time=0 job must be scheduled like any other")
	}
}

func TestNodeShadowTime_FullyIdleNodeHasInfiniteShadowTime(t *testing.T) {
	n := NewNodeV1_1("c0", "n0", 4, testArch())
	head := newTestJob(t, "head", 1, 2, 2)
	shadow, extra := nodeShadowTime(n, head)
	if extra != 2 {
		t.Errorf("extraCores = %d, want 2 (4 total - 2 needed by head)", extra)
	}
	if !math.IsInf(shadow, 1) {
		t.Errorf("shadowTime = %v, want +Inf when nothing is running", shadow)
	}
}
