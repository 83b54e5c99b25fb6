package sim

import "testing"

func twoNodePlatform(t *testing.T, slotsA, slotsB int) []NodeResource {
	t.Helper()
	arch := testArch()
	a := NewNodeV1_1("c0", "A", slotsA, arch)
	b := NewNodeV1_1("c0", "B", slotsB, arch)
	return []NodeResource{a, b}
}

func newTestJob(t *testing.T, id string, nodesN, ntasks, ntasksPerNode int) *Job {
	t.Helper()
	j, err := NewJob(id, id, 0, nodesN, ntasks, ntasksPerNode, 10, 1e9, 1, 0, 0, nil)
	if err != nil {
		t.Fatalf("NewJob(%s): %v", id, err)
	}
	return j
}

func TestCollectJobPlacement_SingleNodeFits(t *testing.T) {
	nodes := twoNodePlatform(t, 4, 4)
	job := newTestJob(t, "j", 1, 4, 4)
	paths := collectJobPlacement(nodes, job)
	if len(paths) != 4 {
		t.Fatalf("expected 4 paths, got %d", len(paths))
	}
	for _, p := range paths {
		if p[1] != "A" {
			t.Errorf("expected all paths on node A, got %v", p)
		}
	}
}

func TestCollectJobPlacement_SpansTwoNodes(t *testing.T) {
	nodes := twoNodePlatform(t, 4, 4)
	job := newTestJob(t, "j", 2, 6, 4)
	paths := collectJobPlacement(nodes, job)
	if len(paths) != 6 {
		t.Fatalf("expected 6 paths, got %d", len(paths))
	}
	var onA, onB int
	for _, p := range paths {
		switch p[1] {
		case "A":
			onA++
		case "B":
			onB++
		}
	}
	if onA != 4 || onB != 2 {
		t.Errorf("expected 4 on A and 2 on B, got %d on A and %d on B", onA, onB)
	}
}

func TestCollectJobPlacement_ExceedsNodesBudget_Fails(t *testing.T) {
	nodes := twoNodePlatform(t, 2, 4)
	// Single-node job that does not fit on the first node alone must not
	// spill onto a second node when job.Nodes == 1.
	job := newTestJob(t, "j", 1, 4, 4)
	if paths := collectJobPlacement(nodes, job); paths != nil {
		t.Fatalf("expected nil (infeasible within 1 node), got %v", paths)
	}
}

func TestCollectJobPlacement_InsufficientTotalCapacity_Fails(t *testing.T) {
	nodes := twoNodePlatform(t, 2, 2)
	job := newTestJob(t, "j", 2, 6, 4)
	if paths := collectJobPlacement(nodes, job); paths != nil {
		t.Fatalf("expected nil (only 4 cores total, job needs 6), got %v", paths)
	}
}

func TestCollectJobPlacement_PartiallyOccupiedNode(t *testing.T) {
	nodes := twoNodePlatform(t, 4, 4)
	a := nodes[0].(*NodeV1_1)
	occupant := newTestJob(t, "occupant", 1, 2, 2)
	if err := a.Schedule(occupant.Tasks[0], []string{"0"}); err != nil {
		t.Fatalf("seed occupant task 0: %v", err)
	}
	if err := a.Schedule(occupant.Tasks[1], []string{"1"}); err != nil {
		t.Fatalf("seed occupant task 1: %v", err)
	}

	job := newTestJob(t, "j", 2, 4, 4)
	paths := collectJobPlacement(nodes, job)
	if len(paths) != 4 {
		t.Fatalf("expected 4 paths, got %d", len(paths))
	}
	var onA, onB int
	for _, p := range paths {
		switch p[1] {
		case "A":
			onA++
		case "B":
			onB++
		}
	}
	if onA != 2 || onB != 2 {
		t.Errorf("expected 2 on A's idle slots and 2 on B, got %d on A and %d on B", onA, onB)
	}
}
