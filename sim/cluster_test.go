package sim

import "testing"

func TestCluster_ScheduleRoutesToNamedNode(t *testing.T) {
	a := NewNodeV1_1("c0", "A", 2, testArch())
	b := NewNodeV1_1("c0", "B", 2, testArch())
	c := NewCluster("c0", []NodeResource{a, b})

	job := newTestJob(t, "j", 1, 1, 1)
	if err := c.Schedule(job.Tasks[0], []string{"B", "0"}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if a.IdleCores() != 2 {
		t.Errorf("node A must be untouched, got %d idle", a.IdleCores())
	}
	if b.IdleCores() != 1 {
		t.Errorf("node B must have received the task, got %d idle", b.IdleCores())
	}
}

func TestCluster_ScheduleUnknownNodeFails(t *testing.T) {
	c := NewCluster("c0", []NodeResource{NewNodeV1_1("c0", "A", 1, testArch())})
	job := newTestJob(t, "j", 1, 1, 1)
	if err := c.Schedule(job.Tasks[0], []string{"nonexistent", "0"}); err == nil {
		t.Fatal("expected an error routing to an unknown node")
	}
}

func TestCluster_JoulesSumsAcrossNodes(t *testing.T) {
	a := NewNodeV1_1("c0", "A", 1, testArch())
	b := NewNodeV1_1("c0", "B", 1, testArch())
	c := NewCluster("c0", []NodeResource{a, b})
	want := a.Joules(1) + b.Joules(1)
	if got := c.Joules(1); got != want {
		t.Errorf("Joules(1) = %v, want %v", got, want)
	}
}
