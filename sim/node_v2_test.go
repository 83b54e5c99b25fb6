package sim

import "testing"

func TestNodeV2_ScheduleKeepsSpeedupAtOne(t *testing.T) {
	n := NewNodeV2("c0", "n0", 2, testArch())
	job := newTestJob(t, "j", 1, 1, 1)
	if err := n.Schedule(job.Tasks[0], []string{"0"}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if n.Slots[0].Speedup != 1 {
		t.Errorf("modelV2 never contends; expected speedup 1, got %v", n.Slots[0].Speedup)
	}
}

func TestNodeV2_PowerIsLinearInRunningCount(t *testing.T) {
	arch := testArch()
	n := NewNodeV2("c0", "n0", 3, arch)
	idle := n.Power
	wantIdle := arch.MinPower * arch.StaticPower
	if idle != wantIdle {
		t.Fatalf("idle power = %v, want %v", idle, wantIdle)
	}

	j1 := newTestJob(t, "j1", 1, 1, 1)
	j2 := newTestJob(t, "j2", 1, 1, 1)
	if err := n.Schedule(j1.Tasks[0], []string{"0"}); err != nil {
		t.Fatalf("schedule 1: %v", err)
	}
	if err := n.Schedule(j2.Tasks[0], []string{"1"}); err != nil {
		t.Fatalf("schedule 2: %v", err)
	}
	want := arch.DynamicPower*2 + arch.StaticPower*3
	if n.Power != want {
		t.Errorf("power with 2 running of 3 slots = %v, want %v", n.Power, want)
	}
}

func TestNodeV2_IdleAndRunningCoreCounts(t *testing.T) {
	n := NewNodeV2("c0", "n0", 2, testArch())
	job := newTestJob(t, "j", 1, 1, 1)
	if err := n.Schedule(job.Tasks[0], []string{"1"}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if n.IdleCores() != 1 {
		t.Errorf("IdleCores() = %d, want 1", n.IdleCores())
	}
	if n.TotalCores() != 2 {
		t.Errorf("TotalCores() = %d, want 2", n.TotalCores())
	}
}
