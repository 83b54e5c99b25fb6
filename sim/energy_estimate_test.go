package sim

import "testing"

func TestEnergyEstimator_MinClockRateTracksSlowestNode(t *testing.T) {
	slow := testArch()
	slow.ClockRate = 1.0
	fast := testArch()
	fast.ClockRate = 3.0
	nodes := []NodeResource{
		NewNodeV1_1("c0", "slow", 2, slow),
		NewNodeV1_1("c0", "fast", 2, fast),
	}
	e := newEnergyEstimator(nodes)
	if e.minClockRate != 1.0 {
		t.Errorf("minClockRate = %v, want 1.0", e.minClockRate)
	}
}

func TestEnergyEstimator_EstimateIsPositiveForARealJob(t *testing.T) {
	nodes := []NodeResource{NewNodeV1_1("c0", "n0", 4, testArch())}
	e := newEnergyEstimator(nodes)
	job := newTestJob(t, "j", 1, 2, 2)
	job.ReqTime = 10

	energy, edp := e.Estimate(nodes[0], job)
	if energy <= 0 {
		t.Errorf("expected positive estimated energy, got %v", energy)
	}
	if edp <= 0 {
		t.Errorf("expected positive estimated edp, got %v", edp)
	}
}

func TestEnergyEstimator_NoteAssignmentReducesAmortizedStaticPower(t *testing.T) {
	nodes := []NodeResource{NewNodeV1_1("c0", "n0", 4, testArch())}
	e := newEnergyEstimator(nodes)
	job := newTestJob(t, "j", 1, 1, 1)
	job.ReqTime = 10

	before, _ := e.Estimate(nodes[0], job)
	e.NoteAssignment("n0", 1)
	after, _ := e.Estimate(nodes[0], job)
	if after >= before {
		t.Errorf("expected estimated energy to drop once a node already runs a job (amortized static power): before=%v after=%v", before, after)
	}
}

func TestEnergyEstimator_SpeedupFallsBackToOneWithoutClockInfo(t *testing.T) {
	e := newEnergyEstimator(nil)
	if got := e.estimateSpeedup(NewProcessor("p0", nil)); got != 1 {
		t.Errorf("estimateSpeedup for a node without clock-rate info = %v, want 1", got)
	}
}
