package sim

import (
	"math/rand"
	"testing"

	"github.com/irmasim/irmasim/sim/internal/testutil"
)

// buildPlatformFromSpec constructs a Platform from a golden-dataset
// PlatformSpec. Only the two node shapes the dataset exercises are
// supported: modelV1 (processors of cores) and modelV1_1 (bare slots).
func buildPlatformFromSpec(t *testing.T, spec testutil.PlatformSpec) *Platform {
	t.Helper()
	arch := ArchConstants{
		ClockRate:       spec.Arch.ClockRate,
		DPFlopsPerCycle: spec.Arch.DPFlopsPerCycle,
		DynamicPower:    spec.Arch.DynamicPower,
		StaticPower:     spec.Arch.StaticPower,
		MinPower:        spec.Arch.MinPower,
		B:               spec.Arch.B,
		C:               spec.Arch.C,
		DA:              spec.Arch.DA,
		DB:              spec.Arch.DB,
		DC:              spec.Arch.DC,
		DD:              spec.Arch.DD,
	}

	var clusters []*Cluster
	for _, cs := range spec.Clusters {
		var nodes []NodeResource
		for _, ns := range cs.Nodes {
			switch spec.Model {
			case "modelV1":
				var procs []*Processor
				for _, ps := range ns.Processors {
					cores := make([]*Core, ps.Cores)
					for i := range cores {
						cores[i] = NewCore(coreID(i), arch)
					}
					procs = append(procs, NewProcessor(ps.ID, cores))
				}
				nodes = append(nodes, NewNodeV1(cs.ID, ns.ID, procs))
			case "modelV1_1":
				nodes = append(nodes, NewNodeV1_1(cs.ID, ns.ID, ns.Slots, arch))
			default:
				t.Fatalf("buildPlatformFromSpec: unsupported model %q", spec.Model)
			}
		}
		clusters = append(clusters, NewCluster(cs.ID, nodes))
	}
	return NewPlatform(spec.ID, spec.Model, clusters)
}

func coreID(i int) string { return slotID(i) }

func buildJobFromSpec(t *testing.T, spec testutil.JobSpec) *Job {
	t.Helper()
	job, err := NewJob(spec.ID, spec.ID, spec.SubmitTime, spec.Nodes, spec.NTasks, spec.NTasksPerNode,
		spec.ReqTime, spec.ReqOps, spec.IPC, spec.Mem, spec.MemVol, nil)
	if err != nil {
		t.Fatalf("buildJobFromSpec(%s): %v", spec.ID, err)
	}
	return job
}

func runScenario(t *testing.T, sc testutil.ScenarioCase) (*Simulator, []NodeResource) {
	t.Helper()
	platform := buildPlatformFromSpec(t, sc.Platform)
	queue := NewJobQueue()
	for _, js := range sc.Jobs {
		queue.Add(buildJobFromSpec(t, js))
	}
	sim := NewSimulator(queue, platform, nil)
	nodes := platform.Nodes()
	rng := rand.New(rand.NewSource(1))
	manager := NewWorkloadManager(sc.WorkloadManager.Type, sim, nodes,
		sc.WorkloadManager.ResourceSelection, sc.WorkloadManager.JobSelection,
		sc.WorkloadManager.AdmitZeroReqTime, rng, nil)
	sim.Manager = manager
	return sim, nodes
}

func TestGolden_SingleCoreSingleJob(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	sc := dataset.ByName(t, "single_core_single_job")

	sim, _ := runScenario(t, sc)
	makespan := sim.Run()

	testutil.AssertFloat64Equal(t, "makespan", sc.Expected.Makespan, makespan, 1e-9)
	testutil.AssertFloat64Equal(t, "energy", sc.Expected.Energy, sim.Energy, 1e-9)

	finished := sim.Queue.Finished()
	if len(finished) != 1 {
		t.Fatalf("expected 1 finished job, got %d", len(finished))
	}
	job := finished[0]
	if job.StartTime != 2 {
		t.Errorf("job start time: got %v, want 2", job.StartTime)
	}
}

func TestGolden_TwoJobsOneCoreSerial(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	sc := dataset.ByName(t, "two_jobs_one_core_serial")

	sim, _ := runScenario(t, sc)
	makespan := sim.Run()

	testutil.AssertFloat64Equal(t, "makespan", sc.Expected.Makespan, makespan, 1e-9)

	finished := sim.Queue.Finished()
	if len(finished) != 2 {
		t.Fatalf("expected 2 finished jobs, got %d", len(finished))
	}
	var job2 *Job
	for _, j := range finished {
		if j.ID == "j2" {
			job2 = j
		}
	}
	if job2 == nil {
		t.Fatal("job j2 not found among finished jobs")
	}
	if job2.StartTime != 1 {
		t.Errorf("j2 start time: got %v, want 1 (submission processed before j1's completion at the same tick)", job2.StartTime)
	}
	if got := job2.Slowdown(); got != 1.0 {
		t.Errorf("j2 slowdown: got %v, want 1.0", got)
	}
}

func TestGolden_BackfillAdmit(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	sc := dataset.ByName(t, "backfill_admit")

	platform := buildPlatformFromSpec(t, sc.Platform)
	nodes := platform.Nodes()
	queue := NewJobQueue()
	sim := NewSimulator(queue, platform, nil)
	rng := rand.New(rand.NewSource(1))
	mgr := NewBackfill(sim, nodes, "first", "first", false, rng, nil)
	sim.Manager = mgr

	jobsByID := map[string]*Job{}
	for _, js := range sc.Jobs {
		j := buildJobFromSpec(t, js)
		jobsByID[j.ID] = j
	}

	head := jobsByID["head6"]
	mgr.OnJobSubmission([]*Job{head})
	for _, task := range head.Tasks {
		if !task.Placed() {
			t.Fatal("head6 should be placed entirely at t=0 (platform is fully idle): node A takes 4, node B takes 2")
		}
	}

	sim.Time = 1
	blocked := jobsByID["blocked8"]
	fill := jobsByID["fill2"]
	mgr.OnJobSubmission([]*Job{blocked, fill})

	for _, task := range blocked.Tasks {
		if task.Placed() {
			t.Error("blocked8 should remain pending: it needs 8 cores across 2 nodes but only 2 idle cores remain")
		}
	}
	for _, task := range fill.Tasks {
		if !task.Placed() {
			t.Error("fill2 should backfill onto node B's 2 remaining cores (now+req_time=6 <= shadow_time=10)")
		}
	}
}

func TestGolden_BackfillRejectByShadowTime(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	sc := dataset.ByName(t, "backfill_reject_by_shadow_time")

	platform := buildPlatformFromSpec(t, sc.Platform)
	nodes := platform.Nodes()
	queue := NewJobQueue()
	sim := NewSimulator(queue, platform, nil)
	rng := rand.New(rand.NewSource(1))
	mgr := NewBackfill(sim, nodes, "first", "first", false, rng, nil)
	sim.Manager = mgr

	jobsByID := map[string]*Job{}
	for _, js := range sc.Jobs {
		j := buildJobFromSpec(t, js)
		jobsByID[j.ID] = j
	}

	head := jobsByID["head6"]
	head.SubmitTime = 0
	mgr.OnJobSubmission([]*Job{head})

	sim.Time = 1
	blocked := jobsByID["blocked8"]
	reject := jobsByID["reject2"]
	mgr.OnJobSubmission([]*Job{blocked, reject})

	if reject.Tasks[0].Placed() {
		t.Error("reject2 must stay pending: now+req_time=13 > shadow_time=10")
	}
}

func TestGolden_ContentionTwoJobsOneProcessor(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	sc := dataset.ByName(t, "contention_two_jobs_one_processor")

	platform := buildPlatformFromSpec(t, sc.Platform)
	nodes := platform.Nodes()
	node := nodes[0].(*NodeV1)
	proc := node.Processors[0]

	jobA := buildJobFromSpec(t, sc.Jobs[0])
	jobB := buildJobFromSpec(t, sc.Jobs[1])

	if err := proc.Schedule(jobA.Tasks[0], []string{proc.Cores[0].IDStr}); err != nil {
		t.Fatalf("schedule jobA: %v", err)
	}
	if err := proc.Schedule(jobB.Tasks[0], []string{proc.Cores[1].IDStr}); err != nil {
		t.Fatalf("schedule jobB: %v", err)
	}

	for _, c := range proc.Cores[:2] {
		if c.Speedup >= 1.0 {
			t.Errorf("core %s: speedup %v, want < 1.0 under memory-bandwidth contention", c.IDStr, c.Speedup)
		}
	}

	wantBW := proc.Cores[0].RequestedBW + proc.Cores[1].RequestedBW
	testutil.AssertFloat64Equal(t, "aggregate requested_bw", wantBW, proc.RequestedBW, 1e-9)

	wantJoules := 2*sc.Platform.Arch.DynamicPower + 4*sc.Platform.Arch.StaticPower
	testutil.AssertFloat64Equal(t, "processor joules for 1s", wantJoules, proc.Joules(1), 1e-9)
}
