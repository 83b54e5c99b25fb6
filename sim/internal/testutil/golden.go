// Package testutil provides shared test infrastructure for the IRMaSim
// simulator. It consolidates golden-scenario types and assertion helpers
// used across sim/ test files; it intentionally has no dependency on the
// sim package itself (callers build sim.Platform/sim.Job values from these
// plain data types), matching the teacher's cluster/sim test packages which
// stay internal (package sim, package cluster) rather than external _test
// packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json: the
// spec's §8 literal end-to-end scenarios.
type GoldenDataset struct {
	Scenarios []ScenarioCase `json:"scenarios"`
}

// ArchSpec mirrors sim.ArchConstants's JSON shape.
type ArchSpec struct {
	ClockRate       float64 `json:"clock_rate"`
	DPFlopsPerCycle float64 `json:"dpflops_per_cycle"`
	DynamicPower    float64 `json:"dynamic_power"`
	StaticPower     float64 `json:"static_power"`
	MinPower        float64 `json:"min_power"`
	B               float64 `json:"b"`
	C               float64 `json:"c"`
	DA              float64 `json:"da"`
	DB              float64 `json:"db"`
	DC              float64 `json:"dc"`
	DD              float64 `json:"dd"`
}

// ProcessorSpec describes one modelV1 processor: its core count.
type ProcessorSpec struct {
	ID    string `json:"id"`
	Cores int    `json:"cores"`
}

// NodeSpec describes one node. Processors is set for modelV1; Slots is set
// for modelV1_1/modelV2 (a node directly owning N core-equivalent slots).
type NodeSpec struct {
	ID         string          `json:"id"`
	Processors []ProcessorSpec `json:"processors,omitempty"`
	Slots      int             `json:"slots,omitempty"`
}

// ClusterSpec describes one cluster of nodes.
type ClusterSpec struct {
	ID    string     `json:"id"`
	Nodes []NodeSpec `json:"nodes"`
}

// PlatformSpec describes a full platform under a named contention model.
type PlatformSpec struct {
	ID       string        `json:"id"`
	Model    string        `json:"model"`
	Arch     ArchSpec      `json:"arch"`
	Clusters []ClusterSpec `json:"clusters"`
}

// JobSpec mirrors the workload JSON job object of spec §6.
type JobSpec struct {
	ID            string  `json:"id"`
	SubmitTime    float64 `json:"subtime"`
	NTasks        int     `json:"ntasks"`
	Nodes         int     `json:"nodes"`
	NTasksPerNode int     `json:"ntasks_per_node"`
	ReqOps        float64 `json:"req_ops"`
	IPC           float64 `json:"ipc"`
	ReqTime       float64 `json:"req_time"`
	Mem           float64 `json:"mem"`
	MemVol        float64 `json:"mem_vol"`
}

// WorkloadManagerSpec selects and parameterizes a workload manager for a
// scenario run.
type WorkloadManagerSpec struct {
	Type              string `json:"type"`
	ResourceSelection string `json:"resource_selection"`
	JobSelection      string `json:"job_selection"`
	AdmitZeroReqTime  bool   `json:"admit_zero_req_time"`
}

// ExpectedMetrics holds the scalar outcomes a scenario's test asserts.
type ExpectedMetrics struct {
	Makespan float64 `json:"makespan"`
	Energy   float64 `json:"energy"`
}

// ScenarioCase is one spec §8 end-to-end scenario.
type ScenarioCase struct {
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Platform        PlatformSpec         `json:"platform"`
	Jobs            []JobSpec            `json:"jobs"`
	WorkloadManager WorkloadManagerSpec  `json:"workload_manager"`
	Expected        ExpectedMetrics      `json:"expected"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/
// -> testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// ByName returns the scenario with the given name, failing the test if
// absent.
func (d *GoldenDataset) ByName(t *testing.T, name string) ScenarioCase {
	t.Helper()
	for _, s := range d.Scenarios {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("scenario %q not found in golden dataset", name)
	return ScenarioCase{}
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
