package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// ResourceSelection orders a node slice for allocation preference, the first
// element being the most preferred node to try. Grounded on
// original_source/irmasim/workload_manager/Backfill.py's node_selections
// table.
type ResourceSelection func(nodes []NodeResource, job *Job, estimate func(NodeResource, *Job) (energy, edp float64), rng *rand.Rand) []NodeResource

// validResourceSelections names the resource_selection enum from spec §6.
var validResourceSelections = map[string]bool{
	"random": true, "first": true, "high_gflops": true, "high_cores": true,
	"high_mem": true, "high_mem_bw": true, "low_power": true,
	"energy_lowest": true, "energy_highest": true,
	"edp_lowest": true, "edp_highest": true,
}

// IsValidResourceSelection reports whether name is a recognized
// resource-selection criterion.
func IsValidResourceSelection(name string) bool { return validResourceSelections[name] }

// ValidResourceSelectionNames returns the sorted enum.
func ValidResourceSelectionNames() []string { return sortedKeys(validResourceSelections) }

// OrderNodesByResourceSelection sorts a copy of nodes by the named
// criterion, most-preferred first. Panics on an unrecognized name — a
// programmer error caught at config-validation time, not here.
func OrderNodesByResourceSelection(name string, nodes []NodeResource, job *Job, estimate func(NodeResource, *Job) (energy, edp float64), rng *rand.Rand) []NodeResource {
	out := append([]NodeResource(nil), nodes...)
	switch name {
	case "", "first":
		// Stable insertion order is already "first".
	case "random":
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	case "high_gflops":
		sort.SliceStable(out, func(i, j int) bool { return mopsPerCoreOf(out[i]) > mopsPerCoreOf(out[j]) })
	case "high_cores":
		sort.SliceStable(out, func(i, j int) bool { return out[i].TotalCores() > out[j].TotalCores() })
	case "high_mem":
		// Memory accounting is not modeled per-node in this port (no
		// node-level memory capacity tracked outside task placement);
		// fall back to stable order, matching a node pool with
		// homogeneous memory.
	case "high_mem_bw":
		sort.SliceStable(out, func(i, j int) bool { return requestedBWOf(out[i]) > requestedBWOf(out[j]) })
	case "low_power":
		sort.SliceStable(out, func(i, j int) bool {
			return powerPerCoreOf(out[i])*float64(out[i].TotalCores()) < powerPerCoreOf(out[j])*float64(out[j].TotalCores())
		})
	case "energy_lowest":
		sort.SliceStable(out, func(i, j int) bool { e1, _ := estimate(out[i], job); e2, _ := estimate(out[j], job); return e1 < e2 })
	case "energy_highest":
		sort.SliceStable(out, func(i, j int) bool { e1, _ := estimate(out[i], job); e2, _ := estimate(out[j], job); return e1 > e2 })
	case "edp_lowest":
		sort.SliceStable(out, func(i, j int) bool { _, d1 := estimate(out[i], job); _, d2 := estimate(out[j], job); return d1 < d2 })
	case "edp_highest":
		sort.SliceStable(out, func(i, j int) bool { _, d1 := estimate(out[i], job); _, d2 := estimate(out[j], job); return d1 > d2 })
	default:
		panic(fmt.Sprintf("unknown resource selection %q", name))
	}
	return out
}

type mopsPerCorer interface{ MopsPerCore() float64 }
type requestedBWer interface{ RequestedBW() float64 }
type powerPerCorer interface{ PowerPerCore() float64 }

func mopsPerCoreOf(n NodeResource) float64 {
	if m, ok := n.(mopsPerCorer); ok {
		return m.MopsPerCore()
	}
	return 0
}

func requestedBWOf(n NodeResource) float64 {
	if m, ok := n.(requestedBWer); ok {
		return m.RequestedBW()
	}
	return 0
}

func powerPerCoreOf(n NodeResource) float64 {
	if m, ok := n.(powerPerCorer); ok {
		return m.PowerPerCore()
	}
	return 0
}

// validJobSelections names the job_selection enum from spec §6.
var validJobSelections = map[string]bool{
	"first": true, "random": true, "shortest": true, "longest": true,
	"timetasks_lowest": true, "timetasks_highest": true,
	"energy_lowest": true, "energy_highest": true,
	"edp_lowest": true, "edp_highest": true,
}

// IsValidJobSelection reports whether name is a recognized job-selection criterion.
func IsValidJobSelection(name string) bool { return validJobSelections[name] }

// ValidJobSelectionNames returns the sorted enum.
func ValidJobSelectionNames() []string { return sortedKeys(validJobSelections) }

// OrderJobsByJobSelection sorts a copy of jobs by the named criterion,
// most-preferred first. estimate, when the criterion needs it, estimates
// (energy, edp) for running job on a representative node; it is called only
// by the energy_* and edp_* criteria and may be nil for the others.
func OrderJobsByJobSelection(name string, jobs []*Job, estimate func(*Job) (energy, edp float64), rng *rand.Rand) []*Job {
	out := append([]*Job(nil), jobs...)
	switch name {
	case "", "first":
	case "random":
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	case "shortest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReqTime < out[j].ReqTime })
	case "longest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReqTime > out[j].ReqTime })
	case "timetasks_lowest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReqTime*float64(out[i].NTasks) < out[j].ReqTime*float64(out[j].NTasks) })
	case "timetasks_highest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ReqTime*float64(out[i].NTasks) > out[j].ReqTime*float64(out[j].NTasks) })
	case "energy_lowest":
		sort.SliceStable(out, func(i, j int) bool { e1, _ := estimate(out[i]); e2, _ := estimate(out[j]); return e1 < e2 })
	case "energy_highest":
		sort.SliceStable(out, func(i, j int) bool { e1, _ := estimate(out[i]); e2, _ := estimate(out[j]); return e1 > e2 })
	case "edp_lowest":
		sort.SliceStable(out, func(i, j int) bool { _, d1 := estimate(out[i]); _, d2 := estimate(out[j]); return d1 < d2 })
	case "edp_highest":
		sort.SliceStable(out, func(i, j int) bool { _, d1 := estimate(out[i]); _, d2 := estimate(out[j]); return d1 > d2 })
	default:
		panic(fmt.Sprintf("unknown job selection %q", name))
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
