// Package loader parses the workload and platform JSON formats of spec.md
// §6 into sim.JobQueue / sim.Platform values, kept separate from package
// sim per the Design Note redirecting config/parsing concerns away from
// the simulation core. Grounded on
// original_source/irmasim/Simulator.py::generate_workload/build_platform.
package loader

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"

	"github.com/irmasim/irmasim/sim"
)

// jobProfile mirrors a workload JSON "profiles" entry.
type jobProfile struct {
	ReqOps    float64  `json:"req_ops"`
	IPC       float64  `json:"ipc"`
	ReqTime   float64  `json:"req_time"`
	Mem       float64  `json:"mem"`
	MemVol    float64  `json:"mem_vol"`
	ReqEnergy *float64 `json:"req_energy,omitempty"`
}

// jobEntry mirrors one workload JSON job object. Numeric/bool fields use
// pointers so reconciliation (res shorthand, missing nodes/ntasks_per_node)
// can tell "absent" from "zero".
type jobEntry struct {
	ID            string   `json:"id,omitempty"`
	SubmitTime    float64  `json:"subtime"`
	Res           *int     `json:"res,omitempty"`
	Nodes         *int     `json:"nodes,omitempty"`
	NTasks        *int     `json:"ntasks,omitempty"`
	NTasksPerNode *int     `json:"ntasks_per_node,omitempty"`
	Profile       string   `json:"profile,omitempty"`
	ReqOps        float64  `json:"req_ops"`
	IPC           float64  `json:"ipc"`
	ReqTime       float64  `json:"req_time"`
	Mem           float64  `json:"mem"`
	MemVol        float64  `json:"mem_vol"`
	ReqEnergy     *float64 `json:"req_energy,omitempty"`
}

// workloadFile mirrors the top-level workload JSON object.
type workloadFile struct {
	Profiles map[string]jobProfile `json:"profiles"`
	Jobs     []jobEntry             `json:"jobs"`
}

// TrajectorySelection resolves spec.md §6's trajectory_origin/length knobs
// (integer | "random" | "0") against a workload of n jobs.
type TrajectorySelection struct {
	Origin string
	Length string
}

// resolve returns the concrete (origin, length) pair, using rng for the
// "random" case, grounded on generate_workload's randint calls.
func (s TrajectorySelection) resolve(n int, rng *rand.Rand) (origin, length int, err error) {
	if s.Length == "random" {
		length = 1 + rng.Intn(n)
	} else {
		length, err = strconv.Atoi(orDefault(s.Length, "0"))
		if err != nil {
			return 0, 0, &sim.ConfigError{Msg: fmt.Sprintf("invalid trajectory_length %q: %v", s.Length, err)}
		}
	}
	if s.Origin == "random" {
		l := length
		if l == 0 {
			l = 1
		}
		if n-l < 0 {
			return 0, 0, &sim.ConfigError{Msg: "trajectory_length exceeds workload size"}
		}
		origin = rng.Intn(n - l + 1)
	} else {
		origin, err = strconv.Atoi(orDefault(s.Origin, "0"))
		if err != nil {
			return 0, 0, &sim.ConfigError{Msg: fmt.Sprintf("invalid trajectory_origin %q: %v", s.Origin, err)}
		}
	}
	if length == 0 {
		length = n - origin
	}
	if origin < 0 || origin+length > n {
		return 0, 0, &sim.ConfigError{Msg: fmt.Sprintf("trajectory [%d, %d) out of range for %d jobs", origin, origin+length, n)}
	}
	return origin, length, nil
}

func orDefault(s, d string) string {
	if s == "" {
		return d
	}
	return s
}

// LoadWorkload reads a workload JSON file and returns a JobQueue containing
// the selected trajectory, its job submit times rebased so the first
// selected job arrives at simTimeOffset.
func LoadWorkload(path string, sel TrajectorySelection, simTimeOffset float64, rng *rand.Rand) (*sim.JobQueue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &sim.ConfigError{Msg: fmt.Sprintf("reading workload file: %v", err)}
	}
	var wf workloadFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, &sim.ConfigError{Msg: fmt.Sprintf("parsing workload file: %v", err)}
	}
	if len(wf.Jobs) == 0 {
		return nil, &sim.ConfigError{Msg: "workload file has no jobs"}
	}

	origin, length, err := sel.resolve(len(wf.Jobs), rng)
	if err != nil {
		return nil, err
	}

	queue := sim.NewJobQueue()
	firstSubtime := wf.Jobs[origin].SubmitTime
	for i := 0; i < length; i++ {
		entry := wf.Jobs[origin+i]
		jobID := entry.ID
		if jobID == "" {
			jobID = "job" + strconv.Itoa(origin+i)
		}

		nodes, ntasks, ntasksPerNode, err := reconcilePlacement(jobID, entry)
		if err != nil {
			return nil, err
		}

		reqOps, ipc, reqTime, mem, memVol, reqEnergy, err := resolveProfile(jobID, entry, wf.Profiles)
		if err != nil {
			return nil, err
		}

		submitTime := entry.SubmitTime - firstSubtime + simTimeOffset
		job, err := sim.NewJob(jobID, jobID, submitTime, nodes, ntasks, ntasksPerNode, reqTime, reqOps, ipc, mem, memVol, reqEnergy)
		if err != nil {
			return nil, err
		}
		queue.Add(job)
	}
	return queue, nil
}

// reconcilePlacement applies generate_workload's res/nodes/ntasks/
// ntasks_per_node reconciliation rules.
func reconcilePlacement(jobID string, e jobEntry) (nodes, ntasks, ntasksPerNode int, err error) {
	if e.Res != nil {
		if e.Nodes != nil || e.NTasks != nil || e.NTasksPerNode != nil {
			return 0, 0, 0, &sim.WorkloadValidationError{JobID: jobID, Reason: "'res' cannot be combined with nodes/ntasks/ntasks_per_node"}
		}
		return 1, *e.Res, *e.Res, nil
	}
	if e.NTasks == nil && e.Nodes == nil {
		return 0, 0, 0, &sim.WorkloadValidationError{JobID: jobID, Reason: "requires 'nodes' or 'ntasks'"}
	}
	switch {
	case e.NTasks != nil && e.Nodes != nil && e.NTasksPerNode != nil:
		if *e.Nodes != int(math.Ceil(float64(*e.NTasks)/float64(*e.NTasksPerNode))) {
			return 0, 0, 0, &sim.WorkloadValidationError{JobID: jobID, Reason: "incompatible nodes/ntasks/ntasks_per_node"}
		}
		return *e.Nodes, *e.NTasks, *e.NTasksPerNode, nil
	case e.Nodes == nil:
		tpn := 1
		if e.NTasksPerNode != nil {
			tpn = *e.NTasksPerNode
		}
		return int(math.Ceil(float64(*e.NTasks) / float64(tpn))), *e.NTasks, tpn, nil
	case e.NTasks == nil:
		tpn := 1
		if e.NTasksPerNode != nil {
			tpn = *e.NTasksPerNode
		}
		return *e.Nodes, *e.Nodes * tpn, tpn, nil
	default:
		tpn := int(math.Ceil(float64(*e.NTasks) / float64(*e.Nodes)))
		return *e.Nodes, *e.NTasks, tpn, nil
	}
}

func resolveProfile(jobID string, e jobEntry, profiles map[string]jobProfile) (reqOps, ipc, reqTime, mem, memVol float64, reqEnergy *float64, err error) {
	if e.Profile == "" {
		return e.ReqOps, e.IPC, e.ReqTime, e.Mem, e.MemVol, e.ReqEnergy, nil
	}
	p, ok := profiles[e.Profile]
	if !ok {
		return 0, 0, 0, 0, 0, nil, &sim.WorkloadValidationError{JobID: jobID, Reason: fmt.Sprintf("unknown profile %q", e.Profile)}
	}
	return p.ReqOps, p.IPC, p.ReqTime, p.Mem, p.MemVol, p.ReqEnergy, nil
}
