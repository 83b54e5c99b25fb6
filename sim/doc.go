// Package sim provides the core discrete-event simulation engine for
// IRMaSim: job queues, a hierarchical platform resource tree, a contention
// and power model, and pluggable workload managers.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - job.go / task.go: Job and Task lifecycle (submitted → running → finished)
//   - queue.go: JobQueue, partitioned into future/submitted/finished sets
//   - simulator.go: the event loop, advancing to the next submission or
//     completion and invoking the active WorkloadManager
//   - workloadmanager.go: the WorkloadManager contract every scheduling
//     policy implements
//
// # Architecture
//
// The resource tree is a plain owning composition, no parent back-pointers:
// Platform owns Clusters; a Cluster owns Nodes; depending on the active
// platform model, a Node is either a container of Processors (each owning
// Cores — modelV1, platform.go/cluster.go/node_v1.go/processor.go/core.go)
// or a leaf directly owning core-equivalent slots (modelV1_1/modelV2,
// node_v1_1.go/node_v2.go). All three node shapes satisfy NodeResource
// (resource.go), so workload managers never branch on which model is active
// except when building resource paths (idleSlotPaths in backfill.go).
//
// contention.go holds the shared smootherstep/perf math used by both
// Processor (v1) and NodeV1_1; NodeV2 never applies it.
//
// # Workload managers
//
// Five concrete managers satisfy WorkloadManager: Minimal (manager_minimal.go,
// strict FCFS), Basic (manager_basic.go, FCFS ignoring node boundaries),
// Heuristic (manager_heuristic.go, configurable job/resource selection),
// Energy (manager_energy.go, Heuristic specialized for energy/EDP selection),
// and Backfill (backfill.go, conservative backfilling with shadow-time
// gating). scheduler.go's NewWorkloadManager is the factory dispatching
// workload_manager.type to one of these.
//
// An external Action/RL-policy manager is out of scope for this repo — it
// plugs into the same WorkloadManager interface without any core change.
//
// # Observability
//
// statistics.go and metrics_utils.go compute end-of-trajectory summaries
// (slowdown, bounded slowdown, waiting time, energy, makespan). sim/trace/
// records per-round admission and node-selection decisions for offline
// analysis of a run.
package sim
