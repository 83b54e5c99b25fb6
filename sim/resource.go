package sim

// Resource is the common external contract of every tree node: the root
// Platform, Clusters, per-model Nodes, Processors, and Cores all satisfy it.
type Resource interface {
	ID() string
	NextStep() float64 // time until the next completion beneath this node, +Inf if idle
	Advance(dt float64)
	Joules(dt float64) float64
	Schedule(task *Task, path []string) error
	Reap(task *Task, path []string) error
}

// NodeResource is the contract a workload manager needs to reason about a
// single node directly, regardless of which platform model produced it:
// modelV1's Node is a container of Processors of Cores; modelV1_1 and
// modelV2's Node is itself the leaf. Both expose the same slot-counting and
// running-task surface so Backfill never has to know which model it is on.
type NodeResource interface {
	Resource
	TotalCores() int
	IdleCores() int
	RunningTasks() []*Task
}

// ResourceLogger is satisfied by the leaf type each platform model logs one
// resources.log row per: *Core for modelV1 (one row per core beneath a
// processor), *NodeV1_1 and *NodeV2 (one row per node, since neither has an
// addressable sub-resource worth a row of its own).
type ResourceLogger interface {
	Header() []string
	LogState() []string
}

// ResourceLogRows walks a platform's nodes and returns the resources.log
// header (taken from the first loggable leaf encountered) plus one row per
// loggable leaf, in node order. Grounded on
// original_source/irmasim/platform/models/modelV1/Node.py::header/log_state.
func ResourceLogRows(nodes []NodeResource) (header []string, rows [][]string) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *NodeV1:
			for _, p := range v.Processors {
				for _, c := range p.Cores {
					if header == nil {
						header = c.Header()
					}
					rows = append(rows, c.LogState())
				}
			}
		case ResourceLogger:
			if header == nil {
				header = v.Header()
			}
			rows = append(rows, v.LogState())
		}
	}
	return header, rows
}
