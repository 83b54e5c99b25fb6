package sim

import (
	"math"
	"strconv"
)

// NodeV1_1 is modelV1_1's leaf: the node itself is the contention domain,
// directly owning a fixed number of core-equivalent slots, with no
// intervening Processor layer. The contention math is identical to
// modelV1's — same smootherstep formula — just evaluated over the node's
// running tasks instead of a processor's running cores, grounded on
// original_source/irmasim/platform/models/modelV1_1/Node.py.
type NodeV1_1 struct {
	IDStr     string
	ClusterID string
	Arch      ArchConstants
	Slots     []*Core // reuses Core as a bare "running task" slot

	RequestedBW float64
	Power       float64
}

// NewNodeV1_1 returns a node with n core-equivalent slots, all idle,
// addressed beneath clusterID in the resource tree.
func NewNodeV1_1(clusterID, id string, n int, arch ArchConstants) *NodeV1_1 {
	slots := make([]*Core, n)
	for i := range slots {
		slots[i] = NewCore(slotID(i), arch)
	}
	node := &NodeV1_1{IDStr: id, ClusterID: clusterID, Arch: arch, Slots: slots}
	node.updatePower()
	return node
}

func (n *NodeV1_1) ID() string { return n.IDStr }

func (n *NodeV1_1) NextStep() float64 {
	min := math.Inf(1)
	for _, s := range n.Slots {
		if v := s.NextStep(); v < min {
			min = v
		}
	}
	return min
}

func (n *NodeV1_1) Advance(dt float64) {
	for _, s := range n.Slots {
		s.Advance(dt)
	}
}

func (n *NodeV1_1) Joules(dt float64) float64 { return n.Power * dt }

func (n *NodeV1_1) Schedule(task *Task, path []string) error {
	if len(path) != 1 {
		return &UnknownChildError{Path: path}
	}
	s := n.findSlot(path[0])
	if s == nil {
		return &UnknownChildError{Path: path}
	}
	if err := s.Schedule(task, nil); err != nil {
		return err
	}
	n.updateSpeedup()
	n.updatePower()
	return nil
}

func (n *NodeV1_1) Reap(task *Task, path []string) error {
	if len(path) != 1 {
		return &UnknownChildError{Path: path}
	}
	s := n.findSlot(path[0])
	if s == nil {
		return &UnknownChildError{Path: path}
	}
	if err := s.Reap(task, nil); err != nil {
		return err
	}
	n.updateSpeedup()
	n.updatePower()
	return nil
}

func (n *NodeV1_1) findSlot(id string) *Core {
	for _, s := range n.Slots {
		if s.IDStr == id {
			return s
		}
	}
	return nil
}

func (n *NodeV1_1) updateSpeedup() {
	agg := 0.0
	for _, s := range n.Slots {
		agg += s.RequestedBW
	}
	n.RequestedBW = agg

	running := 0
	for _, s := range n.Slots {
		if s.Task != nil && s.Task.RemainingOps > 0 {
			running++
		}
	}
	for _, s := range n.Slots {
		if s.Task != nil {
			cnt := float64(running - 1)
			s.Speedup = roundSpeedup(perf(agg, s.RequestedBW, cnt, n.Arch))
		} else {
			s.Speedup = 1
		}
	}
}

func (n *NodeV1_1) updatePower() {
	running := 0
	for _, s := range n.Slots {
		if s.Task != nil {
			running++
		}
	}
	if running == 0 {
		sum := 0.0
		for _, s := range n.Slots {
			s.Power = n.Arch.MinPower * n.Arch.StaticPower
			sum += s.Power
		}
		n.Power = sum
		return
	}
	sum := 0.0
	for _, s := range n.Slots {
		if s.Task != nil {
			s.Power = n.Arch.DynamicPower + n.Arch.StaticPower
		} else {
			s.Power = n.Arch.StaticPower
		}
		sum += s.Power
	}
	n.Power = sum
}

func (n *NodeV1_1) TotalCores() int { return len(n.Slots) }

func (n *NodeV1_1) IdleCores() int {
	idle := 0
	for _, s := range n.Slots {
		if s.Task == nil {
			idle++
		}
	}
	return idle
}

func (n *NodeV1_1) RunningTasks() []*Task {
	var out []*Task
	for _, s := range n.Slots {
		if s.Task != nil {
			out = append(out, s.Task)
		}
	}
	return out
}

func (n *NodeV1_1) MopsPerCore() float64  { return n.Arch.MopsPerCore() }
func (n *NodeV1_1) PowerPerCore() float64        { return n.Arch.StaticPower + n.Arch.DynamicPower }
func (n *NodeV1_1) StaticPowerPerCore() float64  { return n.Arch.StaticPower }
func (n *NodeV1_1) DynamicPowerPerCore() float64 { return n.Arch.DynamicPower }
func (n *NodeV1_1) ClockRate() float64    { return n.Arch.ClockRate }

// Header returns the resources.log CSV header for a modelV1_1 node row.
func (n *NodeV1_1) Header() []string {
	return []string{"node", "slots_running", "power", "requested_bw"}
}

// LogState returns a resources.log CSV row describing this node's current
// aggregate state (one row per node, not per slot: modelV1_1 has no
// addressable sub-resource worth a row of its own).
func (n *NodeV1_1) LogState() []string {
	return []string{n.IDStr, strconv.Itoa(len(n.RunningTasks())), ftoa(n.Power), ftoa(n.RequestedBW)}
}

func slotID(i int) string {
	return strconv.Itoa(i)
}
