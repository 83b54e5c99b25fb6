package sim

import (
	"math"
	"strconv"
)

// NodeV2 is modelV2's leaf: like modelV1_1 it owns core-equivalent slots
// directly, but it has no contention model at all — speedup is always 1 and
// power is a simple linear function of the running-task count, grounded on
// original_source/irmasim/platform/models/modelV2/Node.py.
type NodeV2 struct {
	IDStr     string
	ClusterID string
	Arch      ArchConstants
	Slots     []*Core

	Power float64
}

// NewNodeV2 returns a node with n core-equivalent slots, all idle,
// addressed beneath clusterID in the resource tree.
func NewNodeV2(clusterID, id string, n int, arch ArchConstants) *NodeV2 {
	slots := make([]*Core, n)
	for i := range slots {
		slots[i] = NewCore(slotID(i), arch)
	}
	node := &NodeV2{IDStr: id, ClusterID: clusterID, Arch: arch, Slots: slots}
	node.updatePower()
	return node
}

func (n *NodeV2) ID() string { return n.IDStr }

func (n *NodeV2) NextStep() float64 {
	min := math.Inf(1)
	for _, s := range n.Slots {
		if v := s.NextStep(); v < min {
			min = v
		}
	}
	return min
}

func (n *NodeV2) Advance(dt float64) {
	for _, s := range n.Slots {
		s.Advance(dt)
	}
}

func (n *NodeV2) Joules(dt float64) float64 { return n.Power * dt }

func (n *NodeV2) Schedule(task *Task, path []string) error {
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
	s.Speedup = 1
	n.updatePower()
	return nil
}

func (n *NodeV2) Reap(task *Task, path []string) error {
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
	n.updatePower()
	return nil
}

func (n *NodeV2) findSlot(id string) *Core {
	for _, s := range n.Slots {
		if s.IDStr == id {
			return s
		}
	}
	return nil
}

// updatePower applies the degenerate, uncontended power model: dynamic
// power scales with the running-task count, static power scales with the
// full slot count, and an all-idle node draws min_power*static_power.
func (n *NodeV2) updatePower() {
	running := 0
	for _, s := range n.Slots {
		if s.Task != nil {
			running++
		}
	}
	if running == 0 {
		n.Power = n.Arch.MinPower * n.Arch.StaticPower
		return
	}
	n.Power = n.Arch.DynamicPower*float64(running) + n.Arch.StaticPower*float64(len(n.Slots))
}

func (n *NodeV2) TotalCores() int { return len(n.Slots) }

func (n *NodeV2) IdleCores() int {
	idle := 0
	for _, s := range n.Slots {
		if s.Task == nil {
			idle++
		}
	}
	return idle
}

func (n *NodeV2) RunningTasks() []*Task {
	var out []*Task
	for _, s := range n.Slots {
		if s.Task != nil {
			out = append(out, s.Task)
		}
	}
	return out
}

// Header returns the resources.log CSV header for a modelV2 node row.
func (n *NodeV2) Header() []string {
	return []string{"node", "slots_running", "power"}
}

// LogState returns a resources.log CSV row describing this node's current
// aggregate state (one row per node: modelV2 has no contention to report
// per slot).
func (n *NodeV2) LogState() []string {
	return []string{n.IDStr, strconv.Itoa(len(n.RunningTasks())), ftoa(n.Power)}
}

func (n *NodeV2) MopsPerCore() float64  { return n.Arch.MopsPerCore() }
func (n *NodeV2) PowerPerCore() float64        { return n.Arch.StaticPower + n.Arch.DynamicPower }
func (n *NodeV2) StaticPowerPerCore() float64  { return n.Arch.StaticPower }
func (n *NodeV2) DynamicPowerPerCore() float64 { return n.Arch.DynamicPower }
func (n *NodeV2) ClockRate() float64    { return n.Arch.ClockRate }
