package sim

import "math"

// Core is the leaf resource of the modelV1 tree: exactly one task runs on it
// at a time. Its speedup and power are set externally by the owning
// Processor's contention recomputation, not computed locally.
type Core struct {
	IDStr string
	Arch  ArchConstants

	Task        *Task
	Speedup     float64
	RequestedBW float64
	Power       float64
}

// NewCore returns an idle core with the reference's idle power level.
func NewCore(id string, arch ArchConstants) *Core {
	return &Core{
		IDStr:   id,
		Arch:    arch,
		Speedup: 1,
		Power:   arch.MinPower * arch.StaticPower,
	}
}

func (c *Core) ID() string { return c.IDStr }

// NextStep returns the time until the running task's remaining operations
// reach zero at the current speedup, or +Inf if idle.
func (c *Core) NextStep() float64 {
	if c.Task == nil {
		return math.Inf(1)
	}
	throughput := c.Arch.MopsPerCore() * 1e6 * c.Speedup
	if throughput <= 0 {
		return math.Inf(1)
	}
	return c.Task.RemainingOps / throughput
}

// Advance drains the running task's remaining operations by throughput*dt,
// clipped at zero, and advances its accumulated execution time by dt.
func (c *Core) Advance(dt float64) {
	if c.Task == nil {
		return
	}
	throughput := c.Arch.MopsPerCore() * 1e6 * c.Speedup
	c.Task.RemainingOps -= throughput * dt
	if c.Task.RemainingOps < 0 {
		c.Task.RemainingOps = 0
	}
	c.Task.ExecutionTime += dt
}

// Joules always returns 0: the owning Processor aggregates power at the
// processor level and reports joules directly, bypassing per-core summation.
func (c *Core) Joules(dt float64) float64 { return 0 }

func (c *Core) Schedule(task *Task, path []string) error {
	if len(path) != 0 {
		return &UnknownChildError{Path: path}
	}
	if c.Task != nil {
		return &AlreadyOccupiedError{Path: path}
	}
	c.Task = task
	c.RequestedBW = task.MemoryVolume / (task.RemainingOps / (c.Arch.MopsPerCore() * 1e6))
	return nil
}

func (c *Core) Reap(task *Task, path []string) error {
	if len(path) != 0 {
		return &UnknownChildError{Path: path}
	}
	if c.Task == nil || c.Task != task {
		return &NotPlacedError{Path: path}
	}
	c.Task = nil
	c.RequestedBW = 0
	return nil
}

// Header returns the resources.log CSV header for a modelV1 core row.
func (c *Core) Header() []string {
	return []string{"core", "speedup", "power", "requested_bw"}
}

// LogState returns a resources.log CSV row describing this core's current state.
func (c *Core) LogState() []string {
	return []string{c.IDStr, ftoa(c.Speedup), ftoa(c.Power), ftoa(c.RequestedBW)}
}
