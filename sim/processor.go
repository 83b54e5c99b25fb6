package sim

import "math"

// Processor is the modelV1 contention domain: it owns a fixed set of Cores
// and recomputes every running core's speedup and the processor's aggregate
// power on every schedule/reap, grounded on
// original_source/irmasim/platform/models/modelV1/Processor.py.
type Processor struct {
	IDStr string
	Cores []*Core

	RequestedBW float64
	Power       float64
}

// NewProcessor returns a processor owning cores, with power already settled
// to the all-idle state.
func NewProcessor(id string, cores []*Core) *Processor {
	p := &Processor{IDStr: id, Cores: cores}
	p.updatePower()
	return p
}

func (p *Processor) ID() string { return p.IDStr }

func (p *Processor) NextStep() float64 {
	min := math.Inf(1)
	for _, c := range p.Cores {
		if s := c.NextStep(); s < min {
			min = s
		}
	}
	return min
}

func (p *Processor) Advance(dt float64) {
	for _, c := range p.Cores {
		c.Advance(dt)
	}
}

// Joules returns the processor's own aggregate power times dt, not a sum
// over its cores' individual Joules (which are always 0).
func (p *Processor) Joules(dt float64) float64 {
	return p.Power * dt
}

func (p *Processor) Schedule(task *Task, path []string) error {
	if len(path) == 0 {
		return &UnknownChildError{Path: path}
	}
	core := p.findCore(path[0])
	if core == nil {
		return &UnknownChildError{Path: path}
	}
	if err := core.Schedule(task, path[1:]); err != nil {
		return err
	}
	p.updateSpeedup()
	p.updatePower()
	return nil
}

func (p *Processor) Reap(task *Task, path []string) error {
	if len(path) == 0 {
		return &UnknownChildError{Path: path}
	}
	core := p.findCore(path[0])
	if core == nil {
		return &UnknownChildError{Path: path}
	}
	if err := core.Reap(task, path[1:]); err != nil {
		return err
	}
	p.updateSpeedup()
	p.updatePower()
	return nil
}

func (p *Processor) findCore(id string) *Core {
	for _, c := range p.Cores {
		if c.IDStr == id {
			return c
		}
	}
	return nil
}

// updateSpeedup recomputes the shared aggregate demand and every running
// core's speedup. An idle core's speedup is reset to exactly 1 to avoid a
// stale 0.9999... value lingering from before its last reap.
func (p *Processor) updateSpeedup() {
	agg := 0.0
	for _, c := range p.Cores {
		agg += c.RequestedBW
	}
	p.RequestedBW = agg

	running := 0
	for _, c := range p.Cores {
		if c.Task != nil && c.Task.RemainingOps > 0 {
			running++
		}
	}
	for _, c := range p.Cores {
		if c.Task != nil {
			n := float64(running - 1)
			c.Speedup = roundSpeedup(perf(agg, c.RequestedBW, n, c.Arch))
		} else {
			c.Speedup = 1
		}
	}
}

// updatePower sets the processor's aggregate power from the three-state
// per-core power model: idle cores draw min_power*static_power, running
// cores draw dynamic_power+static_power, neighbour-running idle cores draw
// static_power only.
func (p *Processor) updatePower() {
	running := 0
	for _, c := range p.Cores {
		if c.Task != nil {
			running++
		}
	}
	if running == 0 {
		sum := 0.0
		for _, c := range p.Cores {
			sum += c.Arch.MinPower * c.Arch.StaticPower
			c.Power = c.Arch.MinPower * c.Arch.StaticPower
		}
		p.Power = sum
		return
	}
	sum := 0.0
	for _, c := range p.Cores {
		if c.Task != nil {
			c.Power = c.Arch.DynamicPower + c.Arch.StaticPower
		} else {
			c.Power = c.Arch.StaticPower
		}
		sum += c.Power
	}
	p.Power = sum
}

// TotalCores returns the number of cores this processor owns.
func (p *Processor) TotalCores() int { return len(p.Cores) }

// IdleCores returns the count of cores with no running task.
func (p *Processor) IdleCores() int {
	n := 0
	for _, c := range p.Cores {
		if c.Task == nil {
			n++
		}
	}
	return n
}

// RunningTasks returns every task currently running on this processor.
func (p *Processor) RunningTasks() []*Task {
	var out []*Task
	for _, c := range p.Cores {
		if c.Task != nil {
			out = append(out, c.Task)
		}
	}
	return out
}
