package sim

import "math"

// Platform is the root of the resource tree. It owns Clusters and carries
// the active contention-model name: modelV1 (per-processor contention,
// Cluster->Node->Processor->Core), modelV1_1 (per-node contention,
// Cluster->Node as leaf), or modelV2 (no contention, Cluster->Node as leaf).
type Platform struct {
	IDStr     string
	ModelName string
	Clusters  []*Cluster
}

// NewPlatform returns a platform owning the given clusters under the named
// model.
func NewPlatform(id, modelName string, clusters []*Cluster) *Platform {
	return &Platform{IDStr: id, ModelName: modelName, Clusters: clusters}
}

var validPlatformModels = map[string]bool{
	"modelV1":   true,
	"modelV1_1": true,
	"modelV2":   true,
}

// IsValidPlatformModel reports whether name is a recognized contention
// model.
func IsValidPlatformModel(name string) bool { return validPlatformModels[name] }

func (p *Platform) ID() string { return p.IDStr }

func (p *Platform) NextStep() float64 {
	min := math.Inf(1)
	for _, c := range p.Clusters {
		if s := c.NextStep(); s < min {
			min = s
		}
	}
	return min
}

func (p *Platform) Advance(dt float64) {
	for _, c := range p.Clusters {
		c.Advance(dt)
	}
}

// Joules is the sum over every leaf of instantaneous power times dt.
func (p *Platform) Joules(dt float64) float64 {
	sum := 0.0
	for _, c := range p.Clusters {
		sum += c.Joules(dt)
	}
	return sum
}

// Schedule consumes the full path head-first: cluster id, then node id,
// then whatever the node's own model needs (processor+core, or a single
// slot id).
func (p *Platform) Schedule(task *Task, path []string) error {
	if len(path) < 2 {
		return &UnknownChildError{Path: path}
	}
	c := p.findCluster(path[0])
	if c == nil {
		return &UnknownChildError{Path: path}
	}
	if err := c.Schedule(task, path[1:]); err != nil {
		return err
	}
	task.Placement = path
	return nil
}

func (p *Platform) Reap(task *Task, path []string) error {
	if len(path) < 2 {
		return &UnknownChildError{Path: path}
	}
	c := p.findCluster(path[0])
	if c == nil {
		return &UnknownChildError{Path: path}
	}
	if err := c.Reap(task, path[1:]); err != nil {
		return err
	}
	task.Placement = nil
	return nil
}

func (p *Platform) findCluster(id string) *Cluster {
	for _, c := range p.Clusters {
		if c.IDStr == id {
			return c
		}
	}
	return nil
}

// Nodes flattens every node across every cluster, in cluster/node order.
func (p *Platform) Nodes() []NodeResource {
	var out []NodeResource
	for _, c := range p.Clusters {
		out = append(out, c.Nodes...)
	}
	return out
}
