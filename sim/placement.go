package sim

// collectJobPlacement walks ordered nodes and greedily claims up to
// job.NTasksPerNode idle slots from each, stopping once every one of
// job.NTasks tasks has a path or job.Nodes distinct nodes have
// contributed. Grounded on the spec's worked backfill example: a 6-task
// job with ntasks_per_node=4 takes a first node entirely (4 cores) and 2
// cores of a second node. Returns nil if the ordered set cannot cover the
// whole job within job.Nodes nodes.
func collectJobPlacement(nodes []NodeResource, job *Job) [][]string {
	var paths [][]string
	usedNodes := 0
	for _, n := range nodes {
		if len(paths) >= job.NTasks || usedNodes >= job.Nodes {
			break
		}
		idle := idleSlotPaths(n)
		take := job.NTasksPerNode
		if take > len(idle) {
			take = len(idle)
		}
		if need := job.NTasks - len(paths); take > need {
			take = need
		}
		if take <= 0 {
			continue
		}
		paths = append(paths, idle[:take]...)
		usedNodes++
	}
	if len(paths) < job.NTasks {
		return nil
	}
	return paths
}
