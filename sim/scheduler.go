package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/irmasim/irmasim/sim/trace"
)

// validWorkloadManagerTypes mirrors the workload_manager.type enum of §6
// (Action is a Non-goal: it is modeled by the WorkloadManager interface
// itself, not a concrete type this factory constructs).
var validWorkloadManagerTypes = map[string]bool{
	"Minimal":   true,
	"Basic":     true,
	"Heuristic": true,
	"Backfill":  true,
	"Energy":    true,
}

// IsValidWorkloadManagerType reports whether name is a recognized
// workload_manager.type value this factory can construct.
func IsValidWorkloadManagerType(name string) bool {
	return validWorkloadManagerTypes[name]
}

// ValidWorkloadManagerTypeNames returns the recognized type names, sorted,
// for error messages and config validation.
func ValidWorkloadManagerTypeNames() []string {
	names := make([]string, 0, len(validWorkloadManagerTypes))
	for k := range validWorkloadManagerTypes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NewWorkloadManager builds the WorkloadManager named by typ, wiring it to
// the given node pool and simulator. resourceSelection/jobSelection are
// forwarded to Heuristic and Backfill (Backfill validates jobSelection but
// orders only by resourceSelection); Energy uses its own energy/EDP criteria,
// and Minimal and Basic ignore both. admitZeroReqTime and tr are forwarded only
// to Backfill, the one manager that estimates shadow time.
//
// Panics on an unrecognized typ: this is a configuration-time programmer
// error, not a runtime condition a caller should need to recover from.
func NewWorkloadManager(typ string, sim *Simulator, nodes []NodeResource, resourceSelection, jobSelection string, admitZeroReqTime bool, rng *rand.Rand, tr *trace.SimulationTrace) WorkloadManager {
	switch typ {
	case "Minimal":
		return NewMinimal(sim, nodes)
	case "Basic":
		return NewBasic(sim, nodes)
	case "Heuristic":
		return NewHeuristic(sim, nodes, resourceSelection, jobSelection, rng)
	case "Energy":
		return NewEnergy(sim, nodes, rng)
	case "Backfill":
		return NewBackfill(sim, nodes, resourceSelection, jobSelection, admitZeroReqTime, rng, tr)
	default:
		panic(fmt.Sprintf("unknown workload manager type %q, want one of %v", typ, ValidWorkloadManagerTypeNames()))
	}
}
