// Package trace provides decision-trace recording for workload-manager policy analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// AdmissionRecord captures a single admission-round decision: whether a
// scheduling pass (Backfill's head allocation or backfill pass) admitted a
// job, and if so which one.
type AdmissionRecord struct {
	JobID    string
	Clock    int64
	Admitted bool
	Reason   string
}

// NodeCandidateScore captures one candidate node considered during resource
// selection, alongside its score and the state that produced it.
type NodeCandidateScore struct {
	NodeID          string
	Score           float64
	IdleCores       int
	EstimatedEnergy float64
	EstimatedEDP    float64
}

// RoutingRecord captures a single node-selection decision for a job, with
// optional counterfactual scoring of the candidates that were passed over.
type RoutingRecord struct {
	JobID      string
	Clock      int64
	ChosenNode string
	Reason     string
	Scores     map[string]float64   // node id -> score, from the resource-selection pass
	Candidates []NodeCandidateScore // top-k candidates sorted by score desc (nil if k=0)
	Regret     float64              // best alternative score - chosen score; 0 if chosen is best
}
