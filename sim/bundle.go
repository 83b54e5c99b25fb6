package sim

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// WorkloadManagerConfig holds unified workload-manager configuration,
// loadable from a YAML file — the spec §6 knobs that select and parameterize
// a WorkloadManager. Grounded on the teacher's PolicyBundle YAML pattern
// (strict field validation, pointer fields for "unset"), generalized to
// the IRMaSim §6 enums.
type WorkloadManagerConfig struct {
	Seed              int64  `yaml:"seed"`
	TrajectoryOrigin  string `yaml:"trajectory_origin"`
	TrajectoryLength  string `yaml:"trajectory_length"`
	NBTrajectories    int    `yaml:"nbtrajectories"`
	Type              string `yaml:"type"`
	ResourceSelection string `yaml:"resource_selection"`
	JobSelection      string `yaml:"job_selection"`
	AdmitZeroReqTime  bool   `yaml:"admit_zero_req_time"`
}

// LoadWorkloadManagerConfig reads and parses a YAML workload-manager
// configuration file. Uses strict parsing: unrecognized keys (typos) are
// rejected.
func LoadWorkloadManagerConfig(path string) (*WorkloadManagerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("reading workload manager config: %v", err)}
	}
	var cfg WorkloadManagerConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("parsing workload manager config: %v", err)}
	}
	return &cfg, nil
}

// Validate checks that every enum field in cfg names a recognized value,
// per spec §6. Type/ResourceSelection/JobSelection default to the empty
// string meaning "unset", which this method accepts — the caller (e.g. the
// CLI) is expected to require Type explicitly before building a manager.
func (c *WorkloadManagerConfig) Validate() error {
	if c.Type != "" && !IsValidWorkloadManagerType(c.Type) {
		return &ConfigError{Msg: fmt.Sprintf("unknown workload_manager.type %q; valid options: %s", c.Type, sortedJoin(ValidWorkloadManagerTypeNames()))}
	}
	if c.ResourceSelection != "" && !IsValidResourceSelection(c.ResourceSelection) {
		return &ConfigError{Msg: fmt.Sprintf("unknown workload_manager.resource_selection %q; valid options: %s", c.ResourceSelection, sortedJoin(ValidResourceSelectionNames()))}
	}
	if c.JobSelection != "" && !IsValidJobSelection(c.JobSelection) {
		return &ConfigError{Msg: fmt.Sprintf("unknown workload_manager.job_selection %q; valid options: %s", c.JobSelection, sortedJoin(ValidJobSelectionNames()))}
	}
	return nil
}

func sortedJoin(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	out := ""
	for i, n := range sorted {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
