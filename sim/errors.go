package sim

import (
	"fmt"
	"strings"
)

// ConfigError reports a missing or invalid configuration value: an absent
// platform/workload file, or an unrecognized enum knob. Fatal at load time.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config error: %s", e.Msg) }

// WorkloadValidationError reports a job whose nodes/ntasks/ntasks_per_node
// fields are inconsistent, or whose ntasks is non-positive. Fatal at load time.
type WorkloadValidationError struct {
	JobID  string
	Reason string
}

func (e *WorkloadValidationError) Error() string {
	return fmt.Sprintf("workload validation failed for job %q: %s", e.JobID, e.Reason)
}

// UnknownChildError reports a schedule/reap path whose head id does not match
// any child of the resource currently routing it. A workload manager bug.
type UnknownChildError struct {
	Path []string
}

func (e *UnknownChildError) Error() string {
	return fmt.Sprintf("unknown resource child at path [%s]", strings.Join(e.Path, "/"))
}

// AlreadyOccupiedError reports an attempt to schedule a task onto a leaf
// slot that already holds a running task. A workload manager bug: the
// simulator's capacity invariant has been violated.
type AlreadyOccupiedError struct {
	Path []string
}

func (e *AlreadyOccupiedError) Error() string {
	return fmt.Sprintf("resource at path [%s] is already occupied", strings.Join(e.Path, "/"))
}

// NotPlacedError reports a reap whose target slot is empty, or holds a
// different task than the one being reaped.
type NotPlacedError struct {
	Path []string
}

func (e *NotPlacedError) Error() string {
	return fmt.Sprintf("no matching task placed at path [%s]", strings.Join(e.Path, "/"))
}
