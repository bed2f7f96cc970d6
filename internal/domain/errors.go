package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConfiguration marks failures that abort a run before any deploy call
	// (duplicate names, unknown artifacts or dependencies, cycles).
	ErrConfiguration = errors.New("configuration error")

	// ErrLedger marks storage failures. Correctness can't be guaranteed
	// without durable state, so these abort the run.
	ErrLedger = errors.New("ledger error")

	// ErrDeploy marks a failed or timed out client call for a single artifact
	ErrDeploy = errors.New("deploy error")

	// ErrIncompleteRun is returned by the CLI when at least one requested
	// artifact did not end Deployed
	ErrIncompleteRun = errors.New("not all artifacts were deployed")
)

// DuplicateNameError is returned when an artifact name is registered twice
type DuplicateNameError struct {
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("artifact '%s' is already registered", e.Name)
}

func (e DuplicateNameError) Is(target error) bool {
	return target == ErrConfiguration
}

// NotFoundError is returned when an artifact or dependency name is not registered
type NotFoundError struct {
	Name string
	// RequiredBy is set when the missing name is a dependency of another artifact
	RequiredBy  string
	Suggestions []string
}

func (e NotFoundError) Error() string {
	var b strings.Builder
	if e.RequiredBy != "" {
		fmt.Fprintf(&b, "artifact '%s' depends on unknown artifact '%s'", e.RequiredBy, e.Name)
	} else {
		fmt.Fprintf(&b, "artifact '%s' not found", e.Name)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrConfiguration || target == ErrNotFound
}

// UnknownTagError is returned when a requested tag is carried by no artifact
type UnknownTagError struct {
	Tag         string
	Suggestions []string
}

func (e UnknownTagError) Error() string {
	msg := fmt.Sprintf("no artifact is tagged '%s'", e.Tag)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e UnknownTagError) Is(target error) bool {
	return target == ErrConfiguration || target == ErrNotFound
}

// CyclicDependencyError reports one offending cycle, first node repeated at the end
type CyclicDependencyError struct {
	Cycle []string
}

func (e CyclicDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Cycle, " -> "))
}

func (e CyclicDependencyError) Is(target error) bool {
	return target == ErrConfiguration
}

// InvalidSpecError is returned for specs that can never be valid (empty name, self-dependency)
type InvalidSpecError struct {
	Name   string
	Reason string
}

func (e InvalidSpecError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid artifact: %s", e.Reason)
	}
	return fmt.Sprintf("invalid artifact '%s': %s", e.Name, e.Reason)
}

func (e InvalidSpecError) Is(target error) bool {
	return target == ErrConfiguration
}

// LedgerError wraps a storage failure with the operation that caused it
type LedgerError struct {
	Op  string
	Err error
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

func (e *LedgerError) Is(target error) bool {
	return target == ErrLedger
}

// NewLedgerError wraps err unless it is nil or already a LedgerError
func NewLedgerError(op string, err error) error {
	if err == nil {
		return nil
	}
	var le *LedgerError
	if errors.As(err, &le) {
		return err
	}
	return &LedgerError{Op: op, Err: err}
}

// DeployError describes a failed client call for one artifact on one network
type DeployError struct {
	Artifact string
	Network  string
	Timeout  bool
	Err      error
}

func (e *DeployError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("deploying %s on %s timed out: %v", e.Artifact, e.Network, e.Err)
	}
	return fmt.Sprintf("deploying %s on %s failed: %v", e.Artifact, e.Network, e.Err)
}

func (e *DeployError) Unwrap() error {
	return e.Err
}

func (e *DeployError) Is(target error) bool {
	return target == ErrDeploy
}
