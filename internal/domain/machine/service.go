package machine

import "context"

// Selector produces the machines a run operates on.
type Selector interface {
	// Select resolves a scope to concrete machines. For list scopes the
	// result is OS-filtered to Windows and pruned by the exclusion names;
	// enumeration order is preserved. Returns ErrNotFound for a missing
	// single machine and ErrNoMachines when nothing survives filtering.
	Select(ctx context.Context, scope Scope, exclude []string) ([]MachineRef, error)
}
