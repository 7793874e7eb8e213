package benefit

import (
	"context"

	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
)

// ConfirmMode controls when a run demands interactive confirmation before
// writing anything.
type ConfirmMode int

const (
	ConfirmNever ConfirmMode = iota
	// ConfirmMultiple prompts only when more than one machine is targeted.
	ConfirmMultiple
	// ConfirmAlways prompts regardless of count (subscription scope).
	ConfirmAlways
)

// ConfirmFunc asks the operator to approve a run over count machines.
type ConfirmFunc func(count int) (bool, error)

// Reconciler applies the Software Assurance flag to one machine. It never
// returns an error: every failure is folded into the Outcome so one bad
// machine cannot abort a batch.
type Reconciler interface {
	Reconcile(ctx context.Context, m machine.MachineRef) Outcome
}

// Runner drives a Reconciler across a selection, gated by confirmation,
// and aggregates the outcomes. Returns ErrRunCancelled when the operator
// declines the prompt.
type Runner interface {
	Run(ctx context.Context, machines []machine.MachineRef) ([]Outcome, Summary, error)
}
