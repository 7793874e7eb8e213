package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/arcbenefit/internal/domain/benefit"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
	"github.com/pratik-mahalle/arcbenefit/internal/pkg/logger"
)

// RunnerOptions configures the confirmation gate for a run.
type RunnerOptions struct {
	Confirm     benefit.ConfirmMode
	ConfirmFunc benefit.ConfirmFunc
}

// RunnerService reconciles a batch of machines one at a time and
// aggregates the outcomes.
type RunnerService struct {
	reconciler benefit.Reconciler
	opts       RunnerOptions
	logger     *logger.Logger
}

// NewRunnerService creates a new runner service
func NewRunnerService(reconciler benefit.Reconciler, opts RunnerOptions, log *logger.Logger) benefit.Runner {
	return &RunnerService{
		reconciler: reconciler,
		opts:       opts,
		logger:     log,
	}
}

// Run confirms the batch when the mode requires it, then reconciles
// each machine in order. A declined confirmation returns
// benefit.ErrRunCancelled with no machines touched.
func (s *RunnerService) Run(ctx context.Context, machines []machine.MachineRef) ([]benefit.Outcome, benefit.Summary, error) {
	runID := uuid.New().String()
	log := s.logger.WithFields(map[string]interface{}{"run_id": runID})

	if s.needsConfirmation(len(machines)) {
		if s.opts.ConfirmFunc == nil {
			return nil, benefit.Summary{}, errors.New("confirmation required but no prompt available")
		}
		ok, err := s.opts.ConfirmFunc(len(machines))
		if err != nil {
			return nil, benefit.Summary{}, err
		}
		if !ok {
			log.Info("Run cancelled before any changes")
			return nil, benefit.Summary{}, benefit.ErrRunCancelled
		}
	}

	outcomes := make([]benefit.Outcome, 0, len(machines))
	for _, m := range machines {
		out := s.reconciler.Reconcile(ctx, m)
		log.WithFields(map[string]interface{}{
			"machine":        out.Machine,
			"resource_group": out.ResourceGroup,
			"action":         string(out.Action),
		}).Infof("Reconciled %s", out.Machine)
		outcomes = append(outcomes, out)
	}

	summary := benefit.Summarize(outcomes)
	log.WithFields(map[string]interface{}{
		"total":           summary.Total,
		"already_enabled": summary.AlreadyEnabled,
		"enabled":         summary.Enabled,
		"failed":          summary.Failed,
	}).Info("Run complete")

	return outcomes, summary, nil
}

func (s *RunnerService) needsConfirmation(count int) bool {
	switch s.opts.Confirm {
	case benefit.ConfirmAlways:
		return true
	case benefit.ConfirmMultiple:
		return count > 1
	default:
		return false
	}
}
