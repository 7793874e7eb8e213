package services

import (
	"context"
	"errors"
	"testing"

	"github.com/pratik-mahalle/arcbenefit/internal/domain/benefit"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
	"github.com/pratik-mahalle/arcbenefit/internal/pkg/logger"
)

// stubReconciler returns canned outcomes and records call order.
type stubReconciler struct {
	outcomes map[string]benefit.Outcome
	calls    []string
}

func (s *stubReconciler) Reconcile(ctx context.Context, m machine.MachineRef) benefit.Outcome {
	s.calls = append(s.calls, m.Name)
	if out, ok := s.outcomes[m.Name]; ok {
		return out
	}
	return benefit.Outcome{
		Machine:       m.Name,
		ResourceGroup: m.ResourceGroup,
		Action:        benefit.ActionEnabled,
		Detail:        "Software Assurance enabled",
	}
}

func newTestRunner(rec benefit.Reconciler, opts RunnerOptions) benefit.Runner {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	return NewRunnerService(rec, opts, log)
}

func batch(names ...string) []machine.MachineRef {
	machines := make([]machine.MachineRef, 0, len(names))
	for _, name := range names {
		machines = append(machines, machine.MachineRef{Name: name, ResourceGroup: "prod-rg"})
	}
	return machines
}

func TestRunnerService_AggregatesOutcomes(t *testing.T) {
	rec := &stubReconciler{outcomes: map[string]benefit.Outcome{
		"web-01": {Machine: "web-01", ResourceGroup: "prod-rg", Action: benefit.ActionNoChange, Detail: "Already enabled"},
		"web-03": {Machine: "web-03", ResourceGroup: "prod-rg", Action: benefit.ActionFailed, Detail: "conflict"},
	}}
	runner := newTestRunner(rec, RunnerOptions{Confirm: benefit.ConfirmNever})

	outcomes, summary, err := runner.Run(context.Background(), batch("web-01", "web-02", "web-03"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(outcomes) != 3 {
		t.Fatalf("Run() returned %d outcomes, want 3", len(outcomes))
	}
	for i, name := range []string{"web-01", "web-02", "web-03"} {
		if outcomes[i].Machine != name {
			t.Errorf("outcomes[%d] = %q, want %q (order must match input)", i, outcomes[i].Machine, name)
		}
	}

	want := benefit.Summary{Total: 3, AlreadyEnabled: 1, Enabled: 1, Failed: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestRunnerService_ConfirmationGate(t *testing.T) {
	tests := []struct {
		name       string
		mode       benefit.ConfirmMode
		machines   []machine.MachineRef
		wantPrompt bool
	}{
		{"never mode skips prompt", benefit.ConfirmNever, batch("web-01", "web-02"), false},
		{"multiple mode skips prompt for one machine", benefit.ConfirmMultiple, batch("web-01"), false},
		{"multiple mode prompts for two machines", benefit.ConfirmMultiple, batch("web-01", "web-02"), true},
		{"always mode prompts even for one machine", benefit.ConfirmAlways, batch("web-01"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompted := false
			promptedCount := 0
			confirm := func(count int) (bool, error) {
				prompted = true
				promptedCount = count
				return true, nil
			}

			rec := &stubReconciler{}
			runner := newTestRunner(rec, RunnerOptions{Confirm: tt.mode, ConfirmFunc: confirm})

			_, _, err := runner.Run(context.Background(), tt.machines)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if prompted != tt.wantPrompt {
				t.Errorf("prompted = %v, want %v", prompted, tt.wantPrompt)
			}
			if tt.wantPrompt && promptedCount != len(tt.machines) {
				t.Errorf("prompt saw %d machines, want %d", promptedCount, len(tt.machines))
			}
			if len(rec.calls) != len(tt.machines) {
				t.Errorf("reconciled %d machines, want %d", len(rec.calls), len(tt.machines))
			}
		})
	}
}

func TestRunnerService_DeclinedConfirmation(t *testing.T) {
	rec := &stubReconciler{}
	runner := newTestRunner(rec, RunnerOptions{
		Confirm:     benefit.ConfirmMultiple,
		ConfirmFunc: func(count int) (bool, error) { return false, nil },
	})

	outcomes, summary, err := runner.Run(context.Background(), batch("web-01", "web-02"))

	if !errors.Is(err, benefit.ErrRunCancelled) {
		t.Fatalf("Run() error = %v, want ErrRunCancelled", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("reconciled %d machines after decline, want 0", len(rec.calls))
	}
	if len(outcomes) != 0 || summary.Total != 0 {
		t.Errorf("Run() = %v, %+v; want no outcomes", outcomes, summary)
	}
}

func TestRunnerService_ConfirmationError(t *testing.T) {
	promptErr := errors.New("stdin closed")
	rec := &stubReconciler{}
	runner := newTestRunner(rec, RunnerOptions{
		Confirm:     benefit.ConfirmAlways,
		ConfirmFunc: func(count int) (bool, error) { return false, promptErr },
	})

	_, _, err := runner.Run(context.Background(), batch("web-01"))

	if !errors.Is(err, promptErr) {
		t.Fatalf("Run() error = %v, want prompt error", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("reconciled %d machines after prompt failure, want 0", len(rec.calls))
	}
}

func TestRunnerService_MissingPrompt(t *testing.T) {
	rec := &stubReconciler{}
	runner := newTestRunner(rec, RunnerOptions{Confirm: benefit.ConfirmAlways})

	_, _, err := runner.Run(context.Background(), batch("web-01"))
	if err == nil {
		t.Fatal("Run() expected error when confirmation is required without a prompt")
	}
	if len(rec.calls) != 0 {
		t.Errorf("reconciled %d machines, want 0", len(rec.calls))
	}
}

func TestRunnerService_EmptyBatch(t *testing.T) {
	rec := &stubReconciler{}
	runner := newTestRunner(rec, RunnerOptions{Confirm: benefit.ConfirmNever})

	outcomes, summary, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(outcomes) != 0 || summary.Total != 0 {
		t.Errorf("Run() = %v, %+v; want empty run", outcomes, summary)
	}
}
