package services

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/arcbenefit/internal/azure"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/benefit"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
	"github.com/pratik-mahalle/arcbenefit/internal/pkg/logger"
)

// ReconcilerOptions controls how strictly the reconciler treats reads.
type ReconcilerOptions struct {
	// Verify re-reads the license profile after a write and flags
	// responses that do not yet show the benefit.
	Verify bool
	// StrictRead fails a machine whose license profile read is denied
	// instead of treating the profile as absent.
	StrictRead bool
}

// ReconcilerService drives a single machine to the enabled state.
type ReconcilerService struct {
	client     azure.ResourceClient
	apiVersion string // license profile API version
	opts       ReconcilerOptions
	logger     *logger.Logger
}

// NewReconcilerService creates a new reconciler service
func NewReconcilerService(client azure.ResourceClient, apiVersion string, opts ReconcilerOptions, log *logger.Logger) benefit.Reconciler {
	return &ReconcilerService{
		client:     client,
		apiVersion: apiVersion,
		opts:       opts,
		logger:     log,
	}
}

// Reconcile reads the machine's license profile and enables Software
// Assurance when it is not already on. Failures are reported in the
// outcome, never as an error.
func (s *ReconcilerService) Reconcile(ctx context.Context, m machine.MachineRef) benefit.Outcome {
	out := benefit.Outcome{Machine: m.Name, ResourceGroup: m.ResourceGroup}
	profileID := azure.LicenseProfileID(m.ResourceID)

	state, readErr := s.readState(ctx, profileID)
	if readErr != nil {
		if s.opts.StrictRead && azure.IsAuthError(readErr) {
			out.Action = benefit.ActionFailed
			out.Detail = fmt.Sprintf("license profile read denied: %v", readErr)
			return out
		}
		// A missing or unreadable profile means the benefit was never
		// set; enabling it creates the profile.
		s.logger.WithError(readErr).Infof("No readable license profile for %s, treating as absent", m.Name)
		state = benefit.StateAbsent
	}

	if state == benefit.StateEnabled {
		out.Action = benefit.ActionNoChange
		out.Detail = "Already enabled"
		return out
	}

	if err := s.enable(ctx, profileID, m.Location); err != nil {
		out.Action = benefit.ActionFailed
		out.Detail = err.Error()
		return out
	}

	out.Action = benefit.ActionEnabled
	out.Detail = "Software Assurance enabled"

	if s.opts.Verify && !s.verifyEnabled(ctx, profileID) {
		out.Detail += " (verification pending)"
		s.logger.Warnf("Benefit not yet visible on %s after write", m.Name)
	}
	return out
}

func (s *ReconcilerService) readState(ctx context.Context, profileID string) (benefit.State, error) {
	res, err := s.client.GetResource(ctx, profileID, s.apiVersion)
	if err != nil {
		return benefit.StateAbsent, err
	}
	return benefit.StateFromProperties(res.Properties), nil
}

func (s *ReconcilerService) enable(ctx context.Context, profileID, location string) error {
	res := azure.Resource{
		Location: location,
		Properties: map[string]any{
			"softwareAssurance": map[string]any{
				"softwareAssuranceCustomer": true,
			},
		},
	}
	if _, err := s.client.UpsertResource(ctx, profileID, s.apiVersion, res); err != nil {
		return fmt.Errorf("enable Software Assurance: %w", err)
	}
	return nil
}

func (s *ReconcilerService) verifyEnabled(ctx context.Context, profileID string) bool {
	state, err := s.readState(ctx, profileID)
	if err != nil {
		s.logger.WithError(err).Debugf("Verification read failed for %s", profileID)
		return false
	}
	return state == benefit.StateEnabled
}
