package services

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/arcbenefit/internal/azure"
	"github.com/pratik-mahalle/arcbenefit/internal/domain/machine"
	"github.com/pratik-mahalle/arcbenefit/internal/pkg/logger"
)

// SelectorService implements machine.Selector against the ARM resource
// client.
type SelectorService struct {
	client         azure.ResourceClient
	subscriptionID string
	apiVersion     string // Microsoft.HybridCompute/machines API version
	logger         *logger.Logger
}

// NewSelectorService creates a new selector service
func NewSelectorService(client azure.ResourceClient, subscriptionID, apiVersion string, log *logger.Logger) machine.Selector {
	return &SelectorService{
		client:         client,
		subscriptionID: subscriptionID,
		apiVersion:     apiVersion,
		logger:         log,
	}
}

// Select resolves a scope to concrete machines.
func (s *SelectorService) Select(ctx context.Context, scope machine.Scope, exclude []string) ([]machine.MachineRef, error) {
	switch scope.Kind {
	case machine.ScopeMachine:
		return s.selectSingle(ctx, scope)
	case machine.ScopeResourceGroup, machine.ScopeSubscription:
		return s.selectListed(ctx, scope, exclude)
	default:
		return nil, fmt.Errorf("unknown scope kind %q", scope.Kind)
	}
}

// selectSingle fetches one machine by name. The operator named it
// explicitly, so neither the Windows filter nor the exclusion list applies.
func (s *SelectorService) selectSingle(ctx context.Context, scope machine.Scope) ([]machine.MachineRef, error) {
	id := azure.MachineID(s.subscriptionID, scope.ResourceGroup, scope.MachineName)

	res, err := s.client.GetResource(ctx, id, s.apiVersion)
	if err != nil {
		if azure.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s in resource group %s",
				machine.ErrNotFound, scope.MachineName, scope.ResourceGroup)
		}
		return nil, fmt.Errorf("fetch machine %s: %w", scope.MachineName, err)
	}

	return []machine.MachineRef{s.toMachine(*res)}, nil
}

func (s *SelectorService) selectListed(ctx context.Context, scope machine.Scope, exclude []string) ([]machine.MachineRef, error) {
	filter := azure.ListFilter{ResourceType: azure.ArcMachineType}
	if scope.Kind == machine.ScopeResourceGroup {
		filter.ResourceGroup = scope.ResourceGroup
	}

	listed, err := s.client.ListResources(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list Arc machines in %s: %w", scope, err)
	}
	s.logger.Debugf("Enumerated %d Arc machines in %s", len(listed), scope)

	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		excluded[name] = struct{}{}
	}

	var out []machine.MachineRef
	for _, r := range listed {
		// List responses carry no properties; the OS only shows up on a
		// direct get.
		detail, err := s.client.GetResource(ctx, r.ID, s.apiVersion)
		if err != nil {
			s.logger.WithError(err).Warnf("Skipping %s: detail fetch failed", r.Name)
			continue
		}

		m := s.toMachine(*detail)
		if !m.IsWindows() {
			continue
		}
		if _, skip := excluded[m.Name]; skip {
			s.logger.Debugf("Excluding %s by name", m.Name)
			continue
		}
		out = append(out, m)
	}

	if len(out) == 0 {
		return nil, machine.ErrNoMachines
	}
	return out, nil
}

func (s *SelectorService) toMachine(r azure.Resource) machine.MachineRef {
	osName, _ := r.Properties["osName"].(string)
	return machine.MachineRef{
		Name:          r.Name,
		ResourceGroup: azure.ResourceGroupFromID(r.ID),
		ResourceID:    r.ID,
		Location:      r.Location,
		OSName:        osName,
	}
}
