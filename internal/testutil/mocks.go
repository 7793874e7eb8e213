package testutil

import (
	"context"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/pratik-mahalle/arcbenefit/internal/azure"
)

// UpsertCall records one write made against the mock client.
type UpsertCall struct {
	ResourceID string
	APIVersion string
	Resource   azure.Resource
}

// MockResourceClient is a map-backed implementation of
// azure.ResourceClient. Error fields let tests fail specific calls.
type MockResourceClient struct {
	Resources map[string]azure.Resource
	order     []string

	GetError    error
	ListError   error
	UpsertError error

	// Per-resource overrides, keyed by resource ID.
	GetErrors    map[string]error
	UpsertErrors map[string]error

	Upserts []UpsertCall
	// DiscardUpserts stops writes from landing in Resources, so a
	// re-read still sees the old state.
	DiscardUpserts bool
}

func NewMockResourceClient() *MockResourceClient {
	return &MockResourceClient{
		Resources:    make(map[string]azure.Resource),
		GetErrors:    make(map[string]error),
		UpsertErrors: make(map[string]error),
	}
}

// Add stores a resource and remembers insertion order so list results
// are deterministic.
func (m *MockResourceClient) Add(r azure.Resource) {
	if _, exists := m.Resources[r.ID]; !exists {
		m.order = append(m.order, r.ID)
	}
	m.Resources[r.ID] = r
}

func (m *MockResourceClient) GetResource(ctx context.Context, resourceID, apiVersion string) (*azure.Resource, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	if err := m.GetErrors[resourceID]; err != nil {
		return nil, err
	}
	r, ok := m.Resources[resourceID]
	if !ok {
		return nil, &azcore.ResponseError{StatusCode: http.StatusNotFound, ErrorCode: "ResourceNotFound"}
	}
	return &r, nil
}

// ListResources mimics ARM list behavior: results match on type and
// resource group but carry no properties.
func (m *MockResourceClient) ListResources(ctx context.Context, filter azure.ListFilter) ([]azure.Resource, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []azure.Resource
	for _, id := range m.order {
		r := m.Resources[id]
		if filter.ResourceType != "" && !strings.EqualFold(r.Type, filter.ResourceType) {
			continue
		}
		if filter.ResourceGroup != "" && !strings.Contains(r.ID, "/resourceGroups/"+filter.ResourceGroup+"/") {
			continue
		}
		out = append(out, azure.Resource{
			ID:       r.ID,
			Name:     r.Name,
			Type:     r.Type,
			Location: r.Location,
		})
	}
	return out, nil
}

func (m *MockResourceClient) UpsertResource(ctx context.Context, resourceID, apiVersion string, res azure.Resource) (*azure.Resource, error) {
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}
	if err := m.UpsertErrors[resourceID]; err != nil {
		return nil, err
	}
	m.Upserts = append(m.Upserts, UpsertCall{ResourceID: resourceID, APIVersion: apiVersion, Resource: res})

	stored := res
	stored.ID = resourceID
	if !m.DiscardUpserts {
		m.Add(stored)
	}
	return &stored, nil
}

// ArcMachine builds a connected machine resource the way ARM returns it
// from a direct get.
func ArcMachine(subscriptionID, resourceGroup, name, osName string) azure.Resource {
	return azure.Resource{
		ID:       azure.MachineID(subscriptionID, resourceGroup, name),
		Name:     name,
		Type:     azure.ArcMachineType,
		Location: "eastus",
		Properties: map[string]any{
			"osName": osName,
		},
	}
}

// LicenseProfile builds a default license profile resource with the
// given Software Assurance flag.
func LicenseProfile(machineID string, enabled bool) azure.Resource {
	return azure.Resource{
		ID:       azure.LicenseProfileID(machineID),
		Name:     "default",
		Type:     "Microsoft.HybridCompute/machines/licenseProfiles",
		Location: "eastus",
		Properties: map[string]any{
			"softwareAssurance": map[string]any{
				"softwareAssuranceCustomer": enabled,
			},
		},
	}
}
