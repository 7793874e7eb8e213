package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
)

// ArcMachineType is the ARM resource type of Arc-enabled servers.
const ArcMachineType = "Microsoft.HybridCompute/machines"

// Resource is the provider-neutral view of an ARM resource the rest of the
// tool works with. Properties is nil for list results; ARM only returns the
// property bag on direct gets.
type Resource struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Location   string         `json:"location"`
	Properties map[string]any `json:"properties,omitempty"`
}

// ListFilter narrows ListResources to one resource type and optionally one
// resource group. An empty ResourceGroup means subscription-wide.
type ListFilter struct {
	ResourceType  string
	ResourceGroup string
}

// ResourceClient is the generic resource-management surface this tool
// consumes. Client implements it against ARM; internal/testutil fakes it
// for service tests.
type ResourceClient interface {
	GetResource(ctx context.Context, resourceID, apiVersion string) (*Resource, error)
	ListResources(ctx context.Context, filter ListFilter) ([]Resource, error)
	UpsertResource(ctx context.Context, resourceID, apiVersion string, res Resource) (*Resource, error)
}

// MachineID builds the ARM ID of an Arc machine.
func MachineID(subscriptionID, resourceGroup, name string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s",
		subscriptionID, resourceGroup, ArcMachineType, name)
}

// LicenseProfileID builds the ID of a machine's default license profile
// sub-resource, the carrier of the Software Assurance flag.
func LicenseProfileID(machineID string) string {
	return machineID + "/licenseProfiles/default"
}

// ResourceGroupFromID extracts the resource group segment of an ARM ID,
// or "" when the ID does not parse.
func ResourceGroupFromID(id string) string {
	rid, err := arm.ParseResourceID(id)
	if err != nil {
		return ""
	}
	return rid.ResourceGroupName
}

// IsNotFound reports whether err is an ARM 404.
func IsNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// IsAuthError reports whether err is an ARM 401 or 403.
func IsAuthError(err error) bool {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.StatusCode == http.StatusUnauthorized ||
		respErr.StatusCode == http.StatusForbidden
}
