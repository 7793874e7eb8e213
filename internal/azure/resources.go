package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Client implements ResourceClient on top of the generic armresources
// client, which takes the API version per call. License profiles are a
// preview sub-resource whose version the typed resource provider SDKs do
// not expose.
type Client struct {
	resources *armresources.Client
}

// NewClient builds a resource client bound to the session's subscription.
func NewClient(session *Session) (*Client, error) {
	c, err := armresources.NewClient(session.SubscriptionID, session.Credential, nil)
	if err != nil {
		return nil, fmt.Errorf("create resources client: %w", err)
	}
	return &Client{resources: c}, nil
}

func (c *Client) GetResource(ctx context.Context, resourceID, apiVersion string) (*Resource, error) {
	resp, err := c.resources.GetByID(ctx, resourceID, apiVersion, nil)
	if err != nil {
		return nil, err
	}
	r := fromGeneric(resp.GenericResource)
	return &r, nil
}

func (c *Client) ListResources(ctx context.Context, filter ListFilter) ([]Resource, error) {
	armFilter := fmt.Sprintf("resourceType eq '%s'", filter.ResourceType)

	var out []Resource
	if filter.ResourceGroup != "" {
		pager := c.resources.NewListByResourceGroupPager(filter.ResourceGroup,
			&armresources.ClientListByResourceGroupOptions{Filter: to.Ptr(armFilter)})
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, err
			}
			for _, r := range page.Value {
				out = append(out, fromExpanded(r))
			}
		}
		return out, nil
	}

	pager := c.resources.NewListPager(&armresources.ClientListOptions{Filter: to.Ptr(armFilter)})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range page.Value {
			out = append(out, fromExpanded(r))
		}
	}
	return out, nil
}

func (c *Client) UpsertResource(ctx context.Context, resourceID, apiVersion string, res Resource) (*Resource, error) {
	params := armresources.GenericResource{
		Properties: res.Properties,
	}
	if res.Location != "" {
		params.Location = to.Ptr(res.Location)
	}

	poller, err := c.resources.BeginCreateOrUpdateByID(ctx, resourceID, apiVersion, params, nil)
	if err != nil {
		return nil, err
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	r := fromGeneric(resp.GenericResource)
	return &r, nil
}

func fromGeneric(g armresources.GenericResource) Resource {
	r := Resource{}
	if g.ID != nil {
		r.ID = *g.ID
	}
	if g.Name != nil {
		r.Name = *g.Name
	}
	if g.Type != nil {
		r.Type = *g.Type
	}
	if g.Location != nil {
		r.Location = *g.Location
	}
	if props, ok := g.Properties.(map[string]any); ok {
		r.Properties = props
	}
	return r
}

func fromExpanded(g *armresources.GenericResourceExpanded) Resource {
	r := Resource{}
	if g == nil {
		return r
	}
	if g.ID != nil {
		r.ID = *g.ID
	}
	if g.Name != nil {
		r.Name = *g.Name
	}
	if g.Type != nil {
		r.Type = *g.Type
	}
	if g.Location != nil {
		r.Location = *g.Location
	}
	return r
}
