package azure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// ErrNoSession means no usable Azure credential or subscription exists.
// It is the fatal precondition: nothing is selected or written after it.
var ErrNoSession = errors.New("no active Azure session")

const armScope = "https://management.azure.com/.default"

const probeTimeout = 30 * time.Second

// Session carries the authenticated credential and target subscription for
// a run.
type Session struct {
	SubscriptionID string
	TenantID       string
	Credential     azcore.TokenCredential
}

// NewSession builds the default credential chain (environment, workload
// identity, managed identity, Azure CLI) and proves it can mint an ARM
// token, so precondition failures surface before any resource call.
func NewSession(ctx context.Context, subscriptionID, tenantID string) (*Session, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("%w: subscription ID is not configured", ErrNoSession)
	}

	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: tenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	s := &Session{
		SubscriptionID: subscriptionID,
		TenantID:       tenantID,
		Credential:     cred,
	}
	if _, err := s.Probe(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Probe requests an ARM token. The returned token is only interesting for
// its expiry; callers wanting a liveness check can discard it.
func (s *Session) Probe(ctx context.Context) (azcore.AccessToken, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	token, err := s.Credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{armScope},
	})
	if err != nil {
		return azcore.AccessToken{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return token, nil
}
