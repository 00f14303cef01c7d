package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// EntraTokenProvider requests Entra ID access tokens scoped to Azure Database
// for PostgreSQL.
type EntraTokenProvider struct {
	credential azcore.TokenCredential
	label      string
}

var _ TokenProvider = (*EntraTokenProvider)(nil)

// NewEntraTokenProvider picks the credential for cfg. Tenant, client and
// secret together select a service principal; otherwise the
// DefaultAzureCredential chain (environment, workload and managed identity,
// Azure CLI) is used.
func NewEntraTokenProvider(cfg *sparkify.ConnectionConfig) (*EntraTokenProvider, error) {
	if cfg.AzureTenantID != "" && cfg.AzureClientID != "" && cfg.AzureClientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(cfg.AzureTenantID, cfg.AzureClientID, cfg.AzureClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid Azure service principal: %w: %w", sparkify.ErrInvalidConfig, err)
		}
		return newEntraTokenProvider(cred,
			fmt.Sprintf("Entra ID service principal (tenant=%s, client=%s)", cfg.AzureTenantID, cfg.AzureClientID)), nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: cfg.AzureTenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("no usable Azure credential: %w: %w", sparkify.ErrInvalidConfig, err)
	}
	return newEntraTokenProvider(cred, "Entra ID default credential chain"), nil
}

func newEntraTokenProvider(credential azcore.TokenCredential, label string) *EntraTokenProvider {
	return &EntraTokenProvider{credential: credential, label: label}
}

func (p *EntraTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	tok, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AzurePostgreSQLScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("entra ID token request failed: %w", err)
	}
	return tok.Token, tok.ExpiresOn, nil
}

func (p *EntraTokenProvider) String() string { return p.label }
