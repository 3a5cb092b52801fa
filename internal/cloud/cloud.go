// Package cloud defines the capability interfaces the build pipeline needs
// from a cloud platform (registry operations, deployment operations) and
// the closed set of provider implementations behind them. Providers are
// selected by explicit tag at configuration-parse time; no provider logic
// leaks into the inference core.
package cloud

import (
	"context"

	"github.com/democodex/mcp-server-automation/internal/config"
)

// RegistryResult describes a completed registry push.
type RegistryResult struct {
	ImageURI       string
	RegistryURL    string
	RepositoryName string
}

// DeploymentResult describes a provisioned service.
type DeploymentResult struct {
	ServiceURL  string
	ServiceName string
}

// DeployRequest carries everything a provider needs to provision or update
// a running service.
type DeployRequest struct {
	ImageURI             string
	ServiceName          string
	Port                 int
	CPU                  int
	Memory               int
	EnvironmentVariables map[string]string

	AWS *config.AWSDeployConfig
	GCP *config.GCPDeployConfig
}

// RegistryOperations is the container-registry capability surface.
type RegistryOperations interface {
	// RegistryURL returns the registry host for this provider/account.
	RegistryURL(ctx context.Context) (string, error)
	// EnsureRepository creates the repository if it does not exist.
	EnsureRepository(ctx context.Context, name string) error
	// PushImage authenticates, retags localTag as remoteTag and pushes.
	PushImage(ctx context.Context, remoteTag, localTag string) (*RegistryResult, error)
}

// DeploymentOperations is the service-deployment capability surface.
type DeploymentOperations interface {
	Deploy(ctx context.Context, req DeployRequest) (*DeploymentResult, error)
	ServiceURL(ctx context.Context, serviceName string) (string, error)
	Delete(ctx context.Context, serviceName string) error
}

// Provider pairs the two capability surfaces under a name tag.
type Provider interface {
	Name() string
	Registry() RegistryOperations
	Deployer() DeploymentOperations
}
