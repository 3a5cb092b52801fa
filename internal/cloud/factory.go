package cloud

import (
	"fmt"

	"github.com/democodex/mcp-server-automation/internal/config"
	"github.com/democodex/mcp-server-automation/internal/docker"
)

// New maps a provider tag to its concrete implementation pair. The set is
// closed: adding a provider means adding a case here, not loading plugins.
func New(cfg *config.CloudConfig, dock *docker.Client) (Provider, error) {
	switch cfg.Provider {
	case "aws":
		return newAWSProvider(cfg.Region, dock), nil
	case "gcp":
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("project_id is required for the gcp provider; set cloud.project_id or pass --project-id")
		}
		return newGCPProvider(cfg.Region, cfg.ProjectID, dock), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q: supported providers are aws, gcp", cfg.Provider)
	}
}
