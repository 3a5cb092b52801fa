// Package config loads and validates the YAML build/deploy configuration.
// The CLI-only entrypoint path constructs the exact same structs, so every
// downstream component sees one configuration shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of a configuration file.
type Config struct {
	Cloud  *CloudConfig  `yaml:"cloud"`
	Build  *BuildConfig  `yaml:"build"`
	Deploy *DeployConfig `yaml:"deploy"`
}

// CloudConfig selects the provider and its addressing.
type CloudConfig struct {
	Provider  string `yaml:"provider"`
	Region    string `yaml:"region"`
	ProjectID string `yaml:"project_id"`
}

// EntrypointConfig is the raw-command build mode: a bare command plus args,
// no source tree.
type EntrypointConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// GitHubConfig is the source-tree build mode.
type GitHubConfig struct {
	URL       string `yaml:"github_url"`
	Subfolder string `yaml:"subfolder"`
	Branch    string `yaml:"branch"`
}

// ImageConfig pins an explicit image repository and tag, overriding the
// derived naming policy.
type ImageConfig struct {
	Repository string `yaml:"repository"`
	Tag        string `yaml:"tag"`
}

// RegistryConfig addresses the target container registry.
type RegistryConfig struct {
	URL            string `yaml:"registry_url"`
	RepositoryName string `yaml:"repository_name"`
}

// BuildConfig is the build section. Exactly one of Entrypoint or GitHub
// must be set.
type BuildConfig struct {
	Entrypoint *EntrypointConfig `yaml:"entrypoint"`
	GitHub     *GitHubConfig     `yaml:"github"`

	Image    *ImageConfig    `yaml:"image"`
	Registry *RegistryConfig `yaml:"registry"`

	PushToRegistry       bool              `yaml:"push_to_registry"`
	DockerfilePath       string            `yaml:"dockerfile_path"`
	Architecture         string            `yaml:"architecture"`
	CommandOverride      CommandList       `yaml:"command_override"`
	EnvironmentVariables map[string]string `yaml:"environment_variables"`
}

// AWSDeployConfig carries the AWS-specific deployment inputs.
type AWSDeployConfig struct {
	ClusterName    string   `yaml:"cluster_name"`
	VPCID          string   `yaml:"vpc_id"`
	ALBSubnetIDs   []string `yaml:"alb_subnet_ids"`
	ECSSubnetIDs   []string `yaml:"ecs_subnet_ids"`
	CertificateARN string   `yaml:"certificate_arn"`
}

// GCPDeployConfig carries the Cloud Run deployment inputs.
type GCPDeployConfig struct {
	AllowUnauthenticated bool   `yaml:"allow_unauthenticated"`
	MaxInstances         int    `yaml:"max_instances"`
	CPULimit             string `yaml:"cpu_limit"`
	MemoryLimit          string `yaml:"memory_limit"`
	Ingress              string `yaml:"ingress"`
	CustomDomain         string `yaml:"custom_domain"`
}

// DeployConfig is the deploy section.
type DeployConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Port        int    `yaml:"port"`
	CPU         int    `yaml:"cpu"`
	Memory      int    `yaml:"memory"`
	SaveConfig  string `yaml:"save_config"`

	AWS *AWSDeployConfig `yaml:"aws"`
	GCP *GCPDeployConfig `yaml:"gcp"`
}

// Load reads, parses, defaults and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses raw YAML, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills in the defaults the original configuration schema
// documents. It is safe to call on partially constructed configs, which is
// how the CLI-only path uses it.
func (c *Config) ApplyDefaults() {
	if c.Cloud == nil {
		c.Cloud = &CloudConfig{}
	}
	if c.Cloud.Provider == "" {
		c.Cloud.Provider = "aws"
	}
	if c.Cloud.Region == "" {
		c.Cloud.Region = "us-east-1"
	}

	if c.Build != nil {
		if c.Build.Registry == nil {
			c.Build.Registry = &RegistryConfig{}
		}
		if c.Build.Registry.RepositoryName == "" {
			c.Build.Registry.RepositoryName = "mcp-servers"
		}
		c.Build.DockerfilePath = sanitizeString(c.Build.DockerfilePath)
		c.Build.Architecture = sanitizeString(c.Build.Architecture)
		c.Build.EnvironmentVariables = sanitizeEnvVars(c.Build.EnvironmentVariables)
		for i, arg := range c.Build.CommandOverride {
			c.Build.CommandOverride[i] = sanitizeString(arg)
		}
		if c.Build.GitHub != nil {
			c.Build.GitHub.Subfolder = sanitizeString(c.Build.GitHub.Subfolder)
			c.Build.GitHub.Branch = sanitizeString(c.Build.GitHub.Branch)
		}
	}

	if c.Deploy != nil {
		if c.Deploy.Port == 0 {
			c.Deploy.Port = 8000
		}
		if c.Deploy.CPU == 0 {
			c.Deploy.CPU = 256
		}
		if c.Deploy.Memory == 0 {
			c.Deploy.Memory = 512
		}
		if c.Deploy.GCP != nil {
			if c.Deploy.GCP.MaxInstances == 0 {
				c.Deploy.GCP.MaxInstances = 10
			}
			if c.Deploy.GCP.CPULimit == "" {
				c.Deploy.GCP.CPULimit = "1000m"
			}
			if c.Deploy.GCP.MemoryLimit == "" {
				c.Deploy.GCP.MemoryLimit = "512Mi"
			}
			if c.Deploy.GCP.Ingress == "" {
				c.Deploy.GCP.Ingress = "all"
			}
		}
	}
}

// Validate enforces the configuration invariants: mutually exclusive build
// modes, provider requirements and deploy preconditions.
func (c *Config) Validate() error {
	switch c.Cloud.Provider {
	case "aws":
	case "gcp":
		if c.Cloud.ProjectID == "" {
			return fmt.Errorf("project_id is required for the gcp provider; set cloud.project_id or pass --project-id")
		}
	default:
		return fmt.Errorf("unsupported provider %q: supported providers are aws, gcp", c.Cloud.Provider)
	}

	if c.Build == nil {
		return fmt.Errorf("no 'build' section found in configuration")
	}
	if c.Build.Entrypoint != nil && c.Build.GitHub != nil {
		return fmt.Errorf("cannot specify both 'entrypoint' and 'github' in build configuration; choose one method")
	}
	if c.Build.Entrypoint == nil && c.Build.GitHub == nil {
		return fmt.Errorf("must specify either 'entrypoint' for direct commands or 'github' for GitHub repositories in build configuration")
	}
	if c.Build.Entrypoint != nil && c.Build.Entrypoint.Command == "" {
		return fmt.Errorf("entrypoint.command must not be empty")
	}
	if c.Build.GitHub != nil {
		if err := validateGitHubURL(c.Build.GitHub.URL); err != nil {
			return err
		}
	}

	if c.Deploy != nil && c.Deploy.Enabled {
		if !c.Build.PushToRegistry {
			return fmt.Errorf("deploy.enabled requires build.push_to_registry to be true")
		}
		if c.Deploy.ServiceName == "" {
			return fmt.Errorf("deploy.enabled requires service_name")
		}
		if c.Cloud.Provider == "aws" {
			if err := c.Deploy.validateAWS(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *DeployConfig) validateAWS() error {
	if d.AWS == nil {
		return fmt.Errorf("deploy section is missing the 'aws' block (cluster_name, vpc_id, alb_subnet_ids, ecs_subnet_ids)")
	}
	if d.AWS.ClusterName == "" || d.AWS.VPCID == "" {
		return fmt.Errorf("aws deployment requires cluster_name and vpc_id (find VPCs with: aws ec2 describe-vpcs)")
	}
	if len(d.AWS.ALBSubnetIDs) < 2 {
		return fmt.Errorf("aws deployment requires at least 2 alb_subnet_ids in different availability zones")
	}
	if len(d.AWS.ECSSubnetIDs) < 1 {
		return fmt.Errorf("aws deployment requires at least 1 ecs_subnet_ids entry for task placement")
	}
	return nil
}
