package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGitHubBuild(t *testing.T) {
	cfg, err := Parse([]byte(`
build:
  github:
    github_url: https://github.com/acme/fetch-server
    branch: develop
    subfolder: src/server
  push_to_registry: true
`))

	assert.NoError(t, err)
	assert.Equal(t, "aws", cfg.Cloud.Provider)
	assert.Equal(t, "us-east-1", cfg.Cloud.Region)
	assert.Equal(t, "https://github.com/acme/fetch-server", cfg.Build.GitHub.URL)
	assert.Equal(t, "develop", cfg.Build.GitHub.Branch)
	assert.Equal(t, "mcp-servers", cfg.Build.Registry.RepositoryName)
	assert.True(t, cfg.Build.PushToRegistry)
}

func TestParseEntrypointBuild(t *testing.T) {
	cfg, err := Parse([]byte(`
build:
  entrypoint:
    command: npx
    args: ["-y", "@modelcontextprotocol/server-everything"]
`))

	assert.NoError(t, err)
	assert.Equal(t, "npx", cfg.Build.Entrypoint.Command)
	assert.Equal(t, []string{"-y", "@modelcontextprotocol/server-everything"}, cfg.Build.Entrypoint.Args)
}

func TestParseRejectsBothBuildModes(t *testing.T) {
	_, err := Parse([]byte(`
build:
  entrypoint:
    command: npx
  github:
    github_url: https://github.com/acme/srv
`))

	assert.ErrorContains(t, err, "cannot specify both")
}

func TestParseRejectsNeitherBuildMode(t *testing.T) {
	_, err := Parse([]byte("build:\n  push_to_registry: true\n"))
	assert.ErrorContains(t, err, "must specify either")
}

func TestParseRejectsMissingBuildSection(t *testing.T) {
	_, err := Parse([]byte("cloud:\n  provider: aws\n"))
	assert.ErrorContains(t, err, "no 'build' section")
}

func TestParseRejectsUnknownProvider(t *testing.T) {
	_, err := Parse([]byte(`
cloud:
  provider: azure
build:
  entrypoint:
    command: npx
`))
	assert.ErrorContains(t, err, "unsupported provider")
}

func TestParseGCPRequiresProjectID(t *testing.T) {
	_, err := Parse([]byte(`
cloud:
  provider: gcp
build:
  entrypoint:
    command: npx
`))
	assert.ErrorContains(t, err, "project_id")
}

func TestParseRejectsBadGitHubURL(t *testing.T) {
	_, err := Parse([]byte(`
build:
  github:
    github_url: https://gitlab.com/acme/srv
`))
	assert.ErrorContains(t, err, "invalid GitHub URL")
}

func TestParseDeployRequiresPush(t *testing.T) {
	_, err := Parse([]byte(`
build:
  entrypoint:
    command: npx
deploy:
  enabled: true
  service_name: srv
`))
	assert.ErrorContains(t, err, "push_to_registry")
}

func TestParseDeployDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
cloud:
  provider: gcp
  project_id: proj
build:
  entrypoint:
    command: npx
  push_to_registry: true
deploy:
  enabled: true
  service_name: srv
  gcp: {}
`))

	assert.NoError(t, err)
	assert.Equal(t, 8000, cfg.Deploy.Port)
	assert.Equal(t, 256, cfg.Deploy.CPU)
	assert.Equal(t, 512, cfg.Deploy.Memory)
	assert.Equal(t, 10, cfg.Deploy.GCP.MaxInstances)
	assert.Equal(t, "1000m", cfg.Deploy.GCP.CPULimit)
	assert.Equal(t, "512Mi", cfg.Deploy.GCP.MemoryLimit)
	assert.Equal(t, "all", cfg.Deploy.GCP.Ingress)
}

func TestParseAWSDeployValidation(t *testing.T) {
	_, err := Parse([]byte(`
build:
  github:
    github_url: https://github.com/acme/srv
  push_to_registry: true
deploy:
  enabled: true
  service_name: srv
  aws:
    cluster_name: cluster
    vpc_id: vpc-123
    alb_subnet_ids: [subnet-1]
    ecs_subnet_ids: [subnet-1]
`))
	assert.ErrorContains(t, err, "at least 2 alb_subnet_ids")
}

func TestParseEnvVarFiltering(t *testing.T) {
	cfg, err := Parse([]byte(`
build:
  entrypoint:
    command: npx
  environment_variables:
    API_KEY: "value; rm -rf /"
    bad-key: dropped
    _OK: fine
`))

	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"API_KEY": "value rm -rf /",
		"_OK":     "fine",
	}, cfg.Build.EnvironmentVariables)
}

func TestCommandOverrideScalarForm(t *testing.T) {
	cfg, err := Parse([]byte(`
build:
  github:
    github_url: https://github.com/acme/srv
  command_override: python -m my_server --port 3000
`))

	assert.NoError(t, err)
	assert.Equal(t, []string{"python", "-m", "my_server", "--port", "3000"}, []string(cfg.Build.CommandOverride))
}

func TestCommandOverrideListForm(t *testing.T) {
	cfg, err := Parse([]byte(`
build:
  github:
    github_url: https://github.com/acme/srv
  command_override:
    - python
    - -m
    - my_server
`))

	assert.NoError(t, err)
	assert.Equal(t, []string{"python", "-m", "my_server"}, []string(cfg.Build.CommandOverride))
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("build: [unclosed"))
	assert.Error(t, err)
}
