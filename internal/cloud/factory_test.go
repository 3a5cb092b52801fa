package cloud

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/democodex/mcp-server-automation/internal/config"
	"github.com/democodex/mcp-server-automation/internal/docker"
)

func TestNewAWSProvider(t *testing.T) {
	p, err := New(&config.CloudConfig{Provider: "aws", Region: "us-east-1"}, &docker.Client{})
	assert.NoError(t, err)
	assert.Equal(t, "aws", p.Name())
	assert.NotNil(t, p.Registry())
	assert.NotNil(t, p.Deployer())
}

func TestNewGCPProvider(t *testing.T) {
	p, err := New(&config.CloudConfig{Provider: "gcp", Region: "us-central1", ProjectID: "proj"}, &docker.Client{})
	assert.NoError(t, err)
	assert.Equal(t, "gcp", p.Name())
}

func TestNewGCPProviderRequiresProjectID(t *testing.T) {
	_, err := New(&config.CloudConfig{Provider: "gcp", Region: "us-central1"}, &docker.Client{})
	assert.ErrorContains(t, err, "project_id")
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(&config.CloudConfig{Provider: "azure"}, &docker.Client{})
	assert.ErrorContains(t, err, "unsupported provider")
}
