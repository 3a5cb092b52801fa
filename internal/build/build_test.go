package build

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/democodex/mcp-server-automation/internal/config"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedPipeline() *Pipeline {
	p := New()
	p.Clock = func() time.Time { return fixedTime }
	return p
}

func TestImageNameGitHubMode(t *testing.T) {
	p := fixedPipeline()
	b := &config.BuildConfig{
		GitHub: &config.GitHubConfig{
			URL:       "https://github.com/acme/fetch-server",
			Subfolder: "src/server",
		},
	}
	assert.Equal(t, "fetch-server-src-server", p.imageName(b))
}

func TestImageNameEntrypointMode(t *testing.T) {
	p := fixedPipeline()
	b := &config.BuildConfig{
		Entrypoint: &config.EntrypointConfig{
			Command: "npx",
			Args:    []string{"-y", "@modelcontextprotocol/server-everything"},
		},
	}
	assert.Equal(t, "mcp-server-everything", p.imageName(b))
}

func TestImageNameExplicitRepositoryWins(t *testing.T) {
	p := fixedPipeline()
	b := &config.BuildConfig{
		GitHub: &config.GitHubConfig{URL: "https://github.com/acme/srv"},
		Image:  &config.ImageConfig{Repository: "registry.example.com/team/custom-name"},
	}
	assert.Equal(t, "custom-name", p.imageName(b))
}

func TestImageTagEntrypointMode(t *testing.T) {
	p := fixedPipeline()
	b := &config.BuildConfig{
		Entrypoint: &config.EntrypointConfig{Command: "npx"},
	}
	assert.Equal(t, "static-20250314-092653", p.imageTag(nil, b))
}

func TestImageTagExplicitOverride(t *testing.T) {
	p := fixedPipeline()
	b := &config.BuildConfig{
		Entrypoint: &config.EntrypointConfig{Command: "npx"},
		Image:      &config.ImageConfig{Tag: "v1.2.3"},
	}
	assert.Equal(t, "v1.2.3", p.imageTag(nil, b))
}

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	assert.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))
	assert.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("b"), 0o600))

	dst := filepath.Join(t.TempDir(), "out")
	assert.NoError(t, copyTree(src, dst))

	content, err := os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
	assert.NoError(t, err)
	assert.Equal(t, "b", string(content))
}

func TestClientConfig(t *testing.T) {
	snippet, err := ClientConfig("my-service", "http://alb-123.us-east-1.elb.amazonaws.com/")
	assert.NoError(t, err)

	var parsed struct {
		MCPServers map[string]struct {
			Command string   `json:"command"`
			Args    []string `json:"args"`
		} `json:"mcpServers"`
	}
	assert.NoError(t, json.Unmarshal([]byte(snippet), &parsed))
	entry := parsed.MCPServers["my-service"]
	assert.Equal(t, "npx", entry.Command)
	assert.Equal(t, []string{"-y", "mcp-remote", "http://alb-123.us-east-1.elb.amazonaws.com/sse"}, entry.Args)
}

func TestSaveClientConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp-config.json")
	assert.NoError(t, SaveClientConfig(path, "srv", "https://srv.run.app"))

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(content), "https://srv.run.app/sse")
}
