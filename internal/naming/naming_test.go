package naming

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func TestImageName(t *testing.T) {
	tests := []struct {
		url       string
		subfolder string
		want      string
	}{
		{"https://github.com/acme/fetch-server", "", "fetch-server"},
		{"https://github.com/acme/fetch-server.git", "", "fetch-server"},
		{"https://github.com/modelcontextprotocol/servers", "src/everything", "servers-src-everything"},
		{"https://github.com/acme/repo", "/deep/sub/", "repo-deep-sub"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageName(tt.url, tt.subfolder), tt.url)
	}
}

func TestImageNameFromCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		args    []string
		want    string
	}{
		{"scoped npm package", "npx", []string{"-y", "@modelcontextprotocol/server-everything"}, "mcp-server-everything"},
		{"versioned package", "uvx", []string{"mcp-server-fetch@1.2.0"}, "mcp-mcp-server-fetch"},
		{"plain package", "uvx", []string{"mcp-server-git"}, "mcp-mcp-server-git"},
		{"flags skipped", "npx", []string{"server-thing", "--verbose"}, "mcp-server-thing"},
		{"no args falls back to command", "my-server", nil, "mcp-my-server"},
		{"dots become dashes", "npx", []string{"server.io"}, "mcp-server-io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageNameFromCommand(tt.command, tt.args))
		})
	}
}

func TestStaticTag(t *testing.T) {
	assert.Equal(t, "static-20250314-092653", StaticTag(fixedTime))
}

func TestDynamicTag(t *testing.T) {
	assert.Equal(t, "a1b2c3d4-main-20250314-092653", DynamicTag("a1b2c3d4", "main", fixedTime))
	assert.Equal(t, "a1b2c3d4-20250314-092653", DynamicTag("a1b2c3d4", "", fixedTime))
	assert.Equal(t, "nocommit-develop-20250314-092653", DynamicTag("", "develop", fixedTime))
}
