package build

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ClientConfig renders the mcpServers snippet an MCP client needs to reach
// a deployed service over its SSE endpoint.
func ClientConfig(serviceName, serviceURL string) (string, error) {
	endpoint := strings.TrimRight(serviceURL, "/") + "/sse"
	snippet := map[string]any{
		"mcpServers": map[string]any{
			serviceName: map[string]any{
				"command": "npx",
				"args":    []string{"-y", "mcp-remote", endpoint},
			},
		},
	}
	out, err := json.MarshalIndent(snippet, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering client config: %w", err)
	}
	return string(out), nil
}

// SaveClientConfig writes the snippet to path.
func SaveClientConfig(path, serviceName, serviceURL string) error {
	content, err := ClientConfig(serviceName, serviceURL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("saving client config: %w", err)
	}
	return nil
}
