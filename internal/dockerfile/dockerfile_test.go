package dockerfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/democodex/mcp-server-automation/internal/models"
)

func TestComposeEntrypointNoCommand(t *testing.T) {
	got := ComposeEntrypoint(nil)
	assert.Equal(t, []string{
		"mcp-proxy", "--debug", "--port", "8000", "--shell",
		"python", "-m", "server",
	}, got)
}

func TestComposeEntrypointSingleToken(t *testing.T) {
	got := ComposeEntrypoint([]string{"my-server"})
	assert.Equal(t, []string{
		"mcp-proxy", "--debug", "--port", "8000", "--shell",
		"my-server",
	}, got)
}

func TestComposeEntrypointMultiToken(t *testing.T) {
	got := ComposeEntrypoint([]string{"npx", "-y", "@scope/server"})
	assert.Equal(t, []string{
		"mcp-proxy", "--debug", "--port", "8000", "--shell",
		"npx", "--", "-y", "@scope/server",
	}, got)
}

func TestComposeEntrypointDoesNotMutateInput(t *testing.T) {
	in := []string{"python", "-m", "srv"}
	_ = ComposeEntrypoint(in)
	assert.Equal(t, []string{"python", "-m", "srv"}, in)
}

func TestGeneratePythonUV(t *testing.T) {
	info := &models.PackageInfo{
		Language:     models.LanguagePython,
		Manager:      models.ManagerUV,
		ProjectFile:  "pyproject.toml",
		StartCommand: []string{"demo-server"},
	}

	out, err := Generate(info, "")
	assert.NoError(t, err)
	assert.Contains(t, out, "FROM python:3.12-slim")
	assert.Contains(t, out, "pip install --no-cache-dir mcp-proxy uv")
	assert.Contains(t, out, "COPY mcp-server/ /app/mcp-server/")
	assert.Contains(t, out, "uv pip install --system --no-cache .")
	assert.Contains(t, out, "EXPOSE 8000")
	assert.Contains(t, out, `ENTRYPOINT ["mcp-proxy","--debug","--port","8000","--shell","demo-server"]`)
}

func TestGeneratePythonRequirements(t *testing.T) {
	info := &models.PackageInfo{
		Language:         models.LanguagePython,
		Manager:          models.ManagerPip,
		RequirementsFile: "requirements.txt",
		StartCommand:     []string{"python", "server.py"},
	}

	out, err := Generate(info, "")
	assert.NoError(t, err)
	assert.Contains(t, out, "pip install --no-cache-dir -r requirements.txt")
	assert.Contains(t, out, `ENTRYPOINT ["mcp-proxy","--debug","--port","8000","--shell","python","--","server.py"]`)
}

func TestGeneratePythonPoetry(t *testing.T) {
	info := &models.PackageInfo{
		Language:     models.LanguagePython,
		Manager:      models.ManagerPoetry,
		ProjectFile:  "pyproject.toml",
		StartCommand: []string{"demo-server"},
	}

	out, err := Generate(info, "")
	assert.NoError(t, err)
	assert.Contains(t, out, "poetry install --no-interaction --no-ansi")
}

func TestGenerateNode(t *testing.T) {
	info := &models.PackageInfo{
		Language:     models.LanguageNode,
		Manager:      models.ManagerNPM,
		ProjectFile:  "package.json",
		StartCommand: []string{"npx", "-y", "srv"},
	}

	out, err := Generate(info, "")
	assert.NoError(t, err)
	assert.Contains(t, out, "FROM node:20-slim")
	assert.Contains(t, out, "npm install")
	assert.Contains(t, out, "mcp-proxy")
	assert.Contains(t, out, `ENTRYPOINT ["mcp-proxy","--debug","--port","8000","--shell","npx","--","-y","srv"]`)
}

func TestGenerateEntrypointModeSkipsCopy(t *testing.T) {
	info := &models.PackageInfo{
		Language:       models.LanguageNode,
		Manager:        models.ManagerNPM,
		EntrypointMode: true,
		StartCommand:   []string{"npx", "-y", "srv"},
	}

	out, err := Generate(info, "")
	assert.NoError(t, err)
	assert.NotContains(t, out, "COPY mcp-server/")
	assert.NotContains(t, out, "npm install")
}

func TestGenerateEnvironmentVariables(t *testing.T) {
	info := &models.PackageInfo{
		Language:       models.LanguagePython,
		EntrypointMode: true,
		StartCommand:   []string{"uvx", "srv"},
		EnvironmentVariables: map[string]string{
			"API_KEY": "secret value",
		},
	}

	out, err := Generate(info, "")
	assert.NoError(t, err)
	assert.Contains(t, out, `ENV API_KEY="secret value"`)
}

func TestGenerateUnknownLanguageFallsBackToPython(t *testing.T) {
	info := &models.PackageInfo{
		Language:       models.Language("rust"),
		EntrypointMode: true,
		StartCommand:   []string{"srv"},
	}

	out, err := Generate(info, "")
	assert.NoError(t, err)
	assert.Contains(t, out, "FROM python:3.12-slim")
}

func TestGenerateCustomDockerfileWins(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "Dockerfile.custom")
	err := os.WriteFile(custom, []byte("FROM scratch\n"), 0o644)
	assert.NoError(t, err)

	info := &models.PackageInfo{Language: models.LanguagePython, StartCommand: []string{"x"}}
	out, err := Generate(info, custom)
	assert.NoError(t, err)
	assert.Equal(t, "FROM scratch\n", out)
}

func TestGenerateSetsEntrypointCommand(t *testing.T) {
	info := &models.PackageInfo{
		Language:       models.LanguagePython,
		EntrypointMode: true,
		StartCommand:   []string{"uvx", "srv"},
	}

	_, err := Generate(info, "")
	assert.NoError(t, err)
	assert.Equal(t, []string{"mcp-proxy", "--debug", "--port", "8000", "--shell", "uvx", "--", "srv"}, info.EntrypointCommand)
}
