package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/democodex/mcp-server-automation/internal/models"
)

func TestInspectPyprojectManagers(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Manager
	}{
		{"plain pip", "[project]\nname = \"x\"\n", models.ManagerPip},
		{"uv", "[project]\nname = \"x\"\n\n[tool.uv]\ndev-dependencies = []\n", models.ManagerUV},
		{"poetry", "[tool.poetry]\nname = \"x\"\n", models.ManagerPoetry},
		{"uv beats poetry", "[tool.uv]\n\n[tool.poetry]\nname = \"x\"\n", models.ManagerUV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, _ := InspectPyproject([]byte(tt.content))
			assert.Equal(t, tt.want, manager)
		})
	}
}

func TestInspectPyprojectFirstScriptWins(t *testing.T) {
	content := `[project]
name = "demo"

[project.scripts]
primary = "demo:main"
secondary = "demo:alt"
`
	_, script := InspectPyproject([]byte(content))
	assert.Equal(t, []string{"primary"}, script)
}

func TestInspectPyprojectEntryPointsFallback(t *testing.T) {
	content := `[project]
name = "demo"

[project.entry-points.console_scripts]
demo-cli = "demo.cli:main"
`
	_, script := InspectPyproject([]byte(content))
	assert.Equal(t, []string{"demo-cli"}, script)
}

func TestInspectPyprojectScriptsBeatEntryPoints(t *testing.T) {
	content := `[project]
name = "demo"

[project.entry-points.console_scripts]
ep-cli = "demo.cli:main"

[project.scripts]
script-cli = "demo:main"
`
	_, script := InspectPyproject([]byte(content))
	assert.Equal(t, []string{"script-cli"}, script)
}

func TestInspectPyprojectNoScripts(t *testing.T) {
	manager, script := InspectPyproject([]byte("[project]\nname = \"x\"\n"))
	assert.Equal(t, models.ManagerPip, manager)
	assert.Nil(t, script)
}

func TestInspectPyprojectInvalidTOML(t *testing.T) {
	manager, script := InspectPyproject([]byte("not [valid toml"))
	assert.Equal(t, models.ManagerPip, manager)
	assert.Nil(t, script)
}
