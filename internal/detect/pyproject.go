package detect

import (
	"github.com/BurntSushi/toml"

	"github.com/democodex/mcp-server-automation/internal/models"
)

// InspectPyproject classifies the Python package manager from a
// pyproject.toml and extracts the first declared console script, if any.
// Manager classification: a [tool.uv] table means uv, else [tool.poetry]
// means poetry, else pip. The script lookup honors declaration order, first
// checking [project.scripts] and then
// [project.entry-points.console_scripts].
func InspectPyproject(content []byte) (models.Manager, []string) {
	var doc map[string]interface{}
	md, err := toml.Decode(string(content), &doc)
	if err != nil {
		return models.ManagerPip, nil
	}

	manager := models.ManagerPip
	if md.IsDefined("tool", "uv") {
		manager = models.ManagerUV
	} else if md.IsDefined("tool", "poetry") {
		manager = models.ManagerPoetry
	}

	if script := firstKeyUnder(md, "project", "scripts"); script != "" {
		return manager, []string{script}
	}
	if script := firstKeyUnder(md, "project", "entry-points", "console_scripts"); script != "" {
		return manager, []string{script}
	}
	return manager, nil
}

// firstKeyUnder returns the first key declared directly under the given
// table path. toml.MetaData reports keys in document order, which is what
// makes "first script wins" deterministic.
func firstKeyUnder(md toml.MetaData, path ...string) string {
	for _, key := range md.Keys() {
		if len(key) != len(path)+1 {
			continue
		}
		match := true
		for i, p := range path {
			if key[i] != p {
				match = false
				break
			}
		}
		if match {
			return key[len(path)]
		}
	}
	return ""
}
