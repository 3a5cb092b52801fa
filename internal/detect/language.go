package detect

import (
	"os"
	"strings"

	"github.com/democodex/mcp-server-automation/internal/models"
)

var nodeCommands = map[string]bool{
	"npx": true, "npm": true, "node": true, "yarn": true, "pnpm": true,
}

var pythonCommands = map[string]bool{
	"python": true, "python3": true, "pip": true, "uvx": true, "uv": true,
}

// ClassifyTree classifies a source tree as python or nodejs from its
// top-level file listing. The function is total: unrecognized trees are
// assumed to be Python.
func ClassifyTree(dir string) models.Language {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return models.LanguagePython
	}

	var (
		hasPackageJSON, hasTSConfig, hasTSFile bool
		hasPythonManifest, hasPyFile           bool
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch e.Name() {
		case "package.json":
			hasPackageJSON = true
		case "tsconfig.json":
			hasTSConfig = true
		case "requirements.txt", "pyproject.toml", "setup.py":
			hasPythonManifest = true
		}
		switch {
		case strings.HasSuffix(e.Name(), ".ts"):
			hasTSFile = true
		case strings.HasSuffix(e.Name(), ".py"):
			hasPyFile = true
		}
	}

	switch {
	case hasPackageJSON:
		return models.LanguageNode
	case hasTSConfig || hasTSFile:
		return models.LanguageNode
	case hasPythonManifest || hasPyFile:
		return models.LanguagePython
	default:
		return models.LanguagePython
	}
}

// ClassifyCommand classifies the runtime family from a bare command token,
// used in entrypoint mode where no source tree exists. NPM package
// references (leading "@") count as nodejs; unknown commands default to
// python.
func ClassifyCommand(command string) models.Language {
	switch {
	case nodeCommands[command]:
		return models.LanguageNode
	case strings.HasPrefix(command, "@"):
		return models.LanguageNode
	case pythonCommands[command]:
		return models.LanguagePython
	default:
		return models.LanguagePython
	}
}
