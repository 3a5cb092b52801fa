package detect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/democodex/mcp-server-automation/internal/models"
)

// Request carries the inputs for one package resolution. Exactly one of
// SourceDir or EntrypointCommand is expected; mutual exclusion is enforced
// upstream at configuration-parse time.
type Request struct {
	// SourceDir is the fetched source tree. Empty in entrypoint mode.
	SourceDir string

	// CommandOverride, when set, is used verbatim as the start command.
	CommandOverride []string

	EnvironmentVariables map[string]string

	// GitHub source identity, recorded on the result for tagging and
	// troubleshooting output.
	GitHubURL string
	Subfolder string
	Branch    string

	// Raw entrypoint mode: a bare command plus args, no source tree.
	EntrypointCommand string
	EntrypointArgs    []string
}

// Resolve produces the build descriptor for one MCP server, applying the
// total precedence order: raw entrypoint > explicit override > embedded
// README config > manifest-declared entry point. It fails with an
// *InferenceError when no tier yields a command.
func Resolve(req Request) (*models.PackageInfo, error) {
	entrypointMode := req.EntrypointCommand != ""

	info := &models.PackageInfo{
		Manager:              models.ManagerPip,
		EnvironmentVariables: req.EnvironmentVariables,
		GitHubURL:            req.GitHubURL,
		Subfolder:            req.Subfolder,
		Branch:               req.Branch,
		EntrypointMode:       entrypointMode,
	}
	if info.EnvironmentVariables == nil {
		info.EnvironmentVariables = map[string]string{}
	}

	if entrypointMode {
		// Raw mode never touches the filesystem: the command token alone
		// determines the runtime family.
		info.Language = ClassifyCommand(req.EntrypointCommand)
		if info.Language == models.LanguageNode {
			info.Manager = models.ManagerNPM
		}
		info.StartCommand = append([]string{req.EntrypointCommand}, req.EntrypointArgs...)
		logrus.WithField("command", strings.Join(info.StartCommand, " ")).
			Info("using entrypoint command")
		return info, nil
	}

	info.Language = ClassifyTree(req.SourceDir)
	if info.Language == models.LanguageNode {
		info.Manager = models.ManagerNPM
	}

	if len(req.CommandOverride) > 0 {
		info.StartCommand = req.CommandOverride
		logrus.WithField("command", strings.Join(req.CommandOverride, " ")).
			Info("using command override")
	} else {
		scan := ExtractFromReadme(req.SourceDir)
		info.StartCommand = scan.Command
		if scan.Command == nil {
			if scan.SawDocker {
				return nil, &InferenceError{Failure: FailureDockerOnly}
			}
			if scan.SawAny {
				return nil, &InferenceError{Failure: FailureUnparseable}
			}
		}
	}

	switch info.Language {
	case models.LanguageNode:
		// Node projects rely on README commands only; package.json contents
		// are never mined for a start command.
		if exists(req.SourceDir, "package.json") {
			info.ProjectFile = "package.json"
			info.Manager = models.ManagerNPM
		}
	default:
		switch {
		case exists(req.SourceDir, "pyproject.toml"):
			content, err := os.ReadFile(filepath.Join(req.SourceDir, "pyproject.toml"))
			if err == nil {
				manager, script := InspectPyproject(content)
				info.Manager = manager
				info.ProjectFile = "pyproject.toml"
				if len(info.StartCommand) == 0 {
					info.StartCommand = script
				}
			}
		case exists(req.SourceDir, "requirements.txt"):
			info.RequirementsFile = "requirements.txt"
		case exists(req.SourceDir, "setup.py"):
			info.ProjectFile = "setup.py"
			if len(info.StartCommand) == 0 {
				info.StartCommand = ExtractFromSetupPy(req.SourceDir)
			}
		}
	}

	if len(info.StartCommand) == 0 {
		info.StartCommand = nil
		if len(req.CommandOverride) == 0 {
			return nil, &InferenceError{Failure: FailureNoCommand}
		}
	}

	return info, nil
}

func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
