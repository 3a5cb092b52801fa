package models

// Language is the runtime family a server is packaged for.
type Language string

const (
	LanguagePython Language = "python"
	LanguageNode   Language = "nodejs"
)

// Manager identifies the package manager used to install dependencies.
type Manager string

const (
	ManagerPip    Manager = "pip"
	ManagerUV     Manager = "uv"
	ManagerPoetry Manager = "poetry"
	ManagerNPM    Manager = "npm"
)

// PackageInfo is the resolved build descriptor for one MCP server. It is
// produced once per build by detect.Resolve and consumed by the Dockerfile
// renderer; it is never mutated afterwards.
type PackageInfo struct {
	Language Language `json:"language"`
	Manager  Manager  `json:"manager"`

	// At most one of RequirementsFile / ProjectFile is set, depending on
	// which manifest was found first.
	RequirementsFile string `json:"requirements_file,omitempty"`
	ProjectFile      string `json:"project_file,omitempty"`

	// StartCommand is the literal argv that launches the MCP stdio server
	// inside the container. Empty means no command was resolved.
	StartCommand []string `json:"start_command,omitempty"`

	EnvironmentVariables map[string]string `json:"environment_variables,omitempty"`

	// Source identity: either a GitHub reference or a raw entrypoint
	// command, never both.
	GitHubURL string `json:"github_url,omitempty"`
	Subfolder string `json:"subfolder,omitempty"`
	Branch    string `json:"branch,omitempty"`

	EntrypointMode bool `json:"entrypoint_mode,omitempty"`

	// EntrypointCommand is the full mcp-proxy wrapper invocation. It is
	// always derived from StartCommand, never supplied by callers.
	EntrypointCommand []string `json:"entrypoint_command,omitempty"`
}

// DockerfileResponse is the HTTP surface's answer to a Dockerfile request.
type DockerfileResponse struct {
	Dockerfile string       `json:"dockerfile,omitempty"`
	Package    *PackageInfo `json:"package,omitempty"`
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
}
