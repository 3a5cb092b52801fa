package detect

// InferenceFailure distinguishes why startup-command resolution failed.
type InferenceFailure int

const (
	// FailureDockerOnly means the README declared only docker-launched
	// servers, which cannot serve as a container entrypoint.
	FailureDockerOnly InferenceFailure = iota + 1
	// FailureUnparseable means commands were present but none parsed into
	// a usable argv.
	FailureUnparseable
	// FailureNoCommand means no source yielded a startup command at all.
	FailureNoCommand
)

// InferenceError is returned when no startup command could be resolved
// through any precedence tier. Its message always carries an actionable
// command_override example.
type InferenceError struct {
	Failure InferenceFailure
}

func (e *InferenceError) Error() string {
	switch e.Failure {
	case FailureDockerOnly:
		return "README contains only Docker commands for MCP server configuration. " +
			"Provide a command_override in your configuration to specify how to run " +
			"the MCP server directly (without Docker). Example:\n" +
			"build:\n" +
			"  command_override:\n" +
			"    - \"python\"\n" +
			"    - \"-m\"\n" +
			"    - \"your_server_module\""
	case FailureUnparseable:
		return "could not parse MCP server commands from README. " +
			"Provide a command_override in your configuration. Example:\n" +
			"build:\n" +
			"  command_override:\n" +
			"    - \"python\"\n" +
			"    - \"server.py\""
	default:
		return "could not detect MCP server startup command from README or project files. " +
			"Provide a command_override in your configuration to specify how to run " +
			"the MCP server. Example:\n" +
			"build:\n" +
			"  command_override:\n" +
			"    - \"python\"\n" +
			"    - \"-m\"\n" +
			"    - \"your_server_module\""
	}
}
