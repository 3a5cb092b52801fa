package dockerfile

// entrypointPrefix is the fixed mcp-proxy launcher invocation every
// container starts with.
var entrypointPrefix = []string{"mcp-proxy", "--debug", "--port", "8000", "--shell"}

// defaultServerCommand is appended when no start command was resolved.
var defaultServerCommand = []string{"python", "-m", "server"}

// ComposeEntrypoint wraps a resolved start command in the mcp-proxy launcher
// invocation. A multi-token command is split as <program> -- <args> so the
// launcher can tell its own flags from the wrapped program's. Pure: the
// input slice is never modified.
func ComposeEntrypoint(startCommand []string) []string {
	out := make([]string, 0, len(entrypointPrefix)+len(startCommand)+1)
	out = append(out, entrypointPrefix...)

	switch {
	case len(startCommand) == 0:
		return append(out, defaultServerCommand...)
	case len(startCommand) == 1:
		return append(out, startCommand[0])
	default:
		out = append(out, startCommand[0], "--")
		return append(out, startCommand[1:]...)
	}
}
