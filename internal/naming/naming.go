// Package naming derives image names and collision-resistant tags from
// source identity. GitHub-sourced builds get a commit-addressed tag; raw
// entrypoint builds get a timestamp-only "static" tag since there is no
// stable source identity to hash.
package naming

import (
	"regexp"
	"strings"
	"time"
)

const timestampLayout = "20060102-150405"

var invalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// ImageName derives an image name from a GitHub repository URL, suffixed
// with the sanitized subfolder when one was specified.
func ImageName(githubURL, subfolder string) string {
	name := strings.TrimSuffix(githubURL, ".git")
	name = name[strings.LastIndex(name, "/")+1:]
	if subfolder != "" {
		part := strings.Trim(subfolder, "/")
		part = strings.ReplaceAll(part, "/", "-")
		name = name + "-" + part
	}
	return name
}

// ImageNameFromCommand derives an "mcp-" prefixed image name for entrypoint
// mode builds by extracting a package-like token from the argument list:
// the last non-flag argument, reduced to its path segment or the part
// before an inner "@" version suffix.
func ImageNameFromCommand(command string, args []string) string {
	token := packageToken(args)
	if token == "" {
		token = command
	}
	return "mcp-" + cleanName(token)
}

func packageToken(args []string) string {
	for i := len(args) - 1; i >= 0; i-- {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if strings.Contains(arg, "/") {
			return arg[strings.LastIndex(arg, "/")+1:]
		}
		if idx := strings.Index(arg, "@"); idx > 0 {
			return arg[:idx]
		}
		return arg
	}
	return ""
}

func cleanName(token string) string {
	s := strings.ReplaceAll(token, "@", "")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = invalidNameChars.ReplaceAllString(s, "")
	return strings.ToLower(s)
}

// StaticTag is the command-addressed tag regime: a timestamp is the only
// uniqueness source.
func StaticTag(now time.Time) string {
	return "static-" + now.Format(timestampLayout)
}

// DynamicTag is the source-addressed tag regime. The commit component is an
// 8-hex short hash, or the literal "nocommit" when the remote lookup was
// unavailable.
func DynamicTag(commit, branch string, now time.Time) string {
	if commit == "" {
		commit = "nocommit"
	}
	ts := now.Format(timestampLayout)
	if branch != "" {
		return commit + "-" + branch + "-" + ts
	}
	return commit + "-" + ts
}
