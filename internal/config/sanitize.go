package config

import (
	"fmt"
	"regexp"

	shellwords "github.com/mattn/go-shellwords"
	"gopkg.in/yaml.v3"
)

var (
	dangerousChars = regexp.MustCompile("[<>&\"';`$(){}\\[\\]]")
	envVarName     = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)
	githubURLRe    = regexp.MustCompile(`^https://github\.com/[\w\-.]+/[\w\-.]+/?$`)
)

// sanitizeString strips shell metacharacters from untrusted configuration
// values before they reach a rendered Dockerfile or a CLI invocation.
func sanitizeString(value string) string {
	return dangerousChars.ReplaceAllString(value, "")
}

// sanitizeEnvVars drops entries whose key is not a valid environment
// variable name and sanitizes the values.
func sanitizeEnvVars(vars map[string]string) map[string]string {
	if vars == nil {
		return nil
	}
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		if !envVarName.MatchString(k) {
			continue
		}
		out[k] = sanitizeString(v)
	}
	return out
}

func validateGitHubURL(url string) error {
	if url == "" {
		return fmt.Errorf("github.github_url is required")
	}
	trimmed := url
	if len(trimmed) > 4 && trimmed[len(trimmed)-4:] == ".git" {
		trimmed = trimmed[:len(trimmed)-4]
	}
	if !githubURLRe.MatchString(trimmed) {
		return fmt.Errorf("invalid GitHub URL format: %s", url)
	}
	return nil
}

// CommandList accepts either a YAML sequence of argv tokens or a single
// shell-style string, which is split with shell word rules.
type CommandList []string

func (c *CommandList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*c = list
		return nil
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		words, err := shellwords.Parse(s)
		if err != nil {
			return fmt.Errorf("parsing command_override %q: %w", s, err)
		}
		*c = words
		return nil
	default:
		return fmt.Errorf("command_override must be a string or a list of strings")
	}
}
