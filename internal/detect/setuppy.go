package detect

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	consoleScriptsRe = regexp.MustCompile(`(?s)console_scripts.*?=.*?\[(.*?)\]`)
	scriptNameRe     = regexp.MustCompile(`["']([^"'=]+)\s*=`)
)

// ExtractFromSetupPy scans setup.py source text for a console_scripts
// entry-points list and returns the first script name. This is a textual
// scan on purpose: setup.py is never executed.
func ExtractFromSetupPy(dir string) []string {
	content, err := os.ReadFile(filepath.Join(dir, "setup.py"))
	if err != nil {
		return nil
	}

	m := consoleScriptsRe.FindSubmatch(content)
	if m == nil {
		return nil
	}
	name := scriptNameRe.FindSubmatch(m[1])
	if name == nil {
		return nil
	}
	script := strings.TrimSpace(string(name[1]))
	if script == "" {
		return nil
	}
	return []string{script}
}
