package detect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeNames is the fixed scan order for embedded-config extraction.
var readmeNames = []string{
	"README.md",
	"README.txt",
	"README.rst",
	"readme.md",
	"readme.txt",
}

// ReadmeScan is the outcome of scanning README files for an embedded MCP
// server launch command. The flags let callers distinguish "nothing found"
// from "only Docker found" from "found but unusable".
type ReadmeScan struct {
	Command   []string
	SawDocker bool
	SawAny    bool
}

// blockResult is the outcome of examining a single fenced JSON block:
// either a usable candidate, a skip (not MCP config, or only unusable
// entries), or a parse error. Docker/any observations accumulate across
// skipped blocks too.
type blockResult struct {
	candidate []string
	sawDocker bool
	sawAny    bool
	parseErr  error
}

type serverEntry struct {
	Command *string  `json:"command"`
	Args    []string `json:"args"`
}

// ExtractFromReadme scans the candidate README files in order and returns
// the first non-Docker launch command found in a fenced JSON block. Blocks
// are visited in document order, server entries in object key order. The
// first usable candidate short-circuits all remaining blocks and files.
// Unreadable or non-UTF8 files are skipped.
func ExtractFromReadme(dir string) ReadmeScan {
	var scan ReadmeScan

	for _, name := range readmeNames {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil || !utf8.Valid(content) {
			continue
		}

		for _, block := range jsonBlocks(content) {
			res := examineBlock(block)
			scan.SawDocker = scan.SawDocker || res.sawDocker
			scan.SawAny = scan.SawAny || res.sawAny
			if res.parseErr != nil {
				logrus.WithField("file", name).WithError(res.parseErr).
					Debug("skipping malformed JSON block")
				continue
			}
			if res.candidate != nil {
				logrus.WithField("command", strings.Join(res.candidate, " ")).
					Info("found MCP server command in README")
				scan.Command = res.candidate
				return scan
			}
		}
	}

	return scan
}

// jsonBlocks returns the raw text of every fenced code block tagged "json"
// (case-insensitive), in document order.
func jsonBlocks(source []byte) []string {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fc, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if !strings.EqualFold(string(fc.Language(source)), "json") {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		lines := fc.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(source))
		}
		blocks = append(blocks, buf.String())
		return ast.WalkContinue, nil
	})
	return blocks
}

// examineBlock inspects one fenced JSON block for MCP server launch
// commands. Docker-based commands are recorded but never returned: a docker
// launch inside the container would mean nested containerization.
func examineBlock(block string) blockResult {
	if !strings.Contains(block, "mcpServers") &&
		!(strings.Contains(block, "mcp") && strings.Contains(block, "servers")) {
		return blockResult{}
	}

	var parsed struct {
		MCPServers json.RawMessage `json:"mcpServers"`
		MCP        struct {
			Servers json.RawMessage `json:"servers"`
		} `json:"mcp"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return blockResult{parseErr: err}
	}

	servers := parsed.MCPServers
	if servers == nil {
		servers = parsed.MCP.Servers
	}
	if servers == nil {
		return blockResult{}
	}

	entries, err := orderedEntries(servers)
	if err != nil {
		return blockResult{parseErr: err}
	}

	var res blockResult
	for _, e := range entries {
		if e.Command == nil {
			continue
		}
		res.sawAny = true
		if *e.Command == "" {
			continue
		}
		if *e.Command == "docker" {
			res.sawDocker = true
			continue
		}
		res.candidate = append([]string{*e.Command}, e.Args...)
		return res
	}
	return res
}

// orderedEntries decodes a JSON object of server configurations preserving
// the key order of the document, which encoding/json maps would lose.
// Entries whose value is not an object are dropped.
func orderedEntries(obj json.RawMessage) ([]serverEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &json.UnmarshalTypeError{Value: "non-object server map"}
	}

	var out []serverEntry
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		var e serverEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
