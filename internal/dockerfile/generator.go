package dockerfile

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/democodex/mcp-server-automation/internal/models"
)

//go:embed templates/*.tmpl
var templates embed.FS

// Generate renders the container build recipe for a resolved package. A
// custom Dockerfile path, when given and present, wins over the templates.
// The language tag selects one of two fixed templates; anything unknown
// falls back to the python one.
func Generate(info *models.PackageInfo, customPath string) (string, error) {
	if customPath != "" {
		if content, err := os.ReadFile(customPath); err == nil {
			return string(content), nil
		}
	}

	info.EntrypointCommand = ComposeEntrypoint(info.StartCommand)

	lang := info.Language
	if lang != models.LanguageNode {
		lang = models.LanguagePython
	}

	name := fmt.Sprintf("templates/Dockerfile-%s.tmpl", lang)
	tmpl, err := template.New("dockerfile").Funcs(funcMap()).ParseFS(templates, name)
	if err != nil {
		return "", fmt.Errorf("loading dockerfile template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, fmt.Sprintf("Dockerfile-%s.tmpl", lang), info); err != nil {
		return "", fmt.Errorf("rendering dockerfile: %w", err)
	}
	return buf.String(), nil
}

// funcMap extends sprig with a strict JSON encoder. All untrusted values
// (start commands, env vars mined from READMEs and manifests) pass through
// json or quote so they cannot break out of the rendered instruction.
func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["json"] = func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}
	return fm
}
