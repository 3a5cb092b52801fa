package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromSetupPy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "setup.py", `setup(
    entry_points={
        'console_scripts': [
            'first-server=pkg.cli:main',
            'second-server=pkg.cli:alt',
        ],
    },
)
`)
	assert.Equal(t, []string{"first-server"}, ExtractFromSetupPy(dir))
}

func TestExtractFromSetupPyNoEntryPoints(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "setup.py", "setup(name='pkg')\n")
	assert.Nil(t, ExtractFromSetupPy(dir))
}

func TestExtractFromSetupPyMissingFile(t *testing.T) {
	assert.Nil(t, ExtractFromSetupPy(t.TempDir()))
}
