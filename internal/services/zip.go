// Package services hosts the zip-upload workflow behind the HTTP surface:
// unpack an uploaded server archive, resolve its package descriptor and
// render a Dockerfile, all without touching Docker or any registry.
package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/democodex/mcp-server-automation/internal/detect"
	"github.com/democodex/mcp-server-automation/internal/dockerfile"
	"github.com/democodex/mcp-server-automation/internal/models"
	"github.com/democodex/mcp-server-automation/internal/source"
)

type ZipProcessor struct{}

func NewZipProcessor() *ZipProcessor {
	return &ZipProcessor{}
}

// ProcessZip unpacks an uploaded archive into a scratch directory, runs
// command inference over it and returns the rendered Dockerfile.
func (zp *ZipProcessor) ProcessZip(zipData []byte) (*models.DockerfileResponse, error) {
	workDir, err := os.MkdirTemp("", "mcp-upload-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := source.UnzipBytes(zipData, workDir); err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	info, err := detect.Resolve(detect.Request{SourceDir: zp.serverRoot(workDir)})
	if err != nil {
		return nil, err
	}

	content, err := dockerfile.Generate(info, "")
	if err != nil {
		return nil, err
	}

	return &models.DockerfileResponse{
		Dockerfile: content,
		Package:    info,
		Success:    true,
	}, nil
}

// serverRoot descends into a single wrapping directory when the archive
// was created from a folder (the usual GitHub/Finder layout).
func (zp *ZipProcessor) serverRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}
