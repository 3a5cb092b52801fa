// Package build orchestrates one build invocation: fetch source, resolve
// the package descriptor, render the Dockerfile, build the image and
// optionally push it to the provider's registry. Each invocation owns an
// exclusive temporary directory; nothing is shared between builds.
package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/democodex/mcp-server-automation/internal/cloud"
	"github.com/democodex/mcp-server-automation/internal/config"
	"github.com/democodex/mcp-server-automation/internal/detect"
	"github.com/democodex/mcp-server-automation/internal/docker"
	"github.com/democodex/mcp-server-automation/internal/dockerfile"
	"github.com/democodex/mcp-server-automation/internal/models"
	"github.com/democodex/mcp-server-automation/internal/naming"
	"github.com/democodex/mcp-server-automation/internal/source"
)

// Pipeline runs builds. Construct with New; the Clock indirection exists
// for tag determinism in tests.
type Pipeline struct {
	Fetcher *source.Fetcher
	Docker  *docker.Client
	Clock   func() time.Time
}

func New() *Pipeline {
	return &Pipeline{
		Fetcher: source.NewFetcher(),
		Docker:  &docker.Client{},
		Clock:   time.Now,
	}
}

// Result reports what a build produced.
type Result struct {
	ImageURI string
	LocalTag string
	Package  *models.PackageInfo
	Pushed   bool
}

// Run executes the build described by cfg. The provider is only consulted
// when push_to_registry is set.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config, provider cloud.Provider) (*Result, error) {
	b := cfg.Build

	if !p.Docker.Available() {
		return nil, fmt.Errorf("docker is not running or not installed; start Docker and try again")
	}

	workDir, err := os.MkdirTemp("", "mcp-build-*")
	if err != nil {
		return nil, fmt.Errorf("creating build workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	req := detect.Request{
		CommandOverride:      b.CommandOverride,
		EnvironmentVariables: b.EnvironmentVariables,
	}
	sourceDir := ""
	if b.Entrypoint != nil {
		req.EntrypointCommand = b.Entrypoint.Command
		req.EntrypointArgs = b.Entrypoint.Args
	} else {
		sourceDir, err = p.Fetcher.Fetch(ctx, b.GitHub.URL, b.GitHub.Subfolder, b.GitHub.Branch, workDir)
		if err != nil {
			return nil, err
		}
		req.SourceDir = sourceDir
		req.GitHubURL = b.GitHub.URL
		req.Subfolder = b.GitHub.Subfolder
		req.Branch = b.GitHub.Branch
	}

	info, err := detect.Resolve(req)
	if err != nil {
		return nil, err
	}

	content, err := dockerfile.Generate(info, b.DockerfilePath)
	if err != nil {
		return nil, err
	}

	contextDir := filepath.Join(workDir, "context")
	if err := os.MkdirAll(contextDir, 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(contextDir, "Dockerfile"), []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("writing Dockerfile: %w", err)
	}
	if sourceDir != "" {
		if err := copyTree(sourceDir, filepath.Join(contextDir, "mcp-server")); err != nil {
			return nil, fmt.Errorf("staging server source: %w", err)
		}
	}

	imageName := p.imageName(b)
	tag := p.imageTag(ctx, b)
	localTag := "mcp-local/" + imageName + ":" + tag

	if err := p.Docker.Build(ctx, contextDir, localTag, b.Architecture); err != nil {
		return nil, err
	}

	if !b.PushToRegistry {
		logrus.WithField("tag", localTag).Info("skipping registry push; image built locally")
		return &Result{ImageURI: localTag, LocalTag: localTag, Package: info}, nil
	}

	remoteTag, repoPath, err := p.remoteTag(ctx, b, provider, imageName, tag)
	if err != nil {
		return nil, err
	}
	if err := provider.Registry().EnsureRepository(ctx, repoPath); err != nil {
		return nil, err
	}
	pushed, err := provider.Registry().PushImage(ctx, remoteTag, localTag)
	if err != nil {
		return nil, err
	}
	return &Result{ImageURI: pushed.ImageURI, LocalTag: localTag, Package: info, Pushed: true}, nil
}

func (p *Pipeline) imageName(b *config.BuildConfig) string {
	if b.Image != nil && b.Image.Repository != "" {
		repo := b.Image.Repository
		return repo[strings.LastIndex(repo, "/")+1:]
	}
	if b.Entrypoint != nil {
		return naming.ImageNameFromCommand(b.Entrypoint.Command, b.Entrypoint.Args)
	}
	return naming.ImageName(b.GitHub.URL, b.GitHub.Subfolder)
}

func (p *Pipeline) imageTag(ctx context.Context, b *config.BuildConfig) string {
	if b.Image != nil && b.Image.Tag != "" {
		return b.Image.Tag
	}
	if b.Entrypoint != nil {
		return naming.StaticTag(p.Clock())
	}
	commit := p.Fetcher.CommitSHA(ctx, b.GitHub.URL, b.GitHub.Branch)
	return naming.DynamicTag(commit, b.GitHub.Branch, p.Clock())
}

// remoteTag builds the registry-qualified tag and the repository path that
// must exist before pushing. An explicit image.repository wins over the
// derived registry layout.
func (p *Pipeline) remoteTag(ctx context.Context, b *config.BuildConfig, provider cloud.Provider, imageName, tag string) (remote, repoPath string, err error) {
	if b.Image != nil && b.Image.Repository != "" {
		repo := b.Image.Repository
		repoPath = repo
		if idx := strings.Index(repo, "/"); idx >= 0 {
			repoPath = repo[idx+1:]
		}
		return repo + ":" + tag, repoPath, nil
	}

	registryURL, err := provider.Registry().RegistryURL(ctx)
	if err != nil {
		return "", "", err
	}
	repoPath = b.Registry.RepositoryName + "/" + imageName
	return registryURL + "/" + repoPath + ":" + tag, repoPath, nil
}

func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, target, fi.Mode().Perm())
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0o600)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}
