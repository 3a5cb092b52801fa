// Package source fetches MCP server code from GitHub as an extracted
// archive tree. Retrieval never clones: repositories arrive as zip archives
// the same way a browser download would.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-github/v32/github"
	"github.com/sirupsen/logrus"
)

// Fetcher downloads and extracts GitHub repository archives. The zero
// value is not usable; construct with NewFetcher.
type Fetcher struct {
	httpClient *http.Client
	github     *github.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		github:     github.NewClient(nil),
	}
}

// NewFetcherWithClients is used by tests to point the fetcher at stub
// servers.
func NewFetcherWithClients(httpClient *http.Client, gh *github.Client) *Fetcher {
	return &Fetcher{httpClient: httpClient, github: gh}
}

// ParseRepo validates a GitHub URL and splits it into owner and repository
// name. A trailing ".git" suffix is tolerated.
func ParseRepo(githubURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSuffix(githubURL, ".git")
	const prefix = "https://github.com/"
	if !strings.HasPrefix(trimmed, prefix) {
		return "", "", fmt.Errorf("invalid GitHub URL %q: must start with %s", githubURL, prefix)
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(trimmed, prefix), "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GitHub URL %q: expected %sowner/repo", githubURL, prefix)
	}
	return parts[0], parts[1], nil
}

// Fetch downloads the repository archive for the given branch (default
// "main"), extracts it under workDir and returns the server path, honoring
// an optional subfolder. A missing subfolder is fatal: there is nothing
// sensible to build.
func (f *Fetcher) Fetch(ctx context.Context, githubURL, subfolder, branch, workDir string) (string, error) {
	owner, repo, err := ParseRepo(githubURL)
	if err != nil {
		return "", err
	}

	branchName := branch
	if branchName == "" {
		branchName = "main"
	}
	archiveURL := fmt.Sprintf(
		"https://github.com/%s/%s/archive/refs/heads/%s.zip",
		owner, repo, url.PathEscape(branchName),
	)
	logrus.WithFields(logrus.Fields{"url": githubURL, "branch": branchName}).
		Info("fetching MCP server")

	zipPath := filepath.Join(workDir, "repo.zip")
	if err := f.download(ctx, archiveURL, zipPath); err != nil {
		return "", fmt.Errorf("downloading %s: %w (check that the repository and branch exist and are public)", archiveURL, err)
	}

	if err := Unzip(zipPath, workDir); err != nil {
		return "", fmt.Errorf("extracting repository archive: %w", err)
	}

	repoDir, err := extractedDir(workDir)
	if err != nil {
		return "", err
	}

	serverPath := repoDir
	if subfolder != "" {
		serverPath = filepath.Join(repoDir, filepath.Clean(subfolder))
		if _, err := os.Stat(serverPath); err != nil {
			return "", fmt.Errorf("subfolder %q not found in repository", subfolder)
		}
	}
	return serverPath, nil
}

// CommitSHA looks up the 8-hex short hash of the branch head (or the
// default-branch HEAD when branch is empty). Any failure degrades to
// "nocommit" rather than failing the build: the tag's real uniqueness
// source is the timestamp.
func (f *Fetcher) CommitSHA(ctx context.Context, githubURL, branch string) string {
	owner, repo, err := ParseRepo(githubURL)
	if err != nil {
		return "nocommit"
	}
	ref := branch
	if ref == "" {
		ref = "HEAD"
	}
	sha, _, err := f.github.Repositories.GetCommitSHA1(ctx, owner, repo, ref, "")
	if err != nil || len(sha) < 8 {
		logrus.WithError(err).WithField("repo", owner+"/"+repo).
			Debug("commit lookup failed, using nocommit")
		return "nocommit"
	}
	return sha[:8]
}

func (f *Fetcher) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}

// extractedDir finds the single top-level directory the archive extracted
// to. GitHub archives always wrap the tree in {repo}-{ref}/.
func extractedDir(workDir string) (string, error) {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() && e.Name() != "__pycache__" {
			return filepath.Join(workDir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no directory found in extracted archive")
}
