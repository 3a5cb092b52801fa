// Package docker drives the docker CLI for image builds and registry
// pushes. Buildx has no supported Go client API, so the CLI is the
// interface, with its output surfaced on failure.
package docker

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Client runs docker commands. The zero value is usable.
type Client struct{}

// Available reports whether a docker daemon is reachable.
func (c *Client) Available() bool {
	return exec.Command("docker", "info").Run() == nil
}

// Build runs a buildx build with --load so the result lands in the local
// image store. An empty platform builds for the host architecture.
func (c *Client) Build(ctx context.Context, contextDir, tag, platform string) error {
	args := []string{"buildx", "build", "--tag", tag, "--load"}
	if platform != "" {
		args = append(args, "--platform", platform)
	}
	args = append(args, contextDir)

	logrus.WithFields(logrus.Fields{"tag": tag, "platform": platform}).
		Info("building Docker image")

	out, err := exec.CommandContext(ctx, "docker", args...).CombinedOutput()
	if err != nil {
		return buildError(tag, platform, string(out), err)
	}
	logrus.WithField("tag", tag).Info("successfully built image")
	return nil
}

// buildError decorates a buildx failure with setup hints for the common
// missing-builder case.
func buildError(tag, platform, output string, err error) error {
	msg := fmt.Sprintf("docker buildx build failed for %s: %v\n%s", tag, err, output)
	if strings.Contains(strings.ToLower(output), "no builder instance") ||
		strings.Contains(strings.ToLower(output), "buildx") {
		msg += "\nTo enable multi-architecture builds, set up Docker Buildx:\n" +
			"  docker buildx create --name multiarch --use\n" +
			"  docker buildx inspect --bootstrap"
		if platform != "" && platform != "linux/amd64" {
			msg += "\n  docker run --privileged --rm tonistiigi/binfmt --install all"
		}
	}
	return fmt.Errorf("%s", msg)
}

// Login authenticates to a registry, passing the password on stdin so it
// never appears in the process table.
func (c *Client) Login(ctx context.Context, registry, username, password string) error {
	cmd := exec.CommandContext(ctx, "docker", "login",
		"--username", username, "--password-stdin", registry)
	cmd.Stdin = strings.NewReader(password)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("docker login to %s failed: %v\n%s", registry, err, out)
	}
	return nil
}

// Tag applies an additional tag to a local image.
func (c *Client) Tag(ctx context.Context, src, dst string) error {
	if out, err := exec.CommandContext(ctx, "docker", "tag", src, dst).CombinedOutput(); err != nil {
		return fmt.Errorf("docker tag %s -> %s failed: %v\n%s", src, dst, err, out)
	}
	return nil
}

// Push pushes a tagged image to its registry.
func (c *Client) Push(ctx context.Context, tag string) error {
	logrus.WithField("tag", tag).Info("pushing image")
	out, err := exec.CommandContext(ctx, "docker", "push", tag).CombinedOutput()
	if err != nil {
		msg := fmt.Sprintf("docker push %s failed: %v\n%s", tag, err, out)
		lower := strings.ToLower(string(out))
		if strings.Contains(lower, "no basic auth credentials") ||
			strings.Contains(lower, "authentication required") {
			msg += "\nThis looks like an authentication issue; verify your registry credentials."
		}
		return fmt.Errorf("%s", msg)
	}
	logrus.WithField("tag", tag).Info("successfully pushed image")
	return nil
}
