package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/democodex/mcp-server-automation/internal/config"
	"github.com/democodex/mcp-server-automation/internal/docker"
)

// gcpDeployDefaults mirrors the documented Cloud Run defaults, used when
// the deploy section carries no gcp block.
var gcpDeployDefaults = config.GCPDeployConfig{
	AllowUnauthenticated: true,
	MaxInstances:         10,
	CPULimit:             "1000m",
	MemoryLimit:          "512Mi",
	Ingress:              "all",
}

// The GCP provider drives the gcloud CLI rather than the Cloud SDK: the
// registry and Cloud Run surfaces are one command each, and gcloud owns
// credential refresh and project configuration.

type gcpProvider struct {
	registry *artifactRegistry
	deployer *cloudRunDeployer
}

func newGCPProvider(region, projectID string, dock *docker.Client) *gcpProvider {
	return &gcpProvider{
		registry: &artifactRegistry{region: region, projectID: projectID, docker: dock},
		deployer: &cloudRunDeployer{region: region, projectID: projectID},
	}
}

func (p *gcpProvider) Name() string { return "gcp" }

func (p *gcpProvider) Registry() RegistryOperations { return p.registry }

func (p *gcpProvider) Deployer() DeploymentOperations { return p.deployer }

func gcloud(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "gcloud", args...).CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("gcloud %s failed: %v\n%s\nVerify setup with: gcloud auth login && gcloud config set project <project>",
			strings.Join(args[:min(3, len(args))], " "), err, out)
	}
	return out, nil
}

type artifactRegistry struct {
	region    string
	projectID string
	docker    *docker.Client
}

func (r *artifactRegistry) host() string {
	return r.region + "-docker.pkg.dev"
}

func (r *artifactRegistry) RegistryURL(ctx context.Context) (string, error) {
	return r.host() + "/" + r.projectID, nil
}

func (r *artifactRegistry) EnsureRepository(ctx context.Context, name string) error {
	// Artifact Registry repositories are flat; only the first path segment
	// names the repository.
	repo := name
	if idx := strings.Index(repo, "/"); idx >= 0 {
		repo = repo[:idx]
	}

	_, err := gcloud(ctx, "artifacts", "repositories", "describe", repo,
		"--location", r.region, "--project", r.projectID)
	if err == nil {
		logrus.WithField("repository", repo).Debug("Artifact Registry repository already exists")
		return nil
	}

	logrus.WithField("repository", repo).Info("creating Artifact Registry repository")
	_, err = gcloud(ctx, "artifacts", "repositories", "create", repo,
		"--repository-format", "docker",
		"--location", r.region, "--project", r.projectID)
	return err
}

func (r *artifactRegistry) PushImage(ctx context.Context, remoteTag, localTag string) (*RegistryResult, error) {
	if _, err := gcloud(ctx, "auth", "configure-docker", r.host(), "--quiet"); err != nil {
		return nil, err
	}
	if err := r.docker.Tag(ctx, localTag, remoteTag); err != nil {
		return nil, err
	}
	if err := r.docker.Push(ctx, remoteTag); err != nil {
		return nil, err
	}

	repoName := remoteTag
	if idx := strings.LastIndex(repoName, ":"); idx >= 0 {
		repoName = repoName[:idx]
	}
	return &RegistryResult{
		ImageURI:       remoteTag,
		RegistryURL:    r.host(),
		RepositoryName: strings.TrimPrefix(repoName, r.host()+"/"),
	}, nil
}

type cloudRunDeployer struct {
	region    string
	projectID string
}

func (d *cloudRunDeployer) Deploy(ctx context.Context, req DeployRequest) (*DeploymentResult, error) {
	gcp := req.GCP
	if gcp == nil {
		defaults := gcpDeployDefaults
		gcp = &defaults
	}

	args := []string{
		"run", "deploy", req.ServiceName,
		"--image", req.ImageURI,
		"--region", d.region,
		"--project", d.projectID,
		"--port", strconv.Itoa(req.Port),
		"--platform", "managed",
		"--cpu", gcp.CPULimit,
		"--memory", gcp.MemoryLimit,
		"--max-instances", strconv.Itoa(gcp.MaxInstances),
		"--ingress", gcp.Ingress,
		"--format", "json",
	}
	if gcp.AllowUnauthenticated {
		args = append(args, "--allow-unauthenticated")
	}
	for _, kv := range sortedEnv(req.EnvironmentVariables) {
		args = append(args, "--set-env-vars", kv)
	}

	logrus.WithField("service", req.ServiceName).Info("deploying to Cloud Run")
	out, err := gcloud(ctx, args...)
	if err != nil {
		return nil, err
	}

	var deployed struct {
		Status struct {
			URL string `json:"url"`
		} `json:"status"`
	}
	url := ""
	if jsonErr := json.Unmarshal(out, &deployed); jsonErr == nil {
		url = deployed.Status.URL
	}
	if url == "" {
		url, err = d.ServiceURL(ctx, req.ServiceName)
		if err != nil {
			return nil, err
		}
	}
	return &DeploymentResult{ServiceURL: url, ServiceName: req.ServiceName}, nil
}

func (d *cloudRunDeployer) ServiceURL(ctx context.Context, serviceName string) (string, error) {
	out, err := gcloud(ctx, "run", "services", "describe", serviceName,
		"--region", d.region, "--project", d.projectID,
		"--platform", "managed", "--format", "value(status.url)")
	if err != nil {
		return "", err
	}
	url := strings.TrimSpace(string(out))
	if url == "" {
		return "", fmt.Errorf("cloud run service %s has no URL yet", serviceName)
	}
	return url, nil
}

func (d *cloudRunDeployer) Delete(ctx context.Context, serviceName string) error {
	_, err := gcloud(ctx, "run", "services", "delete", serviceName,
		"--region", d.region, "--project", d.projectID,
		"--platform", "managed", "--quiet")
	return err
}

// sortedEnv renders env vars as KEY=value pairs in stable order so repeated
// deploys produce identical gcloud invocations.
func sortedEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
