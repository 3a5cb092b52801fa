package cloud

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecr"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecr/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/sirupsen/logrus"

	"github.com/democodex/mcp-server-automation/internal/docker"
)

type awsProvider struct {
	registry *ecrRegistry
	deployer *ecsDeployer
}

func newAWSProvider(region string, dock *docker.Client) *awsProvider {
	return &awsProvider{
		registry: &ecrRegistry{region: region, docker: dock},
		deployer: &ecsDeployer{region: region},
	}
}

func (p *awsProvider) Name() string { return "aws" }

func (p *awsProvider) Registry() RegistryOperations { return p.registry }

func (p *awsProvider) Deployer() DeploymentOperations { return p.deployer }

// ecrRegistry implements registry operations against Amazon ECR. Clients
// are constructed per operation from the ambient credential chain, never
// held as process-wide state.
type ecrRegistry struct {
	region string
	docker *docker.Client
}

func (r *ecrRegistry) awsConfig(ctx context.Context) (aws.Config, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(r.region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS credentials: %w (configure with: aws configure, or set AWS_PROFILE)", err)
	}
	return cfg, nil
}

func (r *ecrRegistry) RegistryURL(ctx context.Context) (string, error) {
	cfg, err := r.awsConfig(ctx)
	if err != nil {
		return "", err
	}
	ident, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("resolving AWS account ID: %w (verify access with: aws sts get-caller-identity)", err)
	}
	return fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com", aws.ToString(ident.Account), r.region), nil
}

func (r *ecrRegistry) EnsureRepository(ctx context.Context, name string) error {
	cfg, err := r.awsConfig(ctx)
	if err != nil {
		return err
	}
	client := ecr.NewFromConfig(cfg)

	_, err = client.DescribeRepositories(ctx, &ecr.DescribeRepositoriesInput{
		RepositoryNames: []string{name},
	})
	if err == nil {
		logrus.WithField("repository", name).Debug("ECR repository already exists")
		return nil
	}
	var notFound *ecrtypes.RepositoryNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describing ECR repository %s: %w", name, err)
	}

	logrus.WithField("repository", name).Info("creating ECR repository")
	_, err = client.CreateRepository(ctx, &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(name),
		ImageScanningConfiguration: &ecrtypes.ImageScanningConfiguration{
			ScanOnPush: true,
		},
		EncryptionConfiguration: &ecrtypes.EncryptionConfiguration{
			EncryptionType: ecrtypes.EncryptionTypeAes256,
		},
	})
	if err != nil {
		return fmt.Errorf("creating ECR repository %s: %w (requires the ecr:CreateRepository permission)", name, err)
	}
	return nil
}

func (r *ecrRegistry) PushImage(ctx context.Context, remoteTag, localTag string) (*RegistryResult, error) {
	cfg, err := r.awsConfig(ctx)
	if err != nil {
		return nil, err
	}
	client := ecr.NewFromConfig(cfg)

	token, err := client.GetAuthorizationToken(ctx, &ecr.GetAuthorizationTokenInput{})
	if err != nil {
		return nil, fmt.Errorf("getting ECR authorization token: %w", err)
	}
	if len(token.AuthorizationData) == 0 {
		return nil, fmt.Errorf("ECR returned no authorization data")
	}
	auth := token.AuthorizationData[0]

	decoded, err := base64.StdEncoding.DecodeString(aws.ToString(auth.AuthorizationToken))
	if err != nil {
		return nil, fmt.Errorf("decoding ECR authorization token: %w", err)
	}
	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return nil, fmt.Errorf("malformed ECR authorization token")
	}
	endpoint := strings.TrimPrefix(aws.ToString(auth.ProxyEndpoint), "https://")

	if err := r.docker.Login(ctx, endpoint, username, password); err != nil {
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
	if idx := strings.Index(repoName, "/"); idx >= 0 {
		repoName = repoName[idx+1:]
	}

	return &RegistryResult{
		ImageURI:       remoteTag,
		RegistryURL:    endpoint,
		RepositoryName: repoName,
	}, nil
}
