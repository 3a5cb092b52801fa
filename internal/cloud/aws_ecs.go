package cloud

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/sirupsen/logrus"
)

//go:embed templates/ecs-service.yaml.tmpl
var cfTemplates embed.FS

const stackWaitTimeout = 15 * time.Minute

// ecsDeployer provisions an ECS Fargate service behind an ALB through a
// CloudFormation stack named mcp-server-{service}.
type ecsDeployer struct {
	region string
}

type stackParams struct {
	ServiceName    string
	ClusterName    string
	ImageURI       string
	Port           int
	CPU            int
	Memory         int
	VPCID          string
	ALBSubnetIDs   []string
	ECSSubnetIDs   []string
	CertificateARN string
	Environment    map[string]string
}

func (d *ecsDeployer) client(ctx context.Context) (*cloudformation.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(d.region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS credentials: %w", err)
	}
	return cloudformation.NewFromConfig(cfg), nil
}

func stackName(serviceName string) string {
	return "mcp-server-" + serviceName
}

func (d *ecsDeployer) Deploy(ctx context.Context, req DeployRequest) (*DeploymentResult, error) {
	if req.AWS == nil {
		return nil, fmt.Errorf("aws deployment configuration is missing")
	}

	body, err := renderStackTemplate(stackParams{
		ServiceName:    req.ServiceName,
		ClusterName:    req.AWS.ClusterName,
		ImageURI:       req.ImageURI,
		Port:           req.Port,
		CPU:            req.CPU,
		Memory:         req.Memory,
		VPCID:          req.AWS.VPCID,
		ALBSubnetIDs:   req.AWS.ALBSubnetIDs,
		ECSSubnetIDs:   req.AWS.ECSSubnetIDs,
		CertificateARN: req.AWS.CertificateARN,
		Environment:    req.EnvironmentVariables,
	})
	if err != nil {
		return nil, err
	}

	client, err := d.client(ctx)
	if err != nil {
		return nil, err
	}

	name := stackName(req.ServiceName)
	if err := d.applyStack(ctx, client, name, body); err != nil {
		return nil, err
	}

	url, err := d.stackServiceURL(ctx, client, name)
	if err != nil {
		return nil, err
	}
	return &DeploymentResult{ServiceURL: url, ServiceName: req.ServiceName}, nil
}

// applyStack creates the stack, falling back to an update when it already
// exists. "No updates are to be performed" from CloudFormation is success.
func (d *ecsDeployer) applyStack(ctx context.Context, client *cloudformation.Client, name, body string) error {
	logrus.WithField("stack", name).Info("deploying CloudFormation stack")

	_, err := client.CreateStack(ctx, &cloudformation.CreateStackInput{
		StackName:    aws.String(name),
		TemplateBody: aws.String(body),
		Capabilities: []cftypes.Capability{cftypes.CapabilityCapabilityNamedIam},
	})
	if err == nil {
		waiter := cloudformation.NewStackCreateCompleteWaiter(client)
		return waitErr(waiter.Wait(ctx, describeInput(name), stackWaitTimeout), name)
	}

	var exists *cftypes.AlreadyExistsException
	if !errors.As(err, &exists) {
		return fmt.Errorf("creating stack %s: %w", name, err)
	}

	_, err = client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
		StackName:    aws.String(name),
		TemplateBody: aws.String(body),
		Capabilities: []cftypes.Capability{cftypes.CapabilityCapabilityNamedIam},
	})
	if err != nil {
		if strings.Contains(err.Error(), "No updates are to be performed") {
			logrus.WithField("stack", name).Info("stack is already up to date")
			return nil
		}
		return fmt.Errorf("updating stack %s: %w", name, err)
	}
	waiter := cloudformation.NewStackUpdateCompleteWaiter(client)
	return waitErr(waiter.Wait(ctx, describeInput(name), stackWaitTimeout), name)
}

func (d *ecsDeployer) ServiceURL(ctx context.Context, serviceName string) (string, error) {
	client, err := d.client(ctx)
	if err != nil {
		return "", err
	}
	return d.stackServiceURL(ctx, client, stackName(serviceName))
}

func (d *ecsDeployer) stackServiceURL(ctx context.Context, client *cloudformation.Client, name string) (string, error) {
	out, err := client.DescribeStacks(ctx, describeInput(name))
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return "", fmt.Errorf("service stack %s not found", name)
		}
		return "", fmt.Errorf("describing stack %s: %w", name, err)
	}
	if len(out.Stacks) == 0 {
		return "", fmt.Errorf("service stack %s not found", name)
	}
	for _, o := range out.Stacks[0].Outputs {
		if aws.ToString(o.OutputKey) == "ALBUrl" {
			return aws.ToString(o.OutputValue), nil
		}
	}
	return "", fmt.Errorf("ALB URL not found in outputs of stack %s", name)
}

func (d *ecsDeployer) Delete(ctx context.Context, serviceName string) error {
	client, err := d.client(ctx)
	if err != nil {
		return err
	}
	name := stackName(serviceName)
	if _, err := client.DeleteStack(ctx, &cloudformation.DeleteStackInput{StackName: aws.String(name)}); err != nil {
		return fmt.Errorf("deleting stack %s: %w", name, err)
	}
	waiter := cloudformation.NewStackDeleteCompleteWaiter(client)
	return waitErr(waiter.Wait(ctx, describeInput(name), stackWaitTimeout), name)
}

func describeInput(name string) *cloudformation.DescribeStacksInput {
	return &cloudformation.DescribeStacksInput{StackName: aws.String(name)}
}

func waitErr(err error, name string) error {
	if err != nil {
		return fmt.Errorf("waiting for stack %s: %w (inspect events with: aws cloudformation describe-stack-events --stack-name %s)", name, err, name)
	}
	return nil
}

func renderStackTemplate(params stackParams) (string, error) {
	tmpl, err := template.ParseFS(cfTemplates, "templates/ecs-service.yaml.tmpl")
	if err != nil {
		return "", fmt.Errorf("loading CloudFormation template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("rendering CloudFormation template: %w", err)
	}
	return buf.String(), nil
}
