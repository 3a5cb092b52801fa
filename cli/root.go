// Package cli wires the cobra command surface: the root build/deploy
// command and the serve subcommand.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/democodex/mcp-server-automation/internal/build"
	"github.com/democodex/mcp-server-automation/internal/cloud"
	"github.com/democodex/mcp-server-automation/internal/config"
	"github.com/democodex/mcp-server-automation/internal/docker"
)

var (
	configPath string
	flagPush   bool
	flagProv   string
	flagRegion string
	flagProj   string
	flagArch   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mcp-server-automation [flags] [-- command args...]",
	Short: "Build and deploy MCP servers as containers",
	Long: `Build MCP stdio servers into mcp-proxy wrapped container images and
optionally push them to a cloud registry and deploy them.

Two modes:
  --config config.yaml        YAML-driven build (and deploy when enabled)
  -- npx -y some-mcp-server   raw entrypoint command, no source tree`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		if configPath != "" && len(args) > 0 {
			return fmt.Errorf("--config and a trailing command are mutually exclusive")
		}
		if configPath == "" && len(args) == 0 {
			return cmd.Help()
		}

		cfg, err := resolveConfig(args)
		if err != nil {
			return err
		}
		return runPipeline(cmd, cfg)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// resolveConfig loads the YAML file, or assembles the same structure from
// CLI flags plus the trailing command. Both paths go through the shared
// defaulting and validation.
func resolveConfig(args []string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfg := &config.Config{
		Cloud: &config.CloudConfig{
			Provider:  flagProv,
			Region:    flagRegion,
			ProjectID: flagProj,
		},
		Build: &config.BuildConfig{
			Entrypoint: &config.EntrypointConfig{
				Command: args[0],
				Args:    args[1:],
			},
			PushToRegistry: flagPush,
			Architecture:   flagArch,
		},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPipeline(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	dock := &docker.Client{}

	provider, err := cloud.New(cfg.Cloud, dock)
	if err != nil {
		return err
	}

	pipeline := build.New()
	result, err := pipeline.Run(ctx, cfg, provider)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Image built: %s\n", result.ImageURI)
	if result.Pushed {
		fmt.Printf("📦 Pushed to %s registry\n", provider.Name())
	}

	if cfg.Deploy == nil || !cfg.Deploy.Enabled {
		return nil
	}

	fmt.Printf("🚀 Deploying %s to %s...\n", cfg.Deploy.ServiceName, provider.Name())
	deployment, err := provider.Deployer().Deploy(ctx, cloud.DeployRequest{
		ImageURI:             result.ImageURI,
		ServiceName:          cfg.Deploy.ServiceName,
		Port:                 cfg.Deploy.Port,
		CPU:                  cfg.Deploy.CPU,
		Memory:               cfg.Deploy.Memory,
		EnvironmentVariables: cfg.Build.EnvironmentVariables,
		AWS:                  cfg.Deploy.AWS,
		GCP:                  cfg.Deploy.GCP,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✅ Service deployed: %s\n", deployment.ServiceURL)

	snippet, err := build.ClientConfig(deployment.ServiceName, deployment.ServiceURL)
	if err != nil {
		return err
	}
	if cfg.Deploy.SaveConfig != "" {
		if err := build.SaveClientConfig(cfg.Deploy.SaveConfig, deployment.ServiceName, deployment.ServiceURL); err != nil {
			return err
		}
		fmt.Printf("📝 MCP client config saved to %s\n", cfg.Deploy.SaveConfig)
	} else {
		fmt.Println("📝 Add this to your MCP client config:")
		fmt.Println(snippet)
	}
	return nil
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.Flags().BoolVar(&flagPush, "push", false, "Push the built image to the provider registry (command mode)")
	rootCmd.Flags().StringVar(&flagProv, "provider", "", "Cloud provider: aws or gcp (command mode)")
	rootCmd.Flags().StringVar(&flagRegion, "region", "", "Cloud region (command mode)")
	rootCmd.Flags().StringVar(&flagProj, "project-id", "", "GCP project id (command mode)")
	rootCmd.Flags().StringVar(&flagArch, "arch", "", "Target platform, e.g. linux/arm64 (command mode)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}
