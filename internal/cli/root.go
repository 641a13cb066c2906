package cli

import (
	"context"
	"fmt"

	"resumeqa/internal/common"
	"resumeqa/internal/config"
	"resumeqa/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "skip-config"

// Global flags
var rootOpts struct {
	configFile string
	container  string
	output     common.CommandConfig
}

var rootCmd = &cobra.Command{
	Use:   "resumeqa",
	Short: "Parse resumes, score them against job descriptions and answer questions",
	Long: `resumeqa reads resumes from blob storage (Azure, S3, MinIO or a local
directory), extracts structured data such as contact details, education and
experience, scores resumes against a job description and answers free-form
questions about a resume with an LLM.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the command line. Configuration is loaded once the command
// and its flags are known.
func Execute(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// loadConfig loads configuration, builds the logger and attaches both to
// the command context.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	cfg, err := config.LoadConfig(rootOpts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if rootOpts.container != "" {
		cfg.Storage.Container = rootOpts.container
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Apply default format if not specified
	if rootOpts.output.OutputFormat == "" {
		rootOpts.output.OutputFormat = cfg.App.DefaultFormat
	}
	if err := common.ValidateOutputFormat(rootOpts.output.OutputFormat, cfg.App.SupportedFormats); err != nil {
		return err
	}
	rootOpts.output.Stdout = cmd.OutOrStdout()

	logger.Debug("Starting resumeqa",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"storage_backend", cfg.Storage.Backend,
		"nlp_provider", cfg.NLP.Provider)

	// Attach the config and logger to the context, making them available to all subcommands
	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// withRuntime builds the pipeline for one command and releases it afterwards
func withRuntime(cmd *cobra.Command, run func(rt *common.Runtime) error) error {
	ctx := cmd.Context()
	rt, err := common.NewRuntime(ctx, getConfigFromContext(ctx), getLoggerFromContext(ctx), Version)
	if err != nil {
		return err
	}
	defer rt.Close(context.WithoutCancel(ctx))
	return run(rt)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootOpts.configFile, "config", "", "Config file (default: ./resumeqa.yaml, $HOME/.config/resumeqa, /etc/resumeqa)")
	flags.StringVar(&rootOpts.container, "container", "", "Storage container holding the resumes (default from config)")
	flags.StringVarP(&rootOpts.output.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&rootOpts.output.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return common.NewOutputHandler(errors.NewNopLogger()).GetSupportedFormats(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(similarityCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
