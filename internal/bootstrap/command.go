package bootstrap

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/luerfel/galaxy-bootstrap/internal/execshell"
	"github.com/luerfel/galaxy-bootstrap/internal/gitrepo"
	"github.com/luerfel/galaxy-bootstrap/internal/layout"
	"github.com/luerfel/galaxy-bootstrap/internal/patch"
	"github.com/luerfel/galaxy-bootstrap/internal/pyenv"
	"github.com/luerfel/galaxy-bootstrap/internal/ui"
	"github.com/luerfel/galaxy-bootstrap/internal/utils"
	pathutils "github.com/luerfel/galaxy-bootstrap/internal/utils/path"
)

const (
	bootstrapCommandUseConstant              = "bootstrap"
	bootstrapCommandShortDescriptionConstant = "Prepare a freshly imported profile repository"
	bootstrapCommandLongDescriptionConstant  = "bootstrap relocates an archive-extracted project to the repository root, applies the username to config.yml, repairs the generation workflow, optionally swaps in the profile README, and optionally commits the result."
	runCommandUseConstant                    = "run"
	runCommandShortDescriptionConstant       = "Maintain the profile repository and run the generator locally"
	runCommandLongDescriptionConstant        = "run keeps config.yml and the generation workflow consistent, optionally overwrites the configuration with the bundled template, optionally runs the generator inside a project-local virtual environment, and optionally commits the result."

	usernameFlagNameConstant       = "username"
	usernameFlagUsageConstant      = "GitHub username to apply to config.yml"
	rootFlagNameConstant           = "root"
	rootFlagUsageConstant          = "Working directory used to resolve the repository root (defaults to the current directory)"
	replaceReadmeFlagNameConstant  = "replace-readme"
	replaceReadmeFlagUsageConstant = "Replace README.md with README.profile.md, backing up the original"
	forceConfigFlagNameConstant    = "force-config"
	forceConfigFlagUsageConstant   = "Overwrite config.yml with the bundled profile template"
	fixWorkflowFlagNameConstant    = "fix-workflow"
	fixWorkflowFlagUsageConstant   = "Create or repair .github/workflows/generate-profile.yml"
	runGeneratorFlagNameConstant   = "run"
	runGeneratorFlagUsageConstant  = "Create the virtual environment, install dependencies, and run the generator"
	commitFlagNameConstant         = "commit"
	commitFlagUsageConstant        = "Stage all changes and create a commit"
	pushFlagNameConstant           = "push"
	pushFlagUsageConstant          = "Push the current branch after committing (requires configured authentication)"
	messageFlagNameConstant        = "message"
	messageFlagUsageConstant       = "Commit message"

	defaultWorkingDirectoryConstant = "."
)

// commandVariant distinguishes the two entry points sharing the orchestration.
type commandVariant int

const (
	bootstrapVariant commandVariant = iota
	runVariant
)

type commandOptions struct {
	debugLoggingEnabled bool
	serviceOptions      Options
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandExecutor abstracts the shell executor consumed by both subcommands.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecutePython(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteExecutable(executionContext context.Context, executablePath string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceExecutor runs the orchestration flow.
type ServiceExecutor interface {
	Execute(executionContext context.Context, options Options) (Result, error)
}

// ServiceProvider constructs the orchestration service from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (ServiceExecutor, error)

// CommandBuilder assembles the bootstrap and run Cobra commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	WorkingDirectory             string
	ServiceProvider              ServiceProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// BuildBootstrapCommand constructs the bootstrap command.
func (builder *CommandBuilder) BuildBootstrapCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           bootstrapCommandUseConstant,
		Short:         bootstrapCommandShortDescriptionConstant,
		Long:          bootstrapCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, bootstrapVariant)
		},
	}

	builder.registerCommonFlags(command)
	command.Flags().Bool(replaceReadmeFlagNameConstant, false, replaceReadmeFlagUsageConstant)

	return command, nil
}

// BuildRunCommand constructs the run command.
func (builder *CommandBuilder) BuildRunCommand() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           runCommandUseConstant,
		Short:         runCommandShortDescriptionConstant,
		Long:          runCommandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.run(command, runVariant)
		},
	}

	builder.registerCommonFlags(command)
	command.Flags().Bool(forceConfigFlagNameConstant, false, forceConfigFlagUsageConstant)
	command.Flags().Bool(fixWorkflowFlagNameConstant, false, fixWorkflowFlagUsageConstant)
	command.Flags().Bool(runGeneratorFlagNameConstant, false, runGeneratorFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) registerCommonFlags(command *cobra.Command) {
	command.Flags().String(usernameFlagNameConstant, "", usernameFlagUsageConstant)
	command.Flags().String(rootFlagNameConstant, "", rootFlagUsageConstant)
	command.Flags().Bool(commitFlagNameConstant, false, commitFlagUsageConstant)
	command.Flags().Bool(pushFlagNameConstant, false, pushFlagUsageConstant)
	command.Flags().String(messageFlagNameConstant, "", messageFlagUsageConstant)
}

func (builder *CommandBuilder) run(command *cobra.Command, variant commandVariant) error {
	options, optionsError := builder.parseOptions(command, variant)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger(options.debugLoggingEnabled)

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return managerError
	}

	environmentManager, environmentError := pyenv.NewEnvironmentManager(logger, executor)
	if environmentError != nil {
		return environmentError
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:             logger,
		Output:             utils.NewFlushingWriter(command.OutOrStdout()),
		RepositoryManager:  repositoryManager,
		RootInspector:      layout.NewRootInspector(),
		TreeMerger:         layout.NewTreeMerger(),
		ConfigPatcher:      patch.NewConfigPatcher(logger),
		WorkflowPatcher:    patch.NewWorkflowPatcher(logger),
		ReadmeSwapper:      patch.NewReadmeSwapper(logger),
		EnvironmentManager: environmentManager,
		OutputVerifier:     pyenv.NewOutputVerifier(logger),
	})
	if serviceError != nil {
		return serviceError
	}

	_, executionError := service.Execute(command.Context(), options.serviceOptions)
	return executionError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, variant commandVariant) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	debugEnabled := configuration.EnableDebugLogging
	if command != nil {
		contextAccessor := utils.NewCommandContextAccessor()
		if logLevel, available := contextAccessor.LogLevel(command.Context()); available {
			if strings.EqualFold(logLevel, string(utils.LogLevelDebug)) {
				debugEnabled = true
			}
		}
	}

	serviceOptions := Options{
		Username:      configuration.Username,
		CommitMessage: configuration.CommitMessage,
	}

	if command != nil {
		if command.Flags().Changed(usernameFlagNameConstant) {
			flagValue, _ := command.Flags().GetString(usernameFlagNameConstant)
			serviceOptions.Username = strings.TrimSpace(flagValue)
		}
		if command.Flags().Changed(messageFlagNameConstant) {
			flagValue, _ := command.Flags().GetString(messageFlagNameConstant)
			serviceOptions.CommitMessage = strings.TrimSpace(flagValue)
		}
		serviceOptions.Commit, _ = command.Flags().GetBool(commitFlagNameConstant)
		serviceOptions.Push, _ = command.Flags().GetBool(pushFlagNameConstant)
	}

	if len(serviceOptions.Username) == 0 {
		return commandOptions{}, ErrUsernameMissing
	}

	serviceOptions.WorkingDirectory = builder.resolveWorkingDirectory(command)

	switch variant {
	case bootstrapVariant:
		serviceOptions.UpdateWorkflows = true
		if command != nil {
			serviceOptions.ReplaceReadme, _ = command.Flags().GetBool(replaceReadmeFlagNameConstant)
		}
		if len(serviceOptions.CommitMessage) == 0 {
			serviceOptions.CommitMessage = DefaultBootstrapCommitMessage
		}
	case runVariant:
		if command != nil {
			serviceOptions.OverwriteConfig, _ = command.Flags().GetBool(forceConfigFlagNameConstant)
			serviceOptions.FixWorkflow, _ = command.Flags().GetBool(fixWorkflowFlagNameConstant)
			serviceOptions.RunGenerator, _ = command.Flags().GetBool(runGeneratorFlagNameConstant)
		}
		if len(serviceOptions.CommitMessage) == 0 {
			serviceOptions.CommitMessage = DefaultRunCommitMessage
		}
	}

	return commandOptions{
		debugLoggingEnabled: debugEnabled,
		serviceOptions:      serviceOptions,
	}, nil
}

func (builder *CommandBuilder) resolveWorkingDirectory(command *cobra.Command) string {
	if command != nil && command.Flags().Changed(rootFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(rootFlagNameConstant)
		trimmedValue := strings.TrimSpace(flagValue)
		if len(trimmedValue) > 0 {
			return pathutils.NewHomeExpander().Expand(trimmedValue)
		}
	}
	if len(builder.WorkingDirectory) > 0 {
		return builder.WorkingDirectory
	}
	return defaultWorkingDirectoryConstant
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	if humanReadableLogging {
		shellExecutor.SetCommandEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (ServiceExecutor, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}

	provided := builder.ConfigurationProvider()
	return provided.Sanitize()
}
