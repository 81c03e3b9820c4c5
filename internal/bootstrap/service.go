package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/luerfel/galaxy-bootstrap/internal/patch"
)

const (
	loggerNotConfiguredMessageConstant      = "logger not configured"
	repositoryNotConfiguredMessageConstant  = "repository manager not configured"
	inspectorNotConfiguredMessageConstant   = "root inspector not configured"
	mergerNotConfiguredMessageConstant      = "tree merger not configured"
	configNotConfiguredMessageConstant      = "configuration patcher not configured"
	workflowNotConfiguredMessageConstant    = "workflow patcher not configured"
	readmeNotConfiguredMessageConstant      = "readme swapper not configured"
	environmentNotConfiguredMessageConstant = "environment manager not configured"
	verifierNotConfiguredMessageConstant    = "output verifier not configured"
	usernameMissingMessageConstant          = "username is required"
	importedProjectMissingMessageConstant   = "imported project directory (generator/ and requirements.txt)"

	repositoryRootMessageTemplateConstant = "Repository root: %s\n"
	relocationMessageTemplateConstant     = "Found imported project in %s; relocating to the repository root\n"
	layoutAtRootMessageConstant           = "Project layout already at the repository root\n"
	configReadyMessageConstant            = "config.yml ready (username applied)\n"
	configOverwrittenMessageConstant      = "config.yml overwritten with the bundled template\n"
	workflowReadyMessageConstant          = "Workflow updated (demo invocation removed, permissions ensured)\n"
	readmeReplacedMessageTemplateConstant = "README.md replaced with README.profile.md (backup: %s)\n"
	readmeReplacedNoBackupMessageConstant = "README.md created from README.profile.md\n"
	generatorFinishedMessageConstant      = "Generator run complete\n"
	warningMessageTemplateConstant        = "Warning: %s\n"
	nothingToCommitMessageConstant        = "Nothing to commit\n"
	commitCreatedMessageConstant          = "Commit created\n"
	pushCompletedMessageConstant          = "Push complete\n"
	manualNextStepsMessageConstant        = "Done. To publish manually: git add -A && git commit && git push\n"

	relocationLogMessageConstant     = "Relocated imported subtree"
	relocationSourceLogFieldConstant = "source_directory"
	repositoryRootLogFieldConstant   = "repository_root"
)

// Sentinel errors reported during service construction and validation.
var (
	ErrLoggerNotConfigured             = errors.New(loggerNotConfiguredMessageConstant)
	ErrRepositoryManagerNotConfigured  = errors.New(repositoryNotConfiguredMessageConstant)
	ErrRootInspectorNotConfigured      = errors.New(inspectorNotConfiguredMessageConstant)
	ErrTreeMergerNotConfigured         = errors.New(mergerNotConfiguredMessageConstant)
	ErrConfigPatcherNotConfigured      = errors.New(configNotConfiguredMessageConstant)
	ErrWorkflowPatcherNotConfigured    = errors.New(workflowNotConfiguredMessageConstant)
	ErrReadmeSwapperNotConfigured      = errors.New(readmeNotConfiguredMessageConstant)
	ErrEnvironmentManagerNotConfigured = errors.New(environmentNotConfiguredMessageConstant)
	ErrOutputVerifierNotConfigured     = errors.New(verifierNotConfiguredMessageConstant)
	ErrUsernameMissing                 = errors.New(usernameMissingMessageConstant)
)

// GitOperator performs the git operations the orchestration needs.
type GitOperator interface {
	ResolveRepositoryRoot(executionContext context.Context, candidatePath string) (string, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	StageAll(executionContext context.Context, repositoryPath string) error
	Commit(executionContext context.Context, repositoryPath string, message string) error
	Push(executionContext context.Context, repositoryPath string) error
}

// LayoutInspector classifies directories by the expected project layout.
type LayoutInspector interface {
	IsProjectRoot(directoryPath string) bool
	FindImportedSubdirectory(rootPath string) (string, bool, error)
}

// SubtreeMerger relocates a subtree into a destination tree.
type SubtreeMerger interface {
	MergeMove(sourcePath string, destinationPath string) error
}

// ConfigMaintainer keeps the configuration document and ignore list consistent.
type ConfigMaintainer interface {
	EnsureConfig(rootPath string, username string) (patch.ConfigOutcome, error)
	WriteForcedConfig(rootPath string, username string) error
}

// WorkflowMaintainer keeps the generation workflow documents consistent.
type WorkflowMaintainer interface {
	UpdateWorkflows(rootPath string) (patch.WorkflowOutcome, error)
	EnsureWorkflow(rootPath string) (patch.WorkflowOutcome, error)
}

// ReadmeReplacer swaps the repository README for the profile document.
type ReadmeReplacer interface {
	ReplaceReadme(rootPath string) (patch.ReadmeOutcome, error)
}

// GeneratorRunner provisions the Python environment and runs the generator.
type GeneratorRunner interface {
	EnsureEnvironment(executionContext context.Context, rootPath string) error
	RunGenerator(executionContext context.Context, rootPath string) error
}

// OutputChecker inspects generated assets and reports findings as warnings.
type OutputChecker interface {
	VerifyOutputs(rootPath string) ([]string, error)
}

// ServiceDependencies enumerates the collaborators required by the Service.
type ServiceDependencies struct {
	Logger             *zap.Logger
	Output             io.Writer
	RepositoryManager  GitOperator
	RootInspector      LayoutInspector
	TreeMerger         SubtreeMerger
	ConfigPatcher      ConfigMaintainer
	WorkflowPatcher    WorkflowMaintainer
	ReadmeSwapper      ReadmeReplacer
	EnvironmentManager GeneratorRunner
	OutputVerifier     OutputChecker
}

// Options selects the phases a single invocation performs.
type Options struct {
	WorkingDirectory string
	Username         string
	OverwriteConfig  bool
	UpdateWorkflows  bool
	FixWorkflow      bool
	ReplaceReadme    bool
	RunGenerator     bool
	Commit           bool
	Push             bool
	CommitMessage    string
}

// Result captures the observable effects of an invocation.
type Result struct {
	RepositoryRoot string
	RelocatedFrom  string
	ReadmeBackup   string
	Warnings       []string
	Committed      bool
	Pushed         bool
}

// Service executes the bootstrap flow against a repository.
type Service struct {
	dependencies ServiceDependencies
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.RootInspector == nil {
		return nil, ErrRootInspectorNotConfigured
	}
	if dependencies.TreeMerger == nil {
		return nil, ErrTreeMergerNotConfigured
	}
	if dependencies.ConfigPatcher == nil {
		return nil, ErrConfigPatcherNotConfigured
	}
	if dependencies.WorkflowPatcher == nil {
		return nil, ErrWorkflowPatcherNotConfigured
	}
	if dependencies.ReadmeSwapper == nil {
		return nil, ErrReadmeSwapperNotConfigured
	}
	if dependencies.EnvironmentManager == nil {
		return nil, ErrEnvironmentManagerNotConfigured
	}
	if dependencies.OutputVerifier == nil {
		return nil, ErrOutputVerifierNotConfigured
	}
	if dependencies.Output == nil {
		dependencies.Output = io.Discard
	}
	return &Service{dependencies: dependencies}, nil
}

// Execute runs the selected phases in order: root resolution, relocation,
// configuration, workflow maintenance, README replacement, local generation,
// and the git publication gate.
func (service *Service) Execute(executionContext context.Context, options Options) (Result, error) {
	result := Result{}

	if len(strings.TrimSpace(options.Username)) == 0 {
		return result, ErrUsernameMissing
	}

	repositoryRoot, resolveError := service.dependencies.RepositoryManager.ResolveRepositoryRoot(executionContext, options.WorkingDirectory)
	if resolveError != nil {
		return result, resolveError
	}
	result.RepositoryRoot = repositoryRoot
	fmt.Fprintf(service.dependencies.Output, repositoryRootMessageTemplateConstant, repositoryRoot)

	relocatedFrom, relocationError := service.relocateImportedSubtree(repositoryRoot)
	if relocationError != nil {
		return result, relocationError
	}
	result.RelocatedFrom = relocatedFrom

	if _, configError := service.dependencies.ConfigPatcher.EnsureConfig(repositoryRoot, options.Username); configError != nil {
		return result, configError
	}
	if options.OverwriteConfig {
		if forceError := service.dependencies.ConfigPatcher.WriteForcedConfig(repositoryRoot, options.Username); forceError != nil {
			return result, forceError
		}
		fmt.Fprint(service.dependencies.Output, configOverwrittenMessageConstant)
	} else {
		fmt.Fprint(service.dependencies.Output, configReadyMessageConstant)
	}

	if workflowError := service.maintainWorkflows(repositoryRoot, options); workflowError != nil {
		return result, workflowError
	}

	if options.ReplaceReadme {
		readmeOutcome, readmeError := service.dependencies.ReadmeSwapper.ReplaceReadme(repositoryRoot)
		if readmeError != nil {
			return result, readmeError
		}
		result.ReadmeBackup = readmeOutcome.BackupPath
		if len(readmeOutcome.BackupPath) > 0 {
			fmt.Fprintf(service.dependencies.Output, readmeReplacedMessageTemplateConstant, readmeOutcome.BackupPath)
		} else {
			fmt.Fprint(service.dependencies.Output, readmeReplacedNoBackupMessageConstant)
		}
	}

	if options.RunGenerator {
		warnings, generationError := service.runGenerator(executionContext, repositoryRoot)
		if generationError != nil {
			return result, generationError
		}
		result.Warnings = warnings
		for _, warning := range warnings {
			fmt.Fprintf(service.dependencies.Output, warningMessageTemplateConstant, warning)
		}
	}

	committed, pushed, gitError := service.publish(executionContext, repositoryRoot, options)
	if gitError != nil {
		return result, gitError
	}
	result.Committed = committed
	result.Pushed = pushed

	return result, nil
}

// relocateImportedSubtree moves an archive-extracted project directory to the
// repository root when the root itself lacks the expected layout.
func (service *Service) relocateImportedSubtree(repositoryRoot string) (string, error) {
	if service.dependencies.RootInspector.IsProjectRoot(repositoryRoot) {
		fmt.Fprint(service.dependencies.Output, layoutAtRootMessageConstant)
		return "", nil
	}

	importedPath, found, findError := service.dependencies.RootInspector.FindImportedSubdirectory(repositoryRoot)
	if findError != nil {
		return "", findError
	}
	if !found {
		return "", patch.MissingArtifactError{ArtifactName: importedProjectMissingMessageConstant}
	}

	fmt.Fprintf(service.dependencies.Output, relocationMessageTemplateConstant, importedPath)
	if mergeError := service.dependencies.TreeMerger.MergeMove(importedPath, repositoryRoot); mergeError != nil {
		return "", mergeError
	}

	service.dependencies.Logger.Info(
		relocationLogMessageConstant,
		zap.String(relocationSourceLogFieldConstant, importedPath),
		zap.String(repositoryRootLogFieldConstant, repositoryRoot),
	)
	return importedPath, nil
}

func (service *Service) maintainWorkflows(repositoryRoot string, options Options) error {
	if options.UpdateWorkflows {
		if _, updateError := service.dependencies.WorkflowPatcher.UpdateWorkflows(repositoryRoot); updateError != nil {
			return updateError
		}
		fmt.Fprint(service.dependencies.Output, workflowReadyMessageConstant)
		return nil
	}
	if options.FixWorkflow {
		if _, ensureError := service.dependencies.WorkflowPatcher.EnsureWorkflow(repositoryRoot); ensureError != nil {
			return ensureError
		}
		fmt.Fprint(service.dependencies.Output, workflowReadyMessageConstant)
	}
	return nil
}

func (service *Service) runGenerator(executionContext context.Context, repositoryRoot string) ([]string, error) {
	if environmentError := service.dependencies.EnvironmentManager.EnsureEnvironment(executionContext, repositoryRoot); environmentError != nil {
		return nil, environmentError
	}
	if runError := service.dependencies.EnvironmentManager.RunGenerator(executionContext, repositoryRoot); runError != nil {
		return nil, runError
	}
	fmt.Fprint(service.dependencies.Output, generatorFinishedMessageConstant)
	return service.dependencies.OutputVerifier.VerifyOutputs(repositoryRoot)
}

// publish stages and records changes when requested. A clean worktree skips the
// phase entirely so repeated invocations never create empty commits.
func (service *Service) publish(executionContext context.Context, repositoryRoot string, options Options) (bool, bool, error) {
	if !options.Commit && !options.Push {
		fmt.Fprint(service.dependencies.Output, manualNextStepsMessageConstant)
		return false, false, nil
	}

	clean, cleanError := service.dependencies.RepositoryManager.CheckCleanWorktree(executionContext, repositoryRoot)
	if cleanError != nil {
		return false, false, cleanError
	}
	if clean {
		fmt.Fprint(service.dependencies.Output, nothingToCommitMessageConstant)
		return false, false, nil
	}

	if stageError := service.dependencies.RepositoryManager.StageAll(executionContext, repositoryRoot); stageError != nil {
		return false, false, stageError
	}

	committed := false
	if options.Commit {
		if commitError := service.dependencies.RepositoryManager.Commit(executionContext, repositoryRoot, options.CommitMessage); commitError != nil {
			return false, false, commitError
		}
		committed = true
		fmt.Fprint(service.dependencies.Output, commitCreatedMessageConstant)
	}

	pushed := false
	if options.Push {
		if pushError := service.dependencies.RepositoryManager.Push(executionContext, repositoryRoot); pushError != nil {
			return committed, false, pushError
		}
		pushed = true
		fmt.Fprint(service.dependencies.Output, pushCompletedMessageConstant)
	}

	return committed, pushed, nil
}
