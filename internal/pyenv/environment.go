package pyenv

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/luerfel/galaxy-bootstrap/internal/execshell"
)

const (
	// VirtualenvDirectoryName is the root-relative virtual environment directory.
	VirtualenvDirectoryName = ".venv"
	// RequirementsFileName is the root-relative pip requirements manifest.
	RequirementsFileName = "requirements.txt"

	executorNotConfiguredMessageConstant   = "python executor not configured"
	virtualenvPythonMissingMessageConstant = "virtual environment python interpreter not found"

	posixInterpreterRelativePathConstant   = "bin/python"
	windowsInterpreterRelativePathConstant = "Scripts/python.exe"

	moduleFlagConstant              = "-m"
	venvModuleNameConstant          = "venv"
	pipModuleNameConstant           = "pip"
	pipInstallSubcommandConstant    = "install"
	pipUpgradeFlagConstant          = "--upgrade"
	pipPackageNameConstant          = "pip"
	pipRequirementsFlagConstant     = "-r"
	generatorModuleNameConstant     = "generator.main"
	venvCreatedLogMessageConstant   = "Virtual environment created"
	venvReusedLogMessageConstant    = "Reusing existing virtual environment"
	depsInstalledLogMessageConstant = "Generator dependencies installed"
	generatorRanLogMessageConstant  = "Generator completed"
	venvPathLogFieldConstant        = "venv_path"
)

// Sentinel errors reported by the environment manager.
var (
	ErrExecutorNotConfigured    = errors.New(executorNotConfiguredMessageConstant)
	ErrVirtualenvPythonNotFound = errors.New(virtualenvPythonMissingMessageConstant)
)

// PythonExecutor abstracts python process execution for testability.
type PythonExecutor interface {
	ExecutePython(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteExecutable(executionContext context.Context, executablePath string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// EnvironmentManager provisions the virtual environment and runs the generator inside it.
type EnvironmentManager struct {
	logger   *zap.Logger
	executor PythonExecutor
}

// NewEnvironmentManager validates the executor and constructs an EnvironmentManager.
func NewEnvironmentManager(logger *zap.Logger, executor PythonExecutor) (*EnvironmentManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnvironmentManager{logger: logger, executor: executor}, nil
}

// VirtualenvPythonPath locates the interpreter inside the project virtual
// environment, preferring the POSIX layout and falling back to the Windows one.
func (manager *EnvironmentManager) VirtualenvPythonPath(rootPath string) (string, error) {
	virtualenvPath := filepath.Join(rootPath, VirtualenvDirectoryName)
	candidatePaths := []string{
		filepath.Join(virtualenvPath, filepath.FromSlash(posixInterpreterRelativePathConstant)),
		filepath.Join(virtualenvPath, filepath.FromSlash(windowsInterpreterRelativePathConstant)),
	}
	for _, candidatePath := range candidatePaths {
		if _, statError := os.Stat(candidatePath); statError == nil {
			return candidatePath, nil
		}
	}
	return "", ErrVirtualenvPythonNotFound
}

// EnsureEnvironment creates the virtual environment when absent, upgrades pip,
// and installs the generator requirements into it.
func (manager *EnvironmentManager) EnsureEnvironment(executionContext context.Context, rootPath string) error {
	virtualenvPath := filepath.Join(rootPath, VirtualenvDirectoryName)
	if _, statError := os.Stat(virtualenvPath); os.IsNotExist(statError) {
		_, creationError := manager.executor.ExecutePython(executionContext, execshell.CommandDetails{
			Arguments:        []string{moduleFlagConstant, venvModuleNameConstant, VirtualenvDirectoryName},
			WorkingDirectory: rootPath,
		})
		if creationError != nil {
			return creationError
		}
		manager.logger.Info(venvCreatedLogMessageConstant, zap.String(venvPathLogFieldConstant, virtualenvPath))
	} else {
		manager.logger.Info(venvReusedLogMessageConstant, zap.String(venvPathLogFieldConstant, virtualenvPath))
	}

	interpreterPath, interpreterError := manager.VirtualenvPythonPath(rootPath)
	if interpreterError != nil {
		return interpreterError
	}

	_, pipUpgradeError := manager.executor.ExecuteExecutable(executionContext, interpreterPath, execshell.CommandDetails{
		Arguments:        []string{moduleFlagConstant, pipModuleNameConstant, pipInstallSubcommandConstant, pipUpgradeFlagConstant, pipPackageNameConstant},
		WorkingDirectory: rootPath,
	})
	if pipUpgradeError != nil {
		return pipUpgradeError
	}

	_, installError := manager.executor.ExecuteExecutable(executionContext, interpreterPath, execshell.CommandDetails{
		Arguments:        []string{moduleFlagConstant, pipModuleNameConstant, pipInstallSubcommandConstant, pipRequirementsFlagConstant, RequirementsFileName},
		WorkingDirectory: rootPath,
	})
	if installError != nil {
		return installError
	}

	manager.logger.Info(depsInstalledLogMessageConstant)
	return nil
}

// RunGenerator invokes the generator module with the virtual environment
// interpreter from the project root.
func (manager *EnvironmentManager) RunGenerator(executionContext context.Context, rootPath string) error {
	interpreterPath, interpreterError := manager.VirtualenvPythonPath(rootPath)
	if interpreterError != nil {
		return interpreterError
	}

	_, runError := manager.executor.ExecuteExecutable(executionContext, interpreterPath, execshell.CommandDetails{
		Arguments:        []string{moduleFlagConstant, generatorModuleNameConstant},
		WorkingDirectory: rootPath,
	})
	if runError != nil {
		return runError
	}

	manager.logger.Info(generatorRanLogMessageConstant)
	return nil
}
