package pyenv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luerfel/galaxy-bootstrap/internal/execshell"
	"github.com/luerfel/galaxy-bootstrap/internal/pyenv"
)

type recordedInvocation struct {
	executablePath string
	details        execshell.CommandDetails
}

type fakePythonExecutor struct {
	rootPath        string
	pythonCalls     []execshell.CommandDetails
	executableCalls []recordedInvocation
}

func (executor *fakePythonExecutor) ExecutePython(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.pythonCalls = append(executor.pythonCalls, details)
	if len(details.Arguments) == 3 && details.Arguments[1] == "venv" {
		interpreterPath := filepath.Join(executor.rootPath, pyenv.VirtualenvDirectoryName, "bin")
		if mkdirError := os.MkdirAll(interpreterPath, 0o755); mkdirError != nil {
			return execshell.ExecutionResult{}, mkdirError
		}
		if writeError := os.WriteFile(filepath.Join(interpreterPath, "python"), []byte{}, 0o755); writeError != nil {
			return execshell.ExecutionResult{}, writeError
		}
	}
	return execshell.ExecutionResult{}, nil
}

func (executor *fakePythonExecutor) ExecuteExecutable(_ context.Context, executablePath string, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.executableCalls = append(executor.executableCalls, recordedInvocation{executablePath: executablePath, details: details})
	return execshell.ExecutionResult{}, nil
}

func seedVirtualenvInterpreter(testInstance *testing.T, rootPath string, relativeInterpreterPath string) string {
	testInstance.Helper()
	interpreterPath := filepath.Join(rootPath, pyenv.VirtualenvDirectoryName, filepath.FromSlash(relativeInterpreterPath))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(interpreterPath), 0o755))
	require.NoError(testInstance, os.WriteFile(interpreterPath, []byte{}, 0o755))
	return interpreterPath
}

func TestVirtualenvPythonPathPrefersPosixLayout(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	posixInterpreterPath := seedVirtualenvInterpreter(testInstance, rootPath, "bin/python")
	seedVirtualenvInterpreter(testInstance, rootPath, "Scripts/python.exe")

	manager, constructionError := pyenv.NewEnvironmentManager(zap.NewNop(), &fakePythonExecutor{rootPath: rootPath})
	require.NoError(testInstance, constructionError)

	resolvedPath, resolveError := manager.VirtualenvPythonPath(rootPath)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, posixInterpreterPath, resolvedPath)
}

func TestVirtualenvPythonPathFallsBackToWindowsLayout(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	windowsInterpreterPath := seedVirtualenvInterpreter(testInstance, rootPath, "Scripts/python.exe")

	manager, constructionError := pyenv.NewEnvironmentManager(zap.NewNop(), &fakePythonExecutor{rootPath: rootPath})
	require.NoError(testInstance, constructionError)

	resolvedPath, resolveError := manager.VirtualenvPythonPath(rootPath)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, windowsInterpreterPath, resolvedPath)
}

func TestVirtualenvPythonPathFailsWithoutInterpreter(testInstance *testing.T) {
	rootPath := testInstance.TempDir()

	manager, constructionError := pyenv.NewEnvironmentManager(zap.NewNop(), &fakePythonExecutor{rootPath: rootPath})
	require.NoError(testInstance, constructionError)

	_, resolveError := manager.VirtualenvPythonPath(rootPath)
	require.ErrorIs(testInstance, resolveError, pyenv.ErrVirtualenvPythonNotFound)
}

func TestEnsureEnvironmentCreatesVirtualenvAndInstallsRequirements(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	executor := &fakePythonExecutor{rootPath: rootPath}

	manager, constructionError := pyenv.NewEnvironmentManager(zap.NewNop(), executor)
	require.NoError(testInstance, constructionError)

	require.NoError(testInstance, manager.EnsureEnvironment(context.Background(), rootPath))

	require.Len(testInstance, executor.pythonCalls, 1)
	require.Equal(testInstance, []string{"-m", "venv", pyenv.VirtualenvDirectoryName}, executor.pythonCalls[0].Arguments)
	require.Equal(testInstance, rootPath, executor.pythonCalls[0].WorkingDirectory)

	require.Len(testInstance, executor.executableCalls, 2)
	require.Equal(testInstance, []string{"-m", "pip", "install", "--upgrade", "pip"}, executor.executableCalls[0].details.Arguments)
	require.Equal(testInstance, []string{"-m", "pip", "install", "-r", pyenv.RequirementsFileName}, executor.executableCalls[1].details.Arguments)
}

func TestEnsureEnvironmentReusesExistingVirtualenv(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	seedVirtualenvInterpreter(testInstance, rootPath, "bin/python")
	executor := &fakePythonExecutor{rootPath: rootPath}

	manager, constructionError := pyenv.NewEnvironmentManager(zap.NewNop(), executor)
	require.NoError(testInstance, constructionError)

	require.NoError(testInstance, manager.EnsureEnvironment(context.Background(), rootPath))
	require.Empty(testInstance, executor.pythonCalls)
	require.Len(testInstance, executor.executableCalls, 2)
}

func TestRunGeneratorInvokesGeneratorModuleFromRoot(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	interpreterPath := seedVirtualenvInterpreter(testInstance, rootPath, "bin/python")
	executor := &fakePythonExecutor{rootPath: rootPath}

	manager, constructionError := pyenv.NewEnvironmentManager(zap.NewNop(), executor)
	require.NoError(testInstance, constructionError)

	require.NoError(testInstance, manager.RunGenerator(context.Background(), rootPath))
	require.Len(testInstance, executor.executableCalls, 1)
	require.Equal(testInstance, interpreterPath, executor.executableCalls[0].executablePath)
	require.Equal(testInstance, []string{"-m", "generator.main"}, executor.executableCalls[0].details.Arguments)
	require.Equal(testInstance, rootPath, executor.executableCalls[0].details.WorkingDirectory)
}
