package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/luerfel/galaxy-bootstrap/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant = "git executor not configured"

	revParseSubcommandConstant     = "rev-parse"
	showTopLevelFlagConstant       = "--show-toplevel"
	revParseInsideWorkTreeConstant = "--is-inside-work-tree"
	statusSubcommandConstant       = "status"
	porcelainFlagConstant          = "--porcelain"
	addSubcommandConstant          = "add"
	addAllFlagConstant             = "-A"
	commitSubcommandConstant       = "commit"
	commitMessageFlagConstant      = "-m"
	pushSubcommandConstant         = "push"
)

// ErrExecutorNotConfigured reports construction without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor abstracts git command execution for testability.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs git operations against explicit repository paths.
type RepositoryManager struct {
	executor GitExecutor
}

// NewRepositoryManager validates the executor and constructs a RepositoryManager.
func NewRepositoryManager(executor GitExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ResolveRepositoryRoot returns the top-level directory of the repository containing the given path.
func (manager *RepositoryManager) ResolveRepositoryRoot(executionContext context.Context, candidatePath string) (string, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, showTopLevelFlagConstant},
		WorkingDirectory: candidatePath,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// IsRepositoryRoot reports whether the given path lies inside a git worktree.
func (manager *RepositoryManager) IsRepositoryRoot(executionContext context.Context, candidatePath string) bool {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, revParseInsideWorkTreeConstant},
		WorkingDirectory: candidatePath,
	})
	if executionError != nil {
		return false
	}
	return strings.TrimSpace(executionResult.StandardOutput) == "true"
}

// CheckCleanWorktree reports whether the repository at the given path has no
// staged, unstaged, or untracked changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{statusSubcommandConstant, porcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false, executionError
	}
	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// StageAll stages every change in the repository, including untracked files.
func (manager *RepositoryManager) StageAll(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{addSubcommandConstant, addAllFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// Commit records the staged changes with the provided message.
func (manager *RepositoryManager) Commit(executionContext context.Context, repositoryPath string, message string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{commitSubcommandConstant, commitMessageFlagConstant, message},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}

// Push publishes the current branch to its configured remote.
func (manager *RepositoryManager) Push(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant},
		WorkingDirectory: repositoryPath,
	})
	return executionError
}
