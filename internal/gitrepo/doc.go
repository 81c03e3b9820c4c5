// Package gitrepo wraps git invocations behind a RepositoryManager that
// resolves repository roots, inspects worktree cleanliness, and records
// commits, always against an explicit repository path.
package gitrepo
