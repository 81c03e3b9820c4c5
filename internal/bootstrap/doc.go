// Package bootstrap orchestrates the profile repository preparation flow:
// resolving the repository root, relocating imported subtrees, patching the
// configuration and workflow documents, optionally running the generator, and
// recording the result in git.
package bootstrap
