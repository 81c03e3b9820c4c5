// Package layout normalizes the directory structure of imported profile repositories.
//
// It exposes RootInspector for classifying directories as project roots and
// locating archive-extracted subdirectories, along with TreeMerger for safely
// relocating an imported subtree into the repository root without overwriting
// existing files.
package layout
