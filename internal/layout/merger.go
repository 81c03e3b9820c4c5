package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	importConflictSuffixConstant         = ".from_import"
	mergedDirectoryPermissionsConstant   = os.FileMode(0o755)
	sourceInspectErrorTemplateConstant   = "unable to inspect merge source %s: %w"
	destinationStatErrorTemplateConstant = "unable to inspect merge destination %s: %w"
	directoryCreateErrorTemplateConstant = "unable to create directory %s: %w"
	directoryReadErrorTemplateConstant   = "unable to read directory %s: %w"
	fileMoveErrorTemplateConstant        = "unable to move %s to %s: %w"
)

// TreeMerger relocates an imported subtree into a destination tree without
// overwriting files that already exist on the destination side.
type TreeMerger struct{}

// NewTreeMerger constructs a TreeMerger.
func NewTreeMerger() *TreeMerger {
	return &TreeMerger{}
}

// MergeMove moves sourcePath into destinationPath, recursing into directories
// and matching children by name. Conflicting files are preserved on both sides:
// the destination file is kept and the source file lands next to it with the
// .from_import suffix. Emptied source directories are removed; removal failure
// for non-empty directories is not an error.
func (merger *TreeMerger) MergeMove(sourcePath string, destinationPath string) error {
	sourceInfo, sourceStatError := os.Lstat(sourcePath)
	if sourceStatError != nil {
		return fmt.Errorf(sourceInspectErrorTemplateConstant, sourcePath, sourceStatError)
	}

	if sourceInfo.IsDir() {
		return merger.mergeDirectory(sourcePath, destinationPath)
	}
	return merger.mergeFile(sourcePath, destinationPath)
}

func (merger *TreeMerger) mergeDirectory(sourcePath string, destinationPath string) error {
	if mkdirError := os.MkdirAll(destinationPath, mergedDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(directoryCreateErrorTemplateConstant, destinationPath, mkdirError)
	}

	directoryEntries, readError := os.ReadDir(sourcePath)
	if readError != nil {
		return fmt.Errorf(directoryReadErrorTemplateConstant, sourcePath, readError)
	}

	for _, directoryEntry := range directoryEntries {
		childSourcePath := filepath.Join(sourcePath, directoryEntry.Name())
		childDestinationPath := filepath.Join(destinationPath, directoryEntry.Name())
		if mergeError := merger.MergeMove(childSourcePath, childDestinationPath); mergeError != nil {
			return mergeError
		}
	}

	// Best effort: a directory left non-empty by diverted conflicts stays in place.
	_ = os.Remove(sourcePath)

	return nil
}

func (merger *TreeMerger) mergeFile(sourcePath string, destinationPath string) error {
	_, destinationStatError := os.Lstat(destinationPath)
	if destinationStatError == nil {
		conflictPath := destinationPath + importConflictSuffixConstant
		if moveError := os.Rename(sourcePath, conflictPath); moveError != nil {
			return fmt.Errorf(fileMoveErrorTemplateConstant, sourcePath, conflictPath, moveError)
		}
		return nil
	}
	if !os.IsNotExist(destinationStatError) {
		return fmt.Errorf(destinationStatErrorTemplateConstant, destinationPath, destinationStatError)
	}

	if mkdirError := os.MkdirAll(filepath.Dir(destinationPath), mergedDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(directoryCreateErrorTemplateConstant, filepath.Dir(destinationPath), mkdirError)
	}

	if moveError := os.Rename(sourcePath, destinationPath); moveError != nil {
		return fmt.Errorf(fileMoveErrorTemplateConstant, sourcePath, destinationPath, moveError)
	}

	return nil
}
