package layout

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	generatorDirectoryNameConstant = "generator"
	requirementsFileNameConstant   = "requirements.txt"
	hiddenEntryPrefixConstant      = "."
)

// importArtifactSuffixes lists directory name suffixes conventionally produced
// by extracting downloaded repository archives.
var importArtifactSuffixes = []string{"-main", "-master"}

// RootInspector classifies directories by the expected profile repository layout.
type RootInspector struct{}

// NewRootInspector constructs a RootInspector.
func NewRootInspector() *RootInspector {
	return &RootInspector{}
}

// IsProjectRoot reports whether the directory contains the generator package and
// the requirements manifest as direct children.
func (inspector *RootInspector) IsProjectRoot(directoryPath string) bool {
	generatorInfo, generatorStatError := os.Stat(filepath.Join(directoryPath, generatorDirectoryNameConstant))
	if generatorStatError != nil || !generatorInfo.IsDir() {
		return false
	}

	requirementsInfo, requirementsStatError := os.Stat(filepath.Join(directoryPath, requirementsFileNameConstant))
	if requirementsStatError != nil || requirementsInfo.IsDir() {
		return false
	}

	return true
}

// FindImportedSubdirectory scans the direct children of rootPath for an
// archive-extracted project directory. Directories matching a known import
// suffix and satisfying IsProjectRoot take precedence; when that filter yields
// anything but a single candidate, the first non-hidden directory satisfying
// IsProjectRoot is returned regardless of naming. Directory listing order
// decides ties, which is an accepted nondeterminism of the fallback.
func (inspector *RootInspector) FindImportedSubdirectory(rootPath string) (string, bool, error) {
	directoryEntries, readError := os.ReadDir(rootPath)
	if readError != nil {
		return "", false, readError
	}

	var suffixCandidates []string
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		entryName := directoryEntry.Name()
		if strings.HasPrefix(entryName, hiddenEntryPrefixConstant) {
			continue
		}
		if !hasImportArtifactSuffix(entryName) {
			continue
		}
		candidatePath := filepath.Join(rootPath, entryName)
		if inspector.IsProjectRoot(candidatePath) {
			suffixCandidates = append(suffixCandidates, candidatePath)
		}
	}

	if len(suffixCandidates) == 1 {
		return suffixCandidates[0], true, nil
	}

	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() {
			continue
		}
		entryName := directoryEntry.Name()
		if strings.HasPrefix(entryName, hiddenEntryPrefixConstant) {
			continue
		}
		candidatePath := filepath.Join(rootPath, entryName)
		if inspector.IsProjectRoot(candidatePath) {
			return candidatePath, true, nil
		}
	}

	return "", false, nil
}

func hasImportArtifactSuffix(directoryName string) bool {
	loweredName := strings.ToLower(directoryName)
	for _, importSuffix := range importArtifactSuffixes {
		if strings.HasSuffix(loweredName, importSuffix) {
			return true
		}
	}
	return false
}
