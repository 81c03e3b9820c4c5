package layout_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luerfel/galaxy-bootstrap/internal/layout"
)

const (
	testGeneratorDirectoryNameConstant   = "generator"
	testRequirementsFileNameConstant     = "requirements.txt"
	testImportedDirectoryNameConstant    = "myrepo-main"
	testMasterImportDirectoryConstant    = "myrepo-MASTER"
	testUnrelatedDirectoryNameConstant   = "assets"
	testHiddenDirectoryNameConstant      = ".git"
	testOddlyNamedProjectDirectoryConstant = "extracted"
)

func writeProjectMarkers(testInstance *testing.T, directoryPath string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(directoryPath, testGeneratorDirectoryNameConstant), 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(directoryPath, testRequirementsFileNameConstant), []byte("requests\n"), 0o644))
}

func TestRootInspectorIsProjectRoot(testInstance *testing.T) {
	testCases := []struct {
		name           string
		prepare        func(testInstance *testing.T, rootPath string)
		expectedResult bool
	}{
		{
			name:           "both_markers_present",
			prepare:        writeProjectMarkers,
			expectedResult: true,
		},
		{
			name: "generator_missing",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, testRequirementsFileNameConstant), []byte{}, 0o644))
			},
			expectedResult: false,
		},
		{
			name: "requirements_missing",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, testGeneratorDirectoryNameConstant), 0o755))
			},
			expectedResult: false,
		},
		{
			name: "generator_is_a_file",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, testGeneratorDirectoryNameConstant), []byte{}, 0o644))
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, testRequirementsFileNameConstant), []byte{}, 0o644))
			},
			expectedResult: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rootPath := testInstance.TempDir()
			testCase.prepare(testInstance, rootPath)

			inspector := layout.NewRootInspector()
			require.Equal(testInstance, testCase.expectedResult, inspector.IsProjectRoot(rootPath))
		})
	}
}

func TestRootInspectorFindImportedSubdirectory(testInstance *testing.T) {
	testCases := []struct {
		name              string
		prepare           func(testInstance *testing.T, rootPath string)
		expectedFound     bool
		expectedDirectory string
	}{
		{
			name: "single_suffix_candidate",
			prepare: func(testInstance *testing.T, rootPath string) {
				writeProjectMarkers(testInstance, filepath.Join(rootPath, testImportedDirectoryNameConstant))
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, testUnrelatedDirectoryNameConstant), 0o755))
			},
			expectedFound:     true,
			expectedDirectory: testImportedDirectoryNameConstant,
		},
		{
			name: "suffix_match_is_case_insensitive",
			prepare: func(testInstance *testing.T, rootPath string) {
				writeProjectMarkers(testInstance, filepath.Join(rootPath, testMasterImportDirectoryConstant))
			},
			expectedFound:     true,
			expectedDirectory: testMasterImportDirectoryConstant,
		},
		{
			name: "suffix_candidate_without_markers_is_ignored",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, testImportedDirectoryNameConstant), 0o755))
			},
			expectedFound: false,
		},
		{
			name: "structural_fallback_without_suffix",
			prepare: func(testInstance *testing.T, rootPath string) {
				writeProjectMarkers(testInstance, filepath.Join(rootPath, testOddlyNamedProjectDirectoryConstant))
			},
			expectedFound:     true,
			expectedDirectory: testOddlyNamedProjectDirectoryConstant,
		},
		{
			name: "hidden_directories_are_skipped",
			prepare: func(testInstance *testing.T, rootPath string) {
				writeProjectMarkers(testInstance, filepath.Join(rootPath, testHiddenDirectoryNameConstant))
			},
			expectedFound: false,
		},
		{
			name: "no_candidates",
			prepare: func(testInstance *testing.T, rootPath string) {
				require.NoError(testInstance, os.MkdirAll(filepath.Join(rootPath, testUnrelatedDirectoryNameConstant), 0o755))
			},
			expectedFound: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rootPath := testInstance.TempDir()
			testCase.prepare(testInstance, rootPath)

			inspector := layout.NewRootInspector()
			foundPath, found, probeError := inspector.FindImportedSubdirectory(rootPath)
			require.NoError(testInstance, probeError)
			require.Equal(testInstance, testCase.expectedFound, found)
			if testCase.expectedFound {
				require.Equal(testInstance, filepath.Join(rootPath, testCase.expectedDirectory), foundPath)
			}
		})
	}
}

func TestRootInspectorPrefersSingleSuffixCandidateOverFallback(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeProjectMarkers(testInstance, filepath.Join(rootPath, testOddlyNamedProjectDirectoryConstant))
	writeProjectMarkers(testInstance, filepath.Join(rootPath, testImportedDirectoryNameConstant))

	inspector := layout.NewRootInspector()
	foundPath, found, probeError := inspector.FindImportedSubdirectory(rootPath)
	require.NoError(testInstance, probeError)
	require.True(testInstance, found)
	require.Equal(testInstance, filepath.Join(rootPath, testImportedDirectoryNameConstant), foundPath)
}
