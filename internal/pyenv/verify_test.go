package pyenv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luerfel/galaxy-bootstrap/internal/pyenv"
)

const (
	testProfileConfigDocumentConstant = "username: luerfel\nprofile:\n  name: \"Luerfel\"\n"
	testMatchingHeaderConstant        = "<svg><text>Luerfel</text></svg>"
	testMismatchedHeaderConstant      = "<svg><text>Someone Else</text></svg>"
)

func seedGeneratedHeader(testInstance *testing.T, rootPath string, headerDocument string) {
	testInstance.Helper()
	headerPath := filepath.Join(rootPath, filepath.FromSlash(pyenv.GeneratedHeaderRelativePath))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(headerPath), 0o755))
	require.NoError(testInstance, os.WriteFile(headerPath, []byte(headerDocument), 0o644))
}

func TestOutputVerifierScenarios(testInstance *testing.T) {
	testCases := []struct {
		name             string
		headerDocument   string
		headerMissing    bool
		configDocument   string
		configMissing    bool
		expectedWarnings int
	}{
		{
			name:             "header_mentions_profile_name",
			headerDocument:   testMatchingHeaderConstant,
			configDocument:   testProfileConfigDocumentConstant,
			expectedWarnings: 0,
		},
		{
			name:             "header_missing",
			headerMissing:    true,
			configDocument:   testProfileConfigDocumentConstant,
			expectedWarnings: 1,
		},
		{
			name:             "header_without_profile_name",
			headerDocument:   testMismatchedHeaderConstant,
			configDocument:   testProfileConfigDocumentConstant,
			expectedWarnings: 1,
		},
		{
			name:             "username_fallback_when_profile_name_absent",
			headerDocument:   "<svg>luerfel</svg>",
			configDocument:   "username: luerfel\n",
			expectedWarnings: 0,
		},
		{
			name:             "config_missing",
			headerDocument:   testMatchingHeaderConstant,
			configMissing:    true,
			expectedWarnings: 1,
		},
		{
			name:             "config_unparseable",
			headerDocument:   testMatchingHeaderConstant,
			configDocument:   "username: [unclosed\n",
			expectedWarnings: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rootPath := testInstance.TempDir()
			if !testCase.headerMissing {
				seedGeneratedHeader(testInstance, rootPath, testCase.headerDocument)
			}
			if !testCase.configMissing {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, "config.yml"), []byte(testCase.configDocument), 0o644))
			}

			verifier := pyenv.NewOutputVerifier(zap.NewNop())
			warnings, verifyError := verifier.VerifyOutputs(rootPath)
			require.NoError(testInstance, verifyError)
			require.Len(testInstance, warnings, testCase.expectedWarnings)
		})
	}
}
