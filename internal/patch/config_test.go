package patch_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/luerfel/galaxy-bootstrap/internal/patch"
)

const (
	testUsernameConstant              = "luerfel"
	testReplacementUsernameConstant   = "new"
	testTemplateFileNameConstant      = "config.example.yml"
	testAlternateTemplateNameConstant = "config_example.yaml"
	testTemplateContentConstant       = "# template\nusername: placeholder\ntheme: galaxy\n"
	testIgnoreExceptionLineConstant   = "!config.yml"
)

func TestConfigPatcherSeedsFromFirstAvailableTemplate(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, testAlternateTemplateNameConstant), []byte(testTemplateContentConstant), 0o644))

	patcher := patch.NewConfigPatcher(zap.NewNop())
	outcome, ensureError := patcher.EnsureConfig(rootPath, testUsernameConstant)
	require.NoError(testInstance, ensureError)
	require.Equal(testInstance, testAlternateTemplateNameConstant, outcome.SeededFromTemplate)

	configContent, readError := os.ReadFile(filepath.Join(rootPath, patch.ConfigFileName))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(configContent), "username: "+testUsernameConstant)
}

func TestConfigPatcherFailsWithoutTemplate(testInstance *testing.T) {
	rootPath := testInstance.TempDir()

	patcher := patch.NewConfigPatcher(zap.NewNop())
	_, ensureError := patcher.EnsureConfig(rootPath, testUsernameConstant)
	require.Error(testInstance, ensureError)
	require.IsType(testInstance, patch.MissingArtifactError{}, ensureError)
}

func TestConfigPatcherRewritesUsernamePreservingOtherLines(testInstance *testing.T) {
	rootPath := testInstance.TempDir()

	otherLines := []string{
		"# Galaxy Profile README Configuration",
		"profile:",
		"  name: \"Old Name\"",
		"  tagline: \"tagline\"",
		"social:",
		"  email: \"old@example.com\"",
		"theme:",
		"  void: \"#080c14\"",
		"stats:",
		"  metrics: []",
	}
	originalDocument := strings.Join(otherLines[:2], "\n") + "\nusername: old\n" + strings.Join(otherLines[2:], "\n") + "\n"
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, patch.ConfigFileName), []byte(originalDocument), 0o644))

	patcher := patch.NewConfigPatcher(zap.NewNop())
	outcome, ensureError := patcher.EnsureConfig(rootPath, testReplacementUsernameConstant)
	require.NoError(testInstance, ensureError)
	require.True(testInstance, outcome.UsernameApplied)
	require.Empty(testInstance, outcome.SeededFromTemplate)

	updatedContent, readError := os.ReadFile(filepath.Join(rootPath, patch.ConfigFileName))
	require.NoError(testInstance, readError)
	updatedDocument := string(updatedContent)

	require.Contains(testInstance, updatedDocument, "username: "+testReplacementUsernameConstant+"\n")
	require.NotContains(testInstance, updatedDocument, "username: old")
	for _, preservedLine := range otherLines {
		require.Contains(testInstance, updatedDocument, preservedLine+"\n")
	}
}

func TestConfigPatcherPrependsUsernameWhenAbsent(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, patch.ConfigFileName), []byte("theme: galaxy\n"), 0o644))

	patcher := patch.NewConfigPatcher(zap.NewNop())
	_, ensureError := patcher.EnsureConfig(rootPath, testUsernameConstant)
	require.NoError(testInstance, ensureError)

	updatedContent, readError := os.ReadFile(filepath.Join(rootPath, patch.ConfigFileName))
	require.NoError(testInstance, readError)
	require.True(testInstance, strings.HasPrefix(string(updatedContent), "username: "+testUsernameConstant+"\n"))
	require.Contains(testInstance, string(updatedContent), "theme: galaxy\n")
}

func TestConfigPatcherIsIdempotent(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, testTemplateFileNameConstant), []byte(testTemplateContentConstant), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, patch.IgnoreFileName), []byte("*.log\nconfig.yml\n"), 0o644))

	patcher := patch.NewConfigPatcher(zap.NewNop())

	_, firstError := patcher.EnsureConfig(rootPath, testUsernameConstant)
	require.NoError(testInstance, firstError)
	firstConfig, firstReadError := os.ReadFile(filepath.Join(rootPath, patch.ConfigFileName))
	require.NoError(testInstance, firstReadError)
	firstIgnore, firstIgnoreReadError := os.ReadFile(filepath.Join(rootPath, patch.IgnoreFileName))
	require.NoError(testInstance, firstIgnoreReadError)

	secondOutcome, secondError := patcher.EnsureConfig(rootPath, testUsernameConstant)
	require.NoError(testInstance, secondError)
	require.False(testInstance, secondOutcome.UsernameApplied)
	require.False(testInstance, secondOutcome.IgnoreExceptionAdded)

	secondConfig, secondReadError := os.ReadFile(filepath.Join(rootPath, patch.ConfigFileName))
	require.NoError(testInstance, secondReadError)
	require.Equal(testInstance, firstConfig, secondConfig)

	secondIgnore, secondIgnoreReadError := os.ReadFile(filepath.Join(rootPath, patch.IgnoreFileName))
	require.NoError(testInstance, secondIgnoreReadError)
	require.Equal(testInstance, firstIgnore, secondIgnore)
}

func TestConfigPatcherIgnoreExceptionScenarios(testInstance *testing.T) {
	testCases := []struct {
		name              string
		ignoreDocument    string
		ignoreFileMissing bool
		expectException   bool
	}{
		{
			name:            "config_ignored_without_exception",
			ignoreDocument:  "*.log\nconfig.yml\n.venv/\n",
			expectException: true,
		},
		{
			name:            "config_ignored_with_surrounding_whitespace",
			ignoreDocument:  "  config.yml  \n",
			expectException: true,
		},
		{
			name:            "config_not_ignored",
			ignoreDocument:  "*.log\n.venv/\n",
			expectException: false,
		},
		{
			name:            "exception_already_present",
			ignoreDocument:  "config.yml\n\n# allow profile config\n!config.yml\n",
			expectException: false,
		},
		{
			name:              "ignore_file_missing",
			ignoreFileMissing: true,
			expectException:   false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rootPath := testInstance.TempDir()
			require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, testTemplateFileNameConstant), []byte(testTemplateContentConstant), 0o644))
			if !testCase.ignoreFileMissing {
				require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, patch.IgnoreFileName), []byte(testCase.ignoreDocument), 0o644))
			}

			patcher := patch.NewConfigPatcher(zap.NewNop())
			outcome, ensureError := patcher.EnsureConfig(rootPath, testUsernameConstant)
			require.NoError(testInstance, ensureError)
			require.Equal(testInstance, testCase.expectException, outcome.IgnoreExceptionAdded)
		})
	}
}

func TestConfigPatcherIgnoreExceptionAddedExactlyOnce(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, testTemplateFileNameConstant), []byte(testTemplateContentConstant), 0o644))
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootPath, patch.IgnoreFileName), []byte("config.yml\n"), 0o644))

	patcher := patch.NewConfigPatcher(zap.NewNop())
	for runIndex := 0; runIndex < 3; runIndex++ {
		_, ensureError := patcher.EnsureConfig(rootPath, testUsernameConstant)
		require.NoError(testInstance, ensureError)
	}

	ignoreContent, readError := os.ReadFile(filepath.Join(rootPath, patch.IgnoreFileName))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, 1, strings.Count(string(ignoreContent), testIgnoreExceptionLineConstant))
}

func TestConfigPatcherWriteForcedConfig(testInstance *testing.T) {
	rootPath := testInstance.TempDir()

	patcher := patch.NewConfigPatcher(zap.NewNop())
	require.NoError(testInstance, patcher.WriteForcedConfig(rootPath, testUsernameConstant))

	configContent, readError := os.ReadFile(filepath.Join(rootPath, patch.ConfigFileName))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, patch.RenderProfileConfigDocument(testUsernameConstant), string(configContent))
	require.Contains(testInstance, string(configContent), "username: "+testUsernameConstant+"\n")
}
