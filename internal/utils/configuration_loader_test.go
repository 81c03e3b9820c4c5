package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luerfel/galaxy-bootstrap/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTGALAXY"
	testLogLevelKeyConstant           = "common.log_level"
	testUsernameKeyConstant           = "profile.username"
	testDefaultLogLevelConstant       = "info"
	testFileLogLevelConstant          = "warn"
	testEnvironmentLogLevelConstant   = "error"
	testConfigFileNameConstant        = "config.yaml"
	testConfigContentTemplateConstant = "common:\n  log_level: %s\nprofile:\n  username: %s\n"
	testConfiguredUsernameConstant    = "luerfel"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testLogLevelEnvironmentName       = testEnvironmentPrefixConstant + "_COMMON_LOG_LEVEL"
)

type configurationFixture struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
	Profile struct {
		Username string `mapstructure:"username"`
	} `mapstructure:"profile"`
}

func writeConfigurationFile(testInstance *testing.T, logLevel string) string {
	testInstance.Helper()
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigFileNameConstant)
	configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, logLevel, testConfiguredUsernameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o644))
	return configurationFilePath
}

func TestConfigurationLoaderAppliesDefaults(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})

	var loadedFixture configurationFixture
	metadata, loadError := loader.LoadConfiguration("", map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant}, &loadedFixture)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testDefaultLogLevelConstant, loadedFixture.Common.LogLevel)
	require.Empty(testInstance, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderFileOverridesDefaults(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, testFileLogLevelConstant)
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	var loadedFixture configurationFixture
	metadata, loadError := loader.LoadConfiguration(configurationFilePath, map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant, testUsernameKeyConstant: ""}, &loadedFixture)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testFileLogLevelConstant, loadedFixture.Common.LogLevel)
	require.Equal(testInstance, testConfiguredUsernameConstant, loadedFixture.Profile.Username)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderEnvironmentOverridesFile(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, testFileLogLevelConstant)
	testInstance.Setenv(testLogLevelEnvironmentName, testEnvironmentLogLevelConstant)

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	var loadedFixture configurationFixture
	_, loadError := loader.LoadConfiguration(configurationFilePath, map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant}, &loadedFixture)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testEnvironmentLogLevelConstant, loadedFixture.Common.LogLevel)
}
