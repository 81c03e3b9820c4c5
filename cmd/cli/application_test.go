package cli_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luerfel/galaxy-bootstrap/cmd/cli"
	"github.com/luerfel/galaxy-bootstrap/internal/bootstrap"
)

const (
	testBootstrapCommandNameConstant = "bootstrap"
	testRunCommandNameConstant       = "run"
	testProfileConfigurationKey      = "profile"
)

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := cli.NewApplication()
	rootCommand := application.RootCommand()
	require.NotNil(testInstance, rootCommand)

	registeredNames := map[string]bool{}
	for _, registeredCommand := range rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	require.True(testInstance, registeredNames[testBootstrapCommandNameConstant])
	require.True(testInstance, registeredNames[testRunCommandNameConstant])
}

func TestRootCommandCarriesPersistentFlags(testInstance *testing.T) {
	application := cli.NewApplication()
	persistentFlags := application.RootCommand().PersistentFlags()

	require.NotNil(testInstance, persistentFlags.Lookup("config"))
	require.NotNil(testInstance, persistentFlags.Lookup("log-level"))
	require.NotNil(testInstance, persistentFlags.Lookup("log-format"))
}

func TestDefaultConfigurationValuesCoverProfileKeys(testInstance *testing.T) {
	defaultValues := bootstrap.DefaultConfigurationValues(testProfileConfigurationKey)

	require.Contains(testInstance, defaultValues, "profile.debug")
	require.Contains(testInstance, defaultValues, "profile.username")
	require.Contains(testInstance, defaultValues, "profile.message")
}
