package bootstrap

import "strings"

// Default commit messages recorded when no override is configured.
const (
	DefaultBootstrapCommitMessage = "chore: bootstrap galaxy profile"
	DefaultRunCommitMessage       = "chore: update galaxy profile"
)

// CommandConfiguration captures persisted configuration for the bootstrap commands.
type CommandConfiguration struct {
	EnableDebugLogging bool   `mapstructure:"debug"`
	Username           string `mapstructure:"username"`
	CommitMessage      string `mapstructure:"message"`
}

// DefaultCommandConfiguration returns baseline configuration values for the bootstrap commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		EnableDebugLogging: false,
		Username:           "",
		CommitMessage:      "",
	}
}

// Sanitize trims configured values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Username = strings.TrimSpace(configuration.Username)
	sanitized.CommitMessage = strings.TrimSpace(configuration.CommitMessage)
	return sanitized
}

const (
	configurationDebugKeyConstant    = "debug"
	configurationUsernameKeyConstant = "username"
	configurationMessageKeyConstant  = "message"
)

// DefaultConfigurationValues exposes baseline configuration values keyed beneath rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationDebugKeyConstant:    defaults.EnableDebugLogging,
		rootKey + "." + configurationUsernameKeyConstant: defaults.Username,
		rootKey + "." + configurationMessageKeyConstant:  defaults.CommitMessage,
	}
}
