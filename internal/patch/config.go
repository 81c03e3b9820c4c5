package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	// ConfigFileName is the root-relative path of the generator configuration document.
	ConfigFileName = "config.yml"
	// IgnoreFileName is the root-relative path of the git exclusion list.
	IgnoreFileName = ".gitignore"

	configTemplateArtifactNameConstant    = "configuration template (config.example.yml)"
	usernameLinePatternConstant           = `(?m)^\s*username\s*:\s*.*$`
	usernameLineTemplateConstant          = "username: %s"
	usernameLinePrefixTemplateConstant    = "username: %s\n"
	ignoredConfigLinePatternConstant      = `(?m)^\s*config\.yml\s*$`
	ignoreExceptionLineConstant           = "!config.yml"
	ignoreExceptionBlockConstant          = "\n\n# allow profile config\n!config.yml\n"
	configFilePermissionsConstant         = os.FileMode(0o644)
	configReadErrorTemplateConstant       = "unable to read %s: %w"
	configWriteErrorTemplateConstant      = "unable to write %s: %w"
	configSeededLogMessageConstant        = "Seeded configuration from template"
	configUsernameLogMessageConstant      = "Configuration username applied"
	ignoreExceptionLogMessageConstant     = "Ignore-list exception added for configuration"
	configTemplateLogFieldConstant        = "template"
	configUsernameLogFieldConstant        = "username"
	configPathLogFieldConstant            = "config_path"
	forcedConfigWrittenLogMessageConstant = "Configuration overwritten with bundled template"
)

// configTemplateCandidates lists recognized template file names in lookup order.
var configTemplateCandidates = []string{
	"config.example.yml",
	"config.example.yaml",
	"config_example.yml",
	"config_example.yaml",
}

var (
	usernameLinePattern      = regexp.MustCompile(usernameLinePatternConstant)
	ignoredConfigLinePattern = regexp.MustCompile(ignoredConfigLinePatternConstant)
)

// ConfigOutcome captures the observable effects of EnsureConfig.
type ConfigOutcome struct {
	SeededFromTemplate   string
	UsernameApplied      bool
	IgnoreExceptionAdded bool
}

// ConfigPatcher ensures the configuration document exists and carries the requested username.
type ConfigPatcher struct {
	logger *zap.Logger
}

// NewConfigPatcher constructs a ConfigPatcher.
func NewConfigPatcher(logger *zap.Logger) *ConfigPatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigPatcher{logger: logger}
}

// EnsureConfig seeds config.yml from the first available template when absent,
// rewrites the username declaration to the requested identifier, and appends an
// ignore-list exception when config.yml is currently excluded. Repeated
// invocations with the same identifier produce no further changes.
func (patcher *ConfigPatcher) EnsureConfig(rootPath string, username string) (ConfigOutcome, error) {
	outcome := ConfigOutcome{}

	configPath := filepath.Join(rootPath, ConfigFileName)
	if _, configStatError := os.Stat(configPath); os.IsNotExist(configStatError) {
		templateName, seedError := patcher.seedFromTemplate(rootPath, configPath)
		if seedError != nil {
			return ConfigOutcome{}, seedError
		}
		outcome.SeededFromTemplate = templateName
	}

	usernameApplied, usernameError := patcher.applyUsername(configPath, username)
	if usernameError != nil {
		return ConfigOutcome{}, usernameError
	}
	outcome.UsernameApplied = usernameApplied

	exceptionAdded, ignoreError := patcher.ensureIgnoreException(rootPath)
	if ignoreError != nil {
		return ConfigOutcome{}, ignoreError
	}
	outcome.IgnoreExceptionAdded = exceptionAdded

	return outcome, nil
}

// WriteForcedConfig replaces config.yml with the bundled profile template for the given username.
func (patcher *ConfigPatcher) WriteForcedConfig(rootPath string, username string) error {
	configPath := filepath.Join(rootPath, ConfigFileName)
	renderedDocument := RenderProfileConfigDocument(username)
	if writeError := os.WriteFile(configPath, []byte(renderedDocument), configFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(configWriteErrorTemplateConstant, configPath, writeError)
	}

	patcher.logger.Info(forcedConfigWrittenLogMessageConstant, zap.String(configPathLogFieldConstant, configPath))
	return nil
}

func (patcher *ConfigPatcher) seedFromTemplate(rootPath string, configPath string) (string, error) {
	for _, templateName := range configTemplateCandidates {
		templatePath := filepath.Join(rootPath, templateName)
		templateContent, templateReadError := os.ReadFile(templatePath)
		if templateReadError != nil {
			if os.IsNotExist(templateReadError) {
				continue
			}
			return "", fmt.Errorf(configReadErrorTemplateConstant, templatePath, templateReadError)
		}

		if writeError := os.WriteFile(configPath, templateContent, configFilePermissionsConstant); writeError != nil {
			return "", fmt.Errorf(configWriteErrorTemplateConstant, configPath, writeError)
		}

		patcher.logger.Info(configSeededLogMessageConstant, zap.String(configTemplateLogFieldConstant, templateName))
		return templateName, nil
	}

	return "", MissingArtifactError{ArtifactName: configTemplateArtifactNameConstant}
}

func (patcher *ConfigPatcher) applyUsername(configPath string, username string) (bool, error) {
	configContent, readError := os.ReadFile(configPath)
	if readError != nil {
		return false, fmt.Errorf(configReadErrorTemplateConstant, configPath, readError)
	}

	currentDocument := string(configContent)
	usernameLine := fmt.Sprintf(usernameLineTemplateConstant, username)

	var updatedDocument string
	if usernameLinePattern.MatchString(currentDocument) {
		updatedDocument = usernameLinePattern.ReplaceAllLiteralString(currentDocument, usernameLine)
	} else {
		updatedDocument = fmt.Sprintf(usernameLinePrefixTemplateConstant, username) + currentDocument
	}

	if updatedDocument == currentDocument {
		return false, nil
	}

	if writeError := os.WriteFile(configPath, []byte(updatedDocument), configFilePermissionsConstant); writeError != nil {
		return false, fmt.Errorf(configWriteErrorTemplateConstant, configPath, writeError)
	}

	patcher.logger.Info(configUsernameLogMessageConstant, zap.String(configUsernameLogFieldConstant, username))
	return true, nil
}

func (patcher *ConfigPatcher) ensureIgnoreException(rootPath string) (bool, error) {
	ignorePath := filepath.Join(rootPath, IgnoreFileName)
	ignoreContent, readError := os.ReadFile(ignorePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return false, nil
		}
		return false, fmt.Errorf(configReadErrorTemplateConstant, ignorePath, readError)
	}

	ignoreDocument := string(ignoreContent)
	if !ignoredConfigLinePattern.MatchString(ignoreDocument) {
		return false, nil
	}
	if strings.Contains(ignoreDocument, ignoreExceptionLineConstant) {
		return false, nil
	}

	updatedDocument := strings.TrimRightFunc(ignoreDocument, isTrailingWhitespace) + ignoreExceptionBlockConstant
	if writeError := os.WriteFile(ignorePath, []byte(updatedDocument), configFilePermissionsConstant); writeError != nil {
		return false, fmt.Errorf(configWriteErrorTemplateConstant, ignorePath, writeError)
	}

	patcher.logger.Info(ignoreExceptionLogMessageConstant, zap.String(configPathLogFieldConstant, ignorePath))
	return true, nil
}

func isTrailingWhitespace(candidate rune) bool {
	switch candidate {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}
