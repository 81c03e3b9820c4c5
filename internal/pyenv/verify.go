package pyenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// GeneratedHeaderRelativePath is the root-relative path of the rendered header asset.
	GeneratedHeaderRelativePath = "assets/generated/galaxy-header.svg"

	configFileNameConstant                  = "config.yml"
	headerMissingWarningTemplateConstant    = "%s was not generated"
	headerNameWarningTemplateConstant       = "%s does not mention %q; confirm config.yml carries the expected profile"
	configUnreadableWarningTemplateConstant = "config.yml could not be parsed for verification: %v"
	readHeaderErrorTemplateConstant         = "unable to read %s: %w"
	outputVerifiedLogMessageConstant        = "Generated output verified"
	expectedNameLogFieldConstant            = "expected_name"
)

// profileConfigDocument captures the configuration fields relevant to verification.
type profileConfigDocument struct {
	Username string `yaml:"username"`
	Profile  struct {
		Name string `yaml:"name"`
	} `yaml:"profile"`
}

// OutputVerifier inspects generated assets for plausibility; findings are
// reported as warnings, never as failures.
type OutputVerifier struct {
	logger *zap.Logger
}

// NewOutputVerifier constructs an OutputVerifier.
func NewOutputVerifier(logger *zap.Logger) *OutputVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutputVerifier{logger: logger}
}

// VerifyOutputs checks that the generated header asset exists and mentions the
// profile name declared in config.yml (falling back to the username). Every
// finding becomes a warning string; only I/O failures on an existing asset are errors.
func (verifier *OutputVerifier) VerifyOutputs(rootPath string) ([]string, error) {
	headerPath := filepath.Join(rootPath, filepath.FromSlash(GeneratedHeaderRelativePath))
	if _, statError := os.Stat(headerPath); statError != nil {
		if os.IsNotExist(statError) {
			return []string{fmt.Sprintf(headerMissingWarningTemplateConstant, GeneratedHeaderRelativePath)}, nil
		}
		return nil, fmt.Errorf(readHeaderErrorTemplateConstant, headerPath, statError)
	}

	headerContent, readError := os.ReadFile(headerPath)
	if readError != nil {
		return nil, fmt.Errorf(readHeaderErrorTemplateConstant, headerPath, readError)
	}

	expectedName, warnings := verifier.expectedProfileName(rootPath)
	if len(expectedName) == 0 {
		return warnings, nil
	}

	if !strings.Contains(string(headerContent), expectedName) {
		warnings = append(warnings, fmt.Sprintf(headerNameWarningTemplateConstant, GeneratedHeaderRelativePath, expectedName))
		return warnings, nil
	}

	verifier.logger.Info(outputVerifiedLogMessageConstant, zap.String(expectedNameLogFieldConstant, expectedName))
	return warnings, nil
}

func (verifier *OutputVerifier) expectedProfileName(rootPath string) (string, []string) {
	configContent, readError := os.ReadFile(filepath.Join(rootPath, configFileNameConstant))
	if readError != nil {
		return "", []string{fmt.Sprintf(configUnreadableWarningTemplateConstant, readError)}
	}

	var configDocument profileConfigDocument
	if unmarshalError := yaml.Unmarshal(configContent, &configDocument); unmarshalError != nil {
		return "", []string{fmt.Sprintf(configUnreadableWarningTemplateConstant, unmarshalError)}
	}

	if trimmedName := strings.TrimSpace(configDocument.Profile.Name); len(trimmedName) > 0 {
		return trimmedName, nil
	}
	return strings.TrimSpace(configDocument.Username), nil
}
