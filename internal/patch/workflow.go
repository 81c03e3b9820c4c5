package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const (
	// WorkflowsDirectory is the root-relative directory holding workflow documents.
	WorkflowsDirectory = ".github/workflows"
	// WorkflowFileName is the conventional generation workflow document name.
	WorkflowFileName = "generate-profile.yml"

	generatorInvocationMarkerConstant     = "python -m generator.main"
	demoInvocationConstant                = "python -m generator.main --demo"
	permissionsLinePatternConstant        = `(?m)^\s*permissions\s*:`
	workflowNameLinePatternConstant       = `(?m)^\s*name\s*:\s*.*$`
	permissionsBlockAfterNameConstant     = "\n\npermissions:\n  contents: write\n"
	permissionsBlockPrependConstant       = "permissions:\n  contents: write\n\n"
	workflowsDirectoryArtifactConstant    = "workflows directory (.github/workflows)"
	yamlExtensionConstant                 = ".yaml"
	ymlExtensionConstant                  = ".yml"
	workflowFilePermissionsConstant       = os.FileMode(0o644)
	workflowDirPermissionsConstant        = os.FileMode(0o755)
	inspectWorkflowsErrorTemplateConstant = "unable to inspect workflows directory: %w"
	readWorkflowErrorTemplateConstant     = "unable to read workflow file %s: %w"
	statWorkflowErrorTemplateConstant     = "unable to stat workflow file %s: %w"
	writeWorkflowErrorTemplateConstant    = "unable to write workflow file %s: %w"
	createWorkflowsErrorTemplateConstant  = "unable to create workflows directory: %w"
	workflowPatchedLogMessageConstant     = "Patched workflow file"
	workflowSeededLogMessageConstant      = "Wrote default generation workflow"
	workflowUnchangedLogMessageConstant   = "No generation workflow required changes"
	workflowFileLogFieldConstant          = "workflow_file"
)

var (
	permissionsLinePattern  = regexp.MustCompile(permissionsLinePatternConstant)
	workflowNameLinePattern = regexp.MustCompile(workflowNameLinePatternConstant)
)

// WorkflowOutcome captures which workflow documents were rewritten.
type WorkflowOutcome struct {
	UpdatedFiles []string
	MatchedFiles []string
	SeededFile   string
}

// WorkflowPatcher repairs GitHub Actions workflow documents that invoke the generator.
type WorkflowPatcher struct {
	logger *zap.Logger
}

// NewWorkflowPatcher constructs a WorkflowPatcher.
func NewWorkflowPatcher(logger *zap.Logger) *WorkflowPatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkflowPatcher{logger: logger}
}

// UpdateWorkflows patches every workflow document beneath the conventional
// directory that invokes the generator: the demo flag is stripped from run
// commands and a contents-write permissions declaration is inserted once.
// Documents that never invoke the generator are left untouched. A missing
// workflows directory is a MissingArtifactError.
func (patcher *WorkflowPatcher) UpdateWorkflows(rootPath string) (WorkflowOutcome, error) {
	outcome := WorkflowOutcome{UpdatedFiles: []string{}, MatchedFiles: []string{}}

	workflowsRoot := filepath.Join(rootPath, WorkflowsDirectory)
	directoryInfo, statError := os.Stat(workflowsRoot)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return WorkflowOutcome{}, MissingArtifactError{ArtifactName: workflowsDirectoryArtifactConstant}
		}
		return WorkflowOutcome{}, fmt.Errorf(inspectWorkflowsErrorTemplateConstant, statError)
	}
	if !directoryInfo.IsDir() {
		return WorkflowOutcome{}, MissingArtifactError{ArtifactName: workflowsDirectoryArtifactConstant}
	}

	directoryEntries, readError := os.ReadDir(workflowsRoot)
	if readError != nil {
		return WorkflowOutcome{}, fmt.Errorf(inspectWorkflowsErrorTemplateConstant, readError)
	}

	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		if !isWorkflowFile(directoryEntry.Name()) {
			continue
		}

		workflowPath := filepath.Join(workflowsRoot, directoryEntry.Name())
		matched, updated, patchError := patcher.patchWorkflowFile(workflowPath)
		if patchError != nil {
			return WorkflowOutcome{}, patchError
		}
		if matched {
			outcome.MatchedFiles = append(outcome.MatchedFiles, directoryEntry.Name())
		}
		if updated {
			outcome.UpdatedFiles = append(outcome.UpdatedFiles, directoryEntry.Name())
		}
	}

	if len(outcome.UpdatedFiles) == 0 {
		patcher.logger.Info(workflowUnchangedLogMessageConstant)
	}

	return outcome, nil
}

// EnsureWorkflow guarantees the conventional generation workflow document
// exists: it creates the workflows directory as needed, writes the bundled
// template when the document is absent, and otherwise patches the existing
// document in place.
func (patcher *WorkflowPatcher) EnsureWorkflow(rootPath string) (WorkflowOutcome, error) {
	workflowsRoot := filepath.Join(rootPath, WorkflowsDirectory)
	if mkdirError := os.MkdirAll(workflowsRoot, workflowDirPermissionsConstant); mkdirError != nil {
		return WorkflowOutcome{}, fmt.Errorf(createWorkflowsErrorTemplateConstant, mkdirError)
	}

	workflowPath := filepath.Join(workflowsRoot, WorkflowFileName)
	if _, workflowStatError := os.Stat(workflowPath); os.IsNotExist(workflowStatError) {
		if writeError := os.WriteFile(workflowPath, []byte(defaultWorkflowDocument), workflowFilePermissionsConstant); writeError != nil {
			return WorkflowOutcome{}, fmt.Errorf(writeWorkflowErrorTemplateConstant, workflowPath, writeError)
		}
		patcher.logger.Info(workflowSeededLogMessageConstant, zap.String(workflowFileLogFieldConstant, WorkflowFileName))
		return WorkflowOutcome{SeededFile: WorkflowFileName}, nil
	}

	matched, updated, patchError := patcher.patchWorkflowFile(workflowPath)
	if patchError != nil {
		return WorkflowOutcome{}, patchError
	}

	outcome := WorkflowOutcome{UpdatedFiles: []string{}, MatchedFiles: []string{}}
	if matched {
		outcome.MatchedFiles = append(outcome.MatchedFiles, WorkflowFileName)
	}
	if updated {
		outcome.UpdatedFiles = append(outcome.UpdatedFiles, WorkflowFileName)
	}
	return outcome, nil
}

func (patcher *WorkflowPatcher) patchWorkflowFile(workflowPath string) (bool, bool, error) {
	workflowContent, readError := os.ReadFile(workflowPath)
	if readError != nil {
		return false, false, fmt.Errorf(readWorkflowErrorTemplateConstant, workflowPath, readError)
	}

	currentDocument := string(workflowContent)
	if !strings.Contains(currentDocument, generatorInvocationMarkerConstant) {
		return false, false, nil
	}

	updatedDocument := PatchWorkflowDocument(currentDocument)
	if updatedDocument == currentDocument {
		return true, false, nil
	}

	fileInfo, infoError := os.Stat(workflowPath)
	if infoError != nil {
		return true, false, fmt.Errorf(statWorkflowErrorTemplateConstant, workflowPath, infoError)
	}

	if writeError := os.WriteFile(workflowPath, []byte(updatedDocument), fileInfo.Mode().Perm()); writeError != nil {
		return true, false, fmt.Errorf(writeWorkflowErrorTemplateConstant, workflowPath, writeError)
	}

	patcher.logger.Info(workflowPatchedLogMessageConstant, zap.String(workflowFileLogFieldConstant, filepath.Base(workflowPath)))
	return true, true, nil
}

// PatchWorkflowDocument strips the demo flag from generator invocations and
// inserts a contents-write permissions declaration when none exists, placing it
// immediately after the first name declaration or at the top of the document.
func PatchWorkflowDocument(document string) string {
	updatedDocument := strings.ReplaceAll(document, demoInvocationConstant, generatorInvocationMarkerConstant)

	if permissionsLinePattern.MatchString(updatedDocument) {
		return updatedDocument
	}

	nameLineLocation := workflowNameLinePattern.FindStringIndex(updatedDocument)
	if nameLineLocation != nil {
		insertionOffset := nameLineLocation[1]
		return updatedDocument[:insertionOffset] + permissionsBlockAfterNameConstant + updatedDocument[insertionOffset:]
	}

	return permissionsBlockPrependConstant + updatedDocument
}

func isWorkflowFile(fileName string) bool {
	extension := strings.ToLower(filepath.Ext(fileName))
	return extension == ymlExtensionConstant || extension == yamlExtensionConstant
}
