package patch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	// ReadmeFileName is the root-relative path of the repository README.
	ReadmeFileName = "README.md"
	// ProfileReadmeFileName is the root-relative path of the profile README source.
	ProfileReadmeFileName = "README.profile.md"

	backupTimestampLayoutConstant     = "20060102-150405"
	backupNameTemplateConstant        = "%s.backup.%s"
	profileReadmeArtifactNameConstant = "profile README (README.profile.md)"
	readmeBackupErrorTemplateConstant = "unable to back up %s: %w"
	readmeWriteErrorTemplateConstant  = "unable to write %s: %w"
	readmeReadErrorTemplateConstant   = "unable to read %s: %w"
	readmeStatErrorTemplateConstant   = "unable to inspect %s: %w"
	readmeBackupLogMessageConstant    = "Existing README backed up"
	readmeReplacedLogMessageConstant  = "README replaced with profile document"
	backupPathLogFieldConstant        = "backup_path"
)

// ReadmeOutcome captures the observable effects of ReplaceReadme.
type ReadmeOutcome struct {
	BackupPath string
}

// ReadmeSwapper replaces the repository README with the bundled profile document.
type ReadmeSwapper struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewReadmeSwapper constructs a ReadmeSwapper using the wall clock for backup timestamps.
func NewReadmeSwapper(logger *zap.Logger) *ReadmeSwapper {
	return NewReadmeSwapperWithClock(logger, time.Now)
}

// NewReadmeSwapperWithClock constructs a ReadmeSwapper with an injected clock.
func NewReadmeSwapperWithClock(logger *zap.Logger, clock func() time.Time) *ReadmeSwapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &ReadmeSwapper{logger: logger, now: clock}
}

// ReplaceReadme copies README.profile.md over README.md. A pre-existing README
// is first moved aside to a timestamped backup that is never deleted. A missing
// profile document is a MissingArtifactError.
func (swapper *ReadmeSwapper) ReplaceReadme(rootPath string) (ReadmeOutcome, error) {
	profilePath := filepath.Join(rootPath, ProfileReadmeFileName)
	profileInfo, profileStatError := os.Stat(profilePath)
	if profileStatError != nil {
		if os.IsNotExist(profileStatError) {
			return ReadmeOutcome{}, MissingArtifactError{ArtifactName: profileReadmeArtifactNameConstant}
		}
		return ReadmeOutcome{}, fmt.Errorf(readmeStatErrorTemplateConstant, profilePath, profileStatError)
	}

	outcome := ReadmeOutcome{}

	readmePath := filepath.Join(rootPath, ReadmeFileName)
	if _, readmeStatError := os.Stat(readmePath); readmeStatError == nil {
		backupTimestamp := swapper.now().Format(backupTimestampLayoutConstant)
		backupPath := filepath.Join(rootPath, fmt.Sprintf(backupNameTemplateConstant, ReadmeFileName, backupTimestamp))
		if backupError := os.Rename(readmePath, backupPath); backupError != nil {
			return ReadmeOutcome{}, fmt.Errorf(readmeBackupErrorTemplateConstant, readmePath, backupError)
		}
		outcome.BackupPath = backupPath
		swapper.logger.Info(readmeBackupLogMessageConstant, zap.String(backupPathLogFieldConstant, filepath.Base(backupPath)))
	}

	profileContent, profileReadError := os.ReadFile(profilePath)
	if profileReadError != nil {
		return ReadmeOutcome{}, fmt.Errorf(readmeReadErrorTemplateConstant, profilePath, profileReadError)
	}

	if writeError := os.WriteFile(readmePath, profileContent, profileInfo.Mode().Perm()); writeError != nil {
		return ReadmeOutcome{}, fmt.Errorf(readmeWriteErrorTemplateConstant, readmePath, writeError)
	}

	swapper.logger.Info(readmeReplacedLogMessageConstant)
	return outcome, nil
}
