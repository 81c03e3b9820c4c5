package patch

import "fmt"

const missingArtifactTemplateConstant = "%s not found"

// MissingArtifactError reports an expected file or directory that could not be located.
type MissingArtifactError struct {
	ArtifactName string
}

// Error names the missing artifact.
func (missingError MissingArtifactError) Error() string {
	return fmt.Sprintf(missingArtifactTemplateConstant, missingError.ArtifactName)
}
