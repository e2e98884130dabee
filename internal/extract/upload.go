package extract

import (
	"strings"

	"resumeinsight/internal/errors"
)

var uploadExtensions = map[string]bool{".pdf": true, ".docx": true}

// ValidateUpload checks the client supplied name and media type of an uploaded resume.
// Both the extension and the declared media type must point at PDF or DOCX.
func ValidateUpload(filename, mediaType string) error {
	if uploadExtensions[FileExtension(filename)] && acceptedMediaType(mediaType) {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeUnsupportedFileType, "Unsupported file type", nil).
		WithContext("file", filename).
		WithContext("media_type", mediaType)
}

func acceptedMediaType(mediaType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if base, _, ok := strings.Cut(mt, ";"); ok {
		mt = strings.TrimSpace(base)
	}
	return strings.Contains(mt, "pdf") || strings.Contains(mt, "docx") || mt == MediaTypeDOCX
}
