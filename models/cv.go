package models

import (
	"github.com/gabriel-vasile/mimetype"

	"jobboard/apperrors"
)

// MaxCVSize is the upload limit for CV files (5 MiB)
const MaxCVSize = 5 * 1024 * 1024

var allowedCVTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// sniffedCVTypes are the content signatures accepted for a CV. DOCX files
// are zip containers and legacy DOC files are OLE storage, so both parent
// formats are tolerated.
var sniffedCVTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/zip",
	"application/x-ole-storage",
}

// CVFile is a candidate CV pending upload to the CMS media storage
type CVFile struct {
	Name        string
	ContentType string
	Size        int64
	Content     []byte
}

// Validate rejects a CV before any network call: declared MIME type must be
// PDF/DOC/DOCX, size must not exceed MaxCVSize, and when content is
// available its signature must not contradict the declared type.
func (f *CVFile) Validate() error {
	if !allowedCVTypes[f.ContentType] {
		return apperrors.New(apperrors.KindInvalidFileFormat,
			"The file format is not valid. Only PDF, DOC and DOCX files are accepted")
	}

	size := f.Size
	if size == 0 {
		size = int64(len(f.Content))
	}
	if size > MaxCVSize {
		return apperrors.New(apperrors.KindFileSizeExceeded,
			"The file exceeds the maximum allowed size of 5MB")
	}

	if len(f.Content) > 0 {
		detected := mimetype.Detect(f.Content)
		ok := false
		for _, t := range sniffedCVTypes {
			if detected.Is(t) {
				ok = true
				break
			}
		}
		if !ok {
			return apperrors.New(apperrors.KindInvalidFileFormat,
				"The file content does not match an accepted document format").
				WithDetail("detected " + detected.String())
		}
	}
	return nil
}
