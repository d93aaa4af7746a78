package models

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/apperrors"
)

// pdfBytes is a minimal but sniffable PDF payload
var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF")

// pngBytes carries the PNG magic number
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestCVFile_ValidPDF(t *testing.T) {
	cv := &CVFile{Name: "cv.pdf", ContentType: "application/pdf", Content: pdfBytes}
	assert.NoError(t, cv.Validate())
}

func TestCVFile_DeclaredTypeRejected(t *testing.T) {
	cv := &CVFile{Name: "photo.png", ContentType: "image/png", Content: pngBytes}
	err := cv.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidFileFormat))
}

func TestCVFile_SizeExceeded(t *testing.T) {
	cv := &CVFile{Name: "cv.pdf", ContentType: "application/pdf", Size: MaxCVSize + 1}
	err := cv.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindFileSizeExceeded))
}

func TestCVFile_SizeFromContentLength(t *testing.T) {
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{'x'}, MaxCVSize)...)
	cv := &CVFile{Name: "cv.pdf", ContentType: "application/pdf", Content: content}
	err := cv.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindFileSizeExceeded))
}

func TestCVFile_ExactLimitAccepted(t *testing.T) {
	cv := &CVFile{Name: "cv.pdf", ContentType: "application/pdf", Size: MaxCVSize, Content: pdfBytes}
	assert.NoError(t, cv.Validate())
}

func TestCVFile_SniffContradictsDeclaredType(t *testing.T) {
	// Declared as PDF but the bytes are a PNG
	cv := &CVFile{Name: "cv.pdf", ContentType: "application/pdf", Content: pngBytes}
	err := cv.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidFileFormat))
}

func TestCVFile_DocxZipContainerAccepted(t *testing.T) {
	// DOCX files sniff as zip containers; the parent type must be tolerated
	zipHeader := []byte{'P', 'K', 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}
	cv := &CVFile{
		Name:        "cv.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:     zipHeader,
	}
	assert.NoError(t, cv.Validate())
}

func TestCVFile_NoContentSkipsSniffing(t *testing.T) {
	cv := &CVFile{Name: "cv.pdf", ContentType: "application/pdf", Size: 1024}
	assert.NoError(t, cv.Validate())
}
