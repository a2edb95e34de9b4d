package core

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

// MaxAttachmentSize is the upload size ceiling in bytes.
const MaxAttachmentSize = 10000000

var (
	allowedAttachmentExts = regexp.MustCompile(`(?i)\.(pdf|docx|doc|jpg|jpeg|png)$`)

	errInvalidFileType = errors.New("please upload a valid file type (pdf, docx, doc, jpg, jpeg, png)")
	errFileTooLarge    = fmt.Errorf("file may not exceed %d bytes", MaxAttachmentSize)
)

// Attachment is a binary payload embedded in its owning document.
// Filename is the declared original name; only its extension is trusted,
// and only for the allow-list check.
type Attachment struct {
	Filename string
	Content  []byte
}

// Validate applies the upload policy: allowed extension and size ceiling.
// It must be called before the blob is persisted.
func (a Attachment) Validate() error {
	if !allowedAttachmentExts.MatchString(a.Filename) {
		return NewValidationError(errInvalidFileType, FieldError{Field: "file", Error: errInvalidFileType.Error()})
	}
	if len(a.Content) > MaxAttachmentSize {
		return NewValidationError(errFileTooLarge, FieldError{Field: "file", Error: errFileTooLarge.Error()})
	}
	return nil
}
