package types

import (
	"io"
)

// FileUpload is a file selected for a multipart upload.
type FileUpload struct {
	Name        string
	ContentType string
	Body        io.Reader
}
