package resume

import "fmt"

// UnsupportedTypeError is returned for files that are not PDF, DOCX or text
type UnsupportedTypeError struct {
	Filename    string
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported resume file %q (content type %q): use PDF, DOCX, TXT or MD", e.Filename, e.ContentType)
}

// ExtractionError represents a failure to read text out of a file
type ExtractionError struct {
	Filename      string
	Format        Format
	OriginalError error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s resume %q: %v", e.Format, e.Filename, e.OriginalError)
}

func (e *ExtractionError) Unwrap() error {
	return e.OriginalError
}

// EmptyResumeError is returned when a file yields no text
type EmptyResumeError struct {
	Filename string
}

func (e *EmptyResumeError) Error() string {
	return fmt.Sprintf("resume %q contains no readable text", e.Filename)
}

// TooLargeError is returned for files above MaxSize
type TooLargeError struct {
	Filename string
	Size     int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("resume %q is %d bytes, limit is %d", e.Filename, e.Size, MaxSize)
}
