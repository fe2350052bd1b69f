// Package resume turns uploaded resume files into plain text.
package resume

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// MaxSize is the largest accepted upload
const MaxSize = 10 << 20

// Format is a supported resume file format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DetectFormat picks a format from the file extension, then the content type
func DetectFormat(filename, contentType string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, true
	case ".docx":
		return FormatDOCX, true
	case ".txt", ".md", ".markdown":
		return FormatText, true
	}

	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch {
	case mime == mimePDF:
		return FormatPDF, true
	case mime == mimeDOCX:
		return FormatDOCX, true
	case mime == "text/plain", mime == "text/markdown":
		return FormatText, true
	}
	return "", false
}

// Extract returns the text of a resume file
func Extract(filename, contentType string, data []byte) (string, error) {
	if len(data) > MaxSize {
		return "", &TooLargeError{Filename: filename, Size: len(data)}
	}

	format, ok := DetectFormat(filename, contentType)
	if !ok {
		return "", &UnsupportedTypeError{Filename: filename, ContentType: contentType}
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", &ExtractionError{Filename: filename, Format: format, OriginalError: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &EmptyResumeError{Filename: filename}
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// malformed files can panic deep inside the parser
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("corrupt PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from PDF: %w", err)
	}

	content, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}
	return string(content), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentText(doc.Editable().GetContent())
}

// documentText collects the w:t runs of a WordprocessingML body, one line per
// paragraph.
func documentText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
