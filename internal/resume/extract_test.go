package resume

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Go Developer</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go, SQL</w:t></w:r></w:p>
</w:body>
</w:document>`

const testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"word/document.xml":            body,
		"word/_rels/document.xml.rels": testRelsXML,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        Format
		ok          bool
	}{
		{"cv.pdf", "", FormatPDF, true},
		{"CV.PDF", "application/octet-stream", FormatPDF, true},
		{"cv.docx", "", FormatDOCX, true},
		{"cv.txt", "", FormatText, true},
		{"cv.md", "", FormatText, true},
		{"upload", "application/pdf", FormatPDF, true},
		{"upload", "text/plain; charset=utf-8", FormatText, true},
		{"upload", mimeDOCX, FormatDOCX, true},
		{"cv.doc", "application/msword", "", false},
		{"photo.png", "image/png", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.contentType, func(t *testing.T) {
			got, ok := DetectFormat(tt.filename, tt.contentType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("plain text is trimmed", func(t *testing.T) {
		text, err := Extract("cv.txt", "text/plain", []byte("\n  Jane Doe, Go developer  \n"))
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe, Go developer", text)
	})

	t.Run("docx paragraphs become lines", func(t *testing.T) {
		text, err := Extract("cv.docx", "", buildDocx(t, testDocumentXML))
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe\nSenior Go Developer\nSkills:\tGo, SQL", text)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := Extract("cv.doc", "application/msword", []byte("binary"))
		var typeErr *UnsupportedTypeError
		require.ErrorAs(t, err, &typeErr)
		assert.Equal(t, "cv.doc", typeErr.Filename)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := Extract("cv.md", "", []byte("   \n\t"))
		var emptyErr *EmptyResumeError
		assert.ErrorAs(t, err, &emptyErr)
	})

	t.Run("docx without text", func(t *testing.T) {
		body := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`
		_, err := Extract("cv.docx", "", buildDocx(t, body))
		var emptyErr *EmptyResumeError
		assert.ErrorAs(t, err, &emptyErr)
	})

	t.Run("corrupt docx", func(t *testing.T) {
		_, err := Extract("cv.docx", "", []byte("not a zip archive"))
		var extractErr *ExtractionError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, FormatDOCX, extractErr.Format)
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := Extract("cv.pdf", "", []byte("definitely not a pdf"))
		var extractErr *ExtractionError
		require.ErrorAs(t, err, &extractErr)
		assert.Equal(t, FormatPDF, extractErr.Format)
		assert.NotNil(t, extractErr.Unwrap())
	})

	t.Run("too large", func(t *testing.T) {
		_, err := Extract("cv.txt", "", []byte(strings.Repeat("a", MaxSize+1)))
		var sizeErr *TooLargeError
		assert.ErrorAs(t, err, &sizeErr)
	})
}
