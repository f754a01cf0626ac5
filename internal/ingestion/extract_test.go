package ingestion

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><w:document><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_Txt(t *testing.T) {
	text, err := ExtractText("resume.TXT", []byte("Jane Doe\r\n\r\n\r\n\r\nGo   developer"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\n\nGo developer", text)
}

func TestExtractText_Docx(t *testing.T) {
	data := docx(t, `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go &amp; SQL</w:t></w:r></w:p>`)

	text, err := ExtractText("cv.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills: Go & SQL", text)
}

func TestExtractText_DocxWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText("cv.docx", buf.Bytes())
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "cv.docx", extErr.Filename)
}

func TestExtractText_InvalidPDF(t *testing.T) {
	_, err := ExtractText("cv.pdf", []byte("not a pdf"))
	var extErr *ExtractionError
	assert.ErrorAs(t, err, &extErr)
}

func TestExtractText_Unsupported(t *testing.T) {
	for _, name := range []string{"cv.doc", "cv.png", "cv"} {
		_, err := ExtractText(name, []byte("x"))
		var unsupported *UnsupportedFormatError
		require.ErrorAs(t, err, &unsupported, name)
		assert.False(t, IsSupported(name))
	}
	assert.True(t, IsSupported("CV.PDF"))
}

func TestExtractText_EmptyDocument(t *testing.T) {
	_, err := ExtractText("blank.txt", []byte("  \n\n "))
	assert.True(t, errors.Is(err, ErrNoText))
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"resume.pdf", "resume.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\jane\My CV (final).pdf`, "My_CV_final_.pdf"},
		{".hidden.pdf", "hidden.pdf"},
		{"", "resume"},
		{"/", "resume"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFilename(tt.in))
		})
	}
}

func TestStorage_Save(t *testing.T) {
	s := &Storage{Dir: t.TempDir()}
	jobID := uuid.New()

	path, err := s.Save(jobID, "../jane doe.pdf", []byte("data"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(s.Dir, jobID.String()), filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_jane_doe.pdf"))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}
