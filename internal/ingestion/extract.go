// Package ingestion turns uploaded resumes into cleaned text and candidate profiles.
package ingestion

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// SupportedExtensions lists the file types ExtractText accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

// IsSupported reports whether filename has a readable extension.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractText extracts and cleans plain text from a resume file.
func ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		raw string
		err error
	)
	switch ext {
	case ".pdf":
		raw, err = extractPDF(data)
	case ".docx":
		raw, err = extractDocx(data)
	case ".txt":
		raw = strings.ToValidUTF8(string(data), "")
	default:
		return "", &UnsupportedFormatError{Filename: filename, Ext: ext}
	}
	if err != nil {
		return "", &ExtractionError{Filename: filename, Cause: err}
	}

	text := CleanText(raw)
	if text == "" {
		return "", &ExtractionError{Filename: filename, Cause: ErrNoText}
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

var xmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if len(docXML) == 0 {
		return "", fmt.Errorf("no word/document.xml in docx archive")
	}

	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	xml = strings.ReplaceAll(xml, "<w:br/>", "\n")
	txt := xmlTag.ReplaceAllString(xml, "")
	return xmlEntities.Replace(txt), nil
}
