// Package extract turns resume documents into plain text for the endpoints
// that take text rather than a file. It does not interpret the text.
package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resumeassist/internal/errors"
)

// Media types handled by ExtractText
const (
	MediaTypePlain = "text/plain"
	MediaTypePDF   = "application/pdf"
	MediaTypeDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DetectMediaType sniffs the content and returns its media type without parameters
func DetectMediaType(data []byte) string {
	mt := mimetype.Detect(data)
	if i := strings.IndexByte(mt.String(), ';'); i >= 0 {
		return strings.TrimSpace(mt.String()[:i])
	}
	return mt.String()
}

// ExtractText returns the plain text of a resume document
func ExtractText(mediaType string, data []byte) (string, error) {
	mt := mimetype.Lookup(mediaType)
	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return string(data), nil
	case mt != nil && mt.Is(MediaTypePDF):
		return extractPDFText(data)
	case mt != nil && mt.Is(MediaTypeDOCX):
		return extractDocxText(data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedMediaType,
			fmt.Sprintf("Cannot extract text from %s", mediaType), nil)
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to read PDF", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("Failed to read PDF page %d", i), err)
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}
	return strings.TrimSpace(text.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to parse DOCX", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	anyTag       = regexp.MustCompile(`<[^>]+>`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
)

// docxXMLToText strips WordprocessingML markup, keeping one line per paragraph
func docxXMLToText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = anyTag.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = blankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
