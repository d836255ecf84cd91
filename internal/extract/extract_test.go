package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeassist/internal/errors"
)

func TestExtractTextPlain(t *testing.T) {
	text, err := ExtractText("text/plain; charset=utf-8", []byte("Jane Doe\nGo engineer"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo engineer", text)

	text, err = ExtractText("text/markdown", []byte("# Jane"))
	require.NoError(t, err)
	assert.Equal(t, "# Jane", text)
}

func TestExtractTextUnsupported(t *testing.T) {
	_, err := ExtractText("image/png", []byte{0x89, 'P', 'N', 'G'})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnsupportedMediaType, appErr.Code)
}

func TestExtractTextBrokenPDF(t *testing.T) {
	_, err := ExtractText(MediaTypePDF, []byte("%PDF-1.4 truncated"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}

func TestDetectMediaType(t *testing.T) {
	assert.Equal(t, "text/plain", DetectMediaType([]byte("plain resume text")))
	assert.Equal(t, MediaTypePDF, DetectMediaType([]byte("%PDF-1.7\n")))
}

func TestDocxXMLToText(t *testing.T) {
	xml := `<w:body><w:p><w:r><w:t>Jane &amp; Co</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Senior</w:t></w:r><w:r><w:t xml:space="preserve"> Engineer</w:t></w:r></w:p></w:body>`

	assert.Equal(t, "Jane & Co\nSenior Engineer", docxXMLToText(xml))
}
