package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(small, make([]byte, 100), 0600))

	tests := []struct {
		name     string
		filename string
		maxSize  int64
		errorMsg string
	}{
		{name: "valid", filename: small, maxSize: 1024},
		{name: "no limit", filename: small, maxSize: 0},
		{name: "empty name", filename: "  ", errorMsg: "filename cannot be empty"},
		{name: "missing", filename: filepath.Join(dir, "nope.pdf"), errorMsg: "file does not exist"},
		{name: "directory", filename: dir, errorMsg: "path is a directory"},
		{name: "too large", filename: small, maxSize: 10, errorMsg: "limit is 10 B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateInputFile(tt.filename, tt.maxSize)
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestIsResumeFile(t *testing.T) {
	assert.True(t, IsResumeFile("cv.PDF"))
	assert.True(t, IsResumeFile("cv.docx"))
	assert.True(t, IsResumeFile("cv.md"))
	assert.False(t, IsResumeFile("cv.png"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "5.0 MB", FormatFileSize(5*1024*1024))
}
