package common

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumeassist/internal/errors"
)

func TestValidateOutputFormat(t *testing.T) {
	all := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   bool
	}{
		{"json", "json", all, false},
		{"text", "text", all, false},
		{"markdown", "markdown", all, false},
		{"unknown format", "xml", all, true},
		{"case sensitive", "JSON", all, true},
		{"empty format", "", all, true},
		{"not configured", "text", []string{"json"}, true},
		{"configured but not renderable", "yaml", []string{"json", "yaml"}, true},
		{"empty configuration allows registered", "markdown", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "text"}, GetSupportedFormats([]string{"json", "csv", "text"}))
	assert.ElementsMatch(t, []string{"json", "text", "markdown"}, GetSupportedFormats(nil))
	assert.Empty(t, GetSupportedFormats([]string{"csv"}))
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}
	for b.Loop() {
		_ = ValidateOutputFormat("json", supportedFormats)
	}
}
