package common

import (
	"fmt"
	"slices"
	"strings"

	"resumeassist/internal/errors"
	"resumeassist/internal/formatters"
)

// ValidateOutputFormat checks format against the configured formats and the
// formats a renderer exists for
func ValidateOutputFormat(format string, supportedFormats []string) error {
	allowed := GetSupportedFormats(supportedFormats)
	if slices.Contains(allowed, format) {
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("Unsupported output format '%s' (supported: %s)", format, strings.Join(allowed, ", ")), nil).
		WithContext("format", format)
}

// GetSupportedFormats returns the configured formats that can be rendered.
// An empty configuration allows every registered format.
func GetSupportedFormats(supportedFormats []string) []string {
	registered := formatters.GlobalRegistry.GetSupportedFormats()
	if len(supportedFormats) == 0 {
		return registered
	}
	var formats []string
	for _, f := range supportedFormats {
		if slices.Contains(registered, f) {
			formats = append(formats, f)
		}
	}
	return formats
}
