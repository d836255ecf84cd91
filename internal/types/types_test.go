package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupImprovements(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		expected ImprovementGroups
	}{
		{
			name: "one item per group",
			items: []string{
				"Resume 1: Add metrics",
				"Resume 2: Shorten summary",
				"Both Resumes: Use action verbs",
			},
			expected: ImprovementGroups{
				First:  []string{"Add metrics"},
				Second: []string{"Shorten summary"},
				Common: []string{"Use action verbs"},
			},
		},
		{
			name:  "unprefixed items go to other",
			items: []string{"Resume 1: Add metrics", "General tip"},
			expected: ImprovementGroups{
				First: []string{"Add metrics"},
				Other: []string{"General tip"},
			},
		},
		{
			name:     "empty input",
			items:    nil,
			expected: ImprovementGroups{},
		},
		{
			name:  "order is preserved within a group",
			items: []string{"Resume 2: b", "Resume 2: a"},
			expected: ImprovementGroups{
				Second: []string{"b", "a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GroupImprovements(tt.items))
		})
	}
}

func TestSubmissionRequestEncoding(t *testing.T) {
	jsonReq := SubmissionRequest{Fields: []Field{{Name: "resume_text", Value: "x"}}}
	assert.False(t, jsonReq.IsMultipart())
	assert.Equal(t, map[string]string{"resume_text": "x"}, jsonReq.FieldMap())

	multipartReq := SubmissionRequest{Files: []Attachment{{FieldName: "resume", FileName: "cv.pdf"}}}
	assert.True(t, multipartReq.IsMultipart())
}
