package formatters

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeassist/internal/chat"
	"resumeassist/internal/types"
)

func feedback() types.AnalyzeResult {
	return types.AnalyzeResult{
		Score:          82,
		ATSScore:       75,
		Strengths:      []string{"Clear layout"},
		FixSuggestions: []string{"Add metrics"},
	}
}

func TestAnalyzeFormatters(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"Score: 82/100", "ATS Score: 75/100", "=== STRENGTHS ===", "- Clear layout", "- Add metrics"}},
		{"markdown", []string{"**Score:** 82/100", "**ATS Score:** 75/100", "## Fix Suggestions", "- Add metrics"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := GlobalRegistry.Format(feedback(), tt.format)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestAnalyzeEmptyLists(t *testing.T) {
	out, err := GlobalRegistry.Format(types.AnalyzeResult{Score: 10}, "text")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "(none)"))
}

func TestCompareGroupsImprovements(t *testing.T) {
	result := types.CompareResult{
		BestResume: "Resume 1",
		BestScore:  88,
		ATSScore:   80,
		Improvements: []string{
			"Resume 1: Add metrics",
			"Resume 2: Fix dates",
			"Both Resumes: Shorten summary",
		},
	}

	out, err := GlobalRegistry.Format(result, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Best Score: 88/100")
	assert.Contains(t, out, "=== RESUME 1 ===\n- Add metrics\n")
	assert.Contains(t, out, "=== RESUME 2 ===\n- Fix dates\n")
	assert.Contains(t, out, "=== COMMON SUGGESTIONS ===\n- Shorten summary\n")
	assert.NotContains(t, out, "OTHER")
	assert.NotContains(t, out, "Resume 1: Add metrics", "prefixes are stripped")

	md, err := GlobalRegistry.Format(result, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "### Common Suggestions\n\n- Shorten summary\n")
}

func TestCompareUnprefixedGoesToOther(t *testing.T) {
	out, err := GlobalRegistry.Format(types.CompareResult{Improvements: []string{"Use one font"}}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "=== OTHER ===\n- Use one font\n")
}

func TestDocumentFormatters(t *testing.T) {
	out, err := GlobalRegistry.Format(types.TailorResult{TailoredResume: "Jane Doe\nGo engineer"}, "text")
	require.NoError(t, err)
	assert.Equal(t, "=== TAILORED RESUME ===\n\nJane Doe\nGo engineer\n", out)

	out, err = GlobalRegistry.Format(types.CoverLetterResult{CoverLetter: "Dear team"}, "markdown")
	require.NoError(t, err)
	assert.Equal(t, "# Cover Letter\n\nDear team\n", out)
}

func TestJSONFallback(t *testing.T) {
	out, err := GlobalRegistry.Format(feedback(), "json")
	require.NoError(t, err)

	var decoded types.AnalyzeResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, feedback(), decoded)

	// unknown types still render as JSON
	_, err = GlobalRegistry.Format(map[string]int{"a": 1}, "json")
	assert.NoError(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, err := GlobalRegistry.Format(feedback(), "xml")
	assert.Error(t, err)

	_, err = GlobalRegistry.Format(map[string]int{"a": 1}, "text")
	assert.Error(t, err, "text has no generic fallback")
}

func TestMismatchedType(t *testing.T) {
	_, err := (&AnalyzeTextFormatter{}).Format(types.CompareResult{})
	assert.Error(t, err)
}

func TestThemeWritesMessages(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	theme := ThemeFor(true)
	assert.Equal(t, "dark", theme.Name())
	assert.Equal(t, "light", ThemeFor(false).Name())

	theme.WriteMessage(&buf, chat.Message{Text: "hello", Sender: chat.SenderUser, SentAt: time.Now()})
	theme.WriteMessage(&buf, chat.Message{Text: "hi there", Sender: chat.SenderBot, SentAt: time.Now()})
	assert.Equal(t, "You: hello\nBot: hi there\n", buf.String())
}
