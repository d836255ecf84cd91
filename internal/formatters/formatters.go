package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumeassist/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalyzeResult", &AnalyzeTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalyzeResult", &AnalyzeMarkdownFormatter{})
	registry.RegisterFormatter("text", "CompareResult", &CompareTextFormatter{})
	registry.RegisterFormatter("markdown", "CompareResult", &CompareMarkdownFormatter{})
	registry.RegisterFormatter("text", "TailorResult", &documentFormatter{kind: "TailorResult", title: "Tailored Resume"})
	registry.RegisterFormatter("markdown", "TailorResult", &documentFormatter{kind: "TailorResult", title: "Tailored Resume", markdown: true})
	registry.RegisterFormatter("text", "CoverLetterResult", &documentFormatter{kind: "CoverLetterResult", title: "Cover Letter"})
	registry.RegisterFormatter("markdown", "CoverLetterResult", &documentFormatter{kind: "CoverLetterResult", title: "Cover Letter", markdown: true})
	registry.RegisterFormatter("text", "HealthStatus", &HealthTextFormatter{})
	registry.RegisterFormatter("markdown", "HealthStatus", &HealthTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalyzeResult:
		return "AnalyzeResult"
	case types.CompareResult:
		return "CompareResult"
	case types.TailorResult:
		return "TailorResult"
	case types.CoverLetterResult:
		return "CoverLetterResult"
	case types.HealthStatus:
		return "HealthStatus"
	default:
		return "unknown"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal to JSON: %w", err)
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// Score renders a 0-100 score the way every view shows it
func Score(v int) string {
	return fmt.Sprintf("%d/100", v)
}

// AnalyzeTextFormatter handles text formatting for resume feedback
type AnalyzeTextFormatter struct{}

func (atf *AnalyzeTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeResult)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME FEEDBACK ===\n\n")
	if result.Message != "" {
		output.WriteString(result.Message)
		output.WriteString("\n\n")
	}
	output.WriteString(fmt.Sprintf("Score: %s\n", Score(result.Score)))
	output.WriteString(fmt.Sprintf("ATS Score: %s\n\n", Score(result.ATSScore)))

	output.WriteString("=== STRENGTHS ===\n")
	writeTextList(&output, result.Strengths)
	output.WriteString("\n")

	output.WriteString("=== FIX SUGGESTIONS ===\n")
	writeTextList(&output, result.FixSuggestions)

	return output.String(), nil
}

func (atf *AnalyzeTextFormatter) SupportedType() string {
	return "AnalyzeResult"
}

// AnalyzeMarkdownFormatter handles markdown formatting for resume feedback
type AnalyzeMarkdownFormatter struct{}

func (amf *AnalyzeMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeResult)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Feedback\n\n")
	if result.Message != "" {
		output.WriteString(fmt.Sprintf("_%s_\n\n", result.Message))
	}
	output.WriteString(fmt.Sprintf("**Score:** %s\n\n", Score(result.Score)))
	output.WriteString(fmt.Sprintf("**ATS Score:** %s\n\n", Score(result.ATSScore)))

	output.WriteString("## Strengths\n\n")
	writeMarkdownList(&output, result.Strengths)
	output.WriteString("\n")

	output.WriteString("## Fix Suggestions\n\n")
	writeMarkdownList(&output, result.FixSuggestions)

	return output.String(), nil
}

func (amf *AnalyzeMarkdownFormatter) SupportedType() string {
	return "AnalyzeResult"
}

type improvementSection struct {
	title string
	items []string
}

// sections lists the non-empty improvement groups in display order
func sections(g types.ImprovementGroups) []improvementSection {
	all := []improvementSection{
		{"Resume 1", g.First},
		{"Resume 2", g.Second},
		{"Common Suggestions", g.Common},
		{"Other", g.Other},
	}
	out := all[:0]
	for _, s := range all {
		if len(s.items) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// CompareTextFormatter handles text formatting for comparison results
type CompareTextFormatter struct{}

func (ctf *CompareTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CompareResult)
	if !ok {
		return "", fmt.Errorf("expected CompareResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COMPARISON RESULT ===\n\n")
	output.WriteString(fmt.Sprintf("Best Resume: %s\n", result.BestResume))
	output.WriteString(fmt.Sprintf("Best Score: %s\n", Score(result.BestScore)))
	output.WriteString(fmt.Sprintf("ATS Score: %s\n", Score(result.ATSScore)))

	for _, s := range sections(types.GroupImprovements(result.Improvements)) {
		output.WriteString(fmt.Sprintf("\n=== %s ===\n", strings.ToUpper(s.title)))
		writeTextList(&output, s.items)
	}

	return output.String(), nil
}

func (ctf *CompareTextFormatter) SupportedType() string {
	return "CompareResult"
}

// CompareMarkdownFormatter handles markdown formatting for comparison results
type CompareMarkdownFormatter struct{}

func (cmf *CompareMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CompareResult)
	if !ok {
		return "", fmt.Errorf("expected CompareResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Comparison Result\n\n")
	output.WriteString(fmt.Sprintf("**Best Resume:** %s\n\n", result.BestResume))
	output.WriteString(fmt.Sprintf("**Best Score:** %s\n\n", Score(result.BestScore)))
	output.WriteString(fmt.Sprintf("**ATS Score:** %s\n", Score(result.ATSScore)))

	groups := sections(types.GroupImprovements(result.Improvements))
	if len(groups) > 0 {
		output.WriteString("\n## Improvements\n")
	}
	for _, s := range groups {
		output.WriteString(fmt.Sprintf("\n### %s\n\n", s.title))
		writeMarkdownList(&output, s.items)
	}

	return output.String(), nil
}

func (cmf *CompareMarkdownFormatter) SupportedType() string {
	return "CompareResult"
}

// documentFormatter renders results that are a single block of generated text
type documentFormatter struct {
	kind     string
	title    string
	markdown bool
}

func (df *documentFormatter) Format(data any) (string, error) {
	var body string
	switch v := data.(type) {
	case types.TailorResult:
		body = v.TailoredResume
	case types.CoverLetterResult:
		body = v.CoverLetter
	default:
		return "", fmt.Errorf("expected %s, got %T", df.kind, data)
	}

	if df.markdown {
		return fmt.Sprintf("# %s\n\n%s\n", df.title, body), nil
	}
	return fmt.Sprintf("=== %s ===\n\n%s\n", strings.ToUpper(df.title), body), nil
}

func (df *documentFormatter) SupportedType() string {
	return df.kind
}

// HealthTextFormatter prints the backend's status line
type HealthTextFormatter struct{}

func (htf *HealthTextFormatter) Format(data any) (string, error) {
	status, ok := data.(types.HealthStatus)
	if !ok {
		return "", fmt.Errorf("expected HealthStatus, got %T", data)
	}
	return status.Message, nil
}

func (htf *HealthTextFormatter) SupportedType() string {
	return "HealthStatus"
}

func writeTextList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("(none)\n")
		return
	}
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func writeMarkdownList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("_None_\n")
		return
	}
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

// GlobalRegistry is the default formatter registry instance
var GlobalRegistry = NewFormatterRegistry()
