package types

import "strings"

// Attachment is a file carried by a multipart submission
type Attachment struct {
	FieldName string `json:"fieldName"`
	FileName  string `json:"fileName"`
	Content   []byte `json:"-"`
	MediaType string `json:"mediaType"`
}

// Field is a named text value carried by a submission
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SubmissionRequest is the wire-level shape of one outbound call. It is built
// fresh for every submit and discarded after the round-trip.
type SubmissionRequest struct {
	Files  []Attachment
	Fields []Field
}

// IsMultipart reports whether the request must be sent as multipart form data
func (r SubmissionRequest) IsMultipart() bool {
	return len(r.Files) > 0
}

// FieldMap returns the text fields as a JSON-ready object
func (r SubmissionRequest) FieldMap() map[string]string {
	m := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		m[f.Name] = f.Value
	}
	return m
}

// UploadRequest asks the backend to analyze one resume
type UploadRequest struct {
	Resume *Attachment
}

// CompareRequest asks the backend to compare two resumes
type CompareRequest struct {
	First  *Attachment
	Second *Attachment
}

// TailorRequest asks the backend to tailor resume text to a job posting
type TailorRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// CoverLetterRequest asks the backend for a cover letter
type CoverLetterRequest struct {
	Resume         *Attachment
	JobDescription string
}

// AnalyzeResult is the feedback returned for a single resume
type AnalyzeResult struct {
	Score          int      `json:"score"`
	ATSScore       int      `json:"ats_score"`
	Strengths      []string `json:"strengths"`
	FixSuggestions []string `json:"fix_suggestions"`
	Message        string   `json:"message,omitempty"`
}

// CompareResult is the outcome of comparing two resumes
type CompareResult struct {
	BestResume   string   `json:"best_resume"`
	BestScore    int      `json:"best_score"`
	ATSScore     int      `json:"ats_score"`
	Improvements []string `json:"improvements"`
}

// TailorResult carries the tailored resume text
type TailorResult struct {
	TailoredResume string `json:"tailored_resume"`
}

// CoverLetterResult carries the generated cover letter
type CoverLetterResult struct {
	CoverLetter string `json:"cover_letter"`
}

// ChatRequest is the body of a chat call
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the backend's answer to a chat message
type ChatReply struct {
	Response string `json:"response"`
}

// HealthStatus is returned by the backend's root endpoint
type HealthStatus struct {
	Message string `json:"message"`
}

// Improvement group prefixes used by the compare endpoint
const (
	FirstResumePrefix  = "Resume 1: "
	SecondResumePrefix = "Resume 2: "
	BothResumesPrefix  = "Both Resumes: "
)

// ImprovementGroups holds compare improvements split by the resume they apply to.
// Prefixes are stripped.
type ImprovementGroups struct {
	First  []string `json:"resume1"`
	Second []string `json:"resume2"`
	Common []string `json:"common"`
	Other  []string `json:"other,omitempty"`
}

// GroupImprovements splits improvement strings by their prefix. Items that
// carry none of the known prefixes land in Other.
func GroupImprovements(items []string) ImprovementGroups {
	var g ImprovementGroups
	for _, item := range items {
		switch {
		case strings.HasPrefix(item, FirstResumePrefix):
			g.First = append(g.First, strings.TrimPrefix(item, FirstResumePrefix))
		case strings.HasPrefix(item, SecondResumePrefix):
			g.Second = append(g.Second, strings.TrimPrefix(item, SecondResumePrefix))
		case strings.HasPrefix(item, BothResumesPrefix):
			g.Common = append(g.Common, strings.TrimPrefix(item, BothResumesPrefix))
		default:
			g.Other = append(g.Other, item)
		}
	}
	return g
}

// ErrorResponse is the error body returned by the backend
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
