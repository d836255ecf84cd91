package submission

import (
	"context"
	"strings"

	"resumeassist/internal/types"
)

// Flow names, also used as span and metric labels
const (
	FlowUpload      = "upload"
	FlowCompare     = "compare"
	FlowTailor      = "tailor"
	FlowCoverLetter = "cover_letter"
)

// User-visible messages per flow
var (
	UploadMessages = Messages{
		Validation: "Please select a file first.",
		Failure:    "Error uploading file.",
	}
	CompareMessages = Messages{
		Validation: "Please select two resumes to compare.",
		Failure:    "Error comparing resumes.",
	}
	TailorMessages = Messages{
		Validation: "Please provide your resume and a job description.",
		Failure:    "Error tailoring resume.",
	}
	CoverLetterMessages = Messages{
		Validation: "Please upload your resume and enter a job description.",
		Failure:    "Error generating cover letter.",
	}
)

// ResumeService is the part of the backend client the flows need
type ResumeService interface {
	AnalyzeResume(ctx context.Context, req types.UploadRequest) (*types.AnalyzeResult, error)
	CompareResumes(ctx context.Context, req types.CompareRequest) (*types.CompareResult, error)
	TailorResume(ctx context.Context, req types.TailorRequest) (*types.TailorResult, error)
	GenerateCoverLetter(ctx context.Context, req types.CoverLetterRequest) (*types.CoverLetterResult, error)
}

// UploadController analyzes a single resume
type UploadController = Controller[types.UploadRequest, types.AnalyzeResult]

// CompareController compares two resumes
type CompareController = Controller[types.CompareRequest, types.CompareResult]

// TailorController tailors resume text to a job description
type TailorController = Controller[types.TailorRequest, types.TailorResult]

// CoverLetterController generates a cover letter
type CoverLetterController = Controller[types.CoverLetterRequest, types.CoverLetterResult]

// NewUploadController wires the upload flow to svc
func NewUploadController(svc ResumeService, opts ...Option) *UploadController {
	return NewController(FlowUpload, svc.AnalyzeResume, ValidUpload, UploadMessages, opts...)
}

// NewCompareController wires the compare flow to svc
func NewCompareController(svc ResumeService, opts ...Option) *CompareController {
	return NewController(FlowCompare, svc.CompareResumes, ValidCompare, CompareMessages, opts...)
}

// NewTailorController wires the tailor flow to svc
func NewTailorController(svc ResumeService, opts ...Option) *TailorController {
	return NewController(FlowTailor, svc.TailorResume, ValidTailor, TailorMessages, opts...)
}

// NewCoverLetterController wires the cover letter flow to svc
func NewCoverLetterController(svc ResumeService, opts ...Option) *CoverLetterController {
	return NewController(FlowCoverLetter, svc.GenerateCoverLetter, ValidCoverLetter, CoverLetterMessages, opts...)
}

// ValidUpload requires a selected resume
func ValidUpload(req types.UploadRequest) bool {
	return req.Resume != nil
}

// ValidCompare requires both resumes
func ValidCompare(req types.CompareRequest) bool {
	return req.First != nil && req.Second != nil
}

// ValidTailor requires non-blank resume text and job description
func ValidTailor(req types.TailorRequest) bool {
	return !isBlank(req.ResumeText) && !isBlank(req.JobDescription)
}

// ValidCoverLetter requires a resume and a non-blank job description
func ValidCoverLetter(req types.CoverLetterRequest) bool {
	return req.Resume != nil && !isBlank(req.JobDescription)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
