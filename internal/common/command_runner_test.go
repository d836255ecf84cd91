package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeassist/internal/errors"
	"resumeassist/internal/submission"
	"resumeassist/internal/types"
)

type stubService struct {
	calls   int
	lastReq types.UploadRequest
	err     error
}

func (s *stubService) AnalyzeResume(_ context.Context, req types.UploadRequest) (*types.AnalyzeResult, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &types.AnalyzeResult{Score: 82, ATSScore: 75, Strengths: []string{"Clear layout"}}, nil
}

func (s *stubService) CompareResumes(context.Context, types.CompareRequest) (*types.CompareResult, error) {
	return nil, nil
}

func (s *stubService) TailorResume(context.Context, types.TailorRequest) (*types.TailorResult, error) {
	return nil, nil
}

func (s *stubService) GenerateCoverLetter(context.Context, types.CoverLetterRequest) (*types.CoverLetterResult, error) {
	return nil, nil
}

func newTestOutput() (*OutputHandler, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	oh := NewOutputHandler(nil)
	oh.Stdout = &stdout
	oh.Stderr = &stderr
	return oh, &stdout, &stderr
}

func uploadFrom(path string) BuildRequestFunc[types.UploadRequest] {
	return func(fp *FileProcessor) (types.UploadRequest, error) {
		resume, err := fp.ReadAttachment("resume", path)
		return types.UploadRequest{Resume: resume}, err
	}
}

func TestRunSubmissionRendersPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\nGo engineer\n"), 0600))

	svc := &stubService{}
	oh, stdout, stderr := newTestOutput()

	err := RunSubmission[types.UploadRequest, types.AnalyzeResult](context.Background(), nil,
		CommandConfig{OutputFormat: "text"},
		submission.NewUploadController(svc),
		uploadFrom(path), nil, oh)
	require.NoError(t, err)

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "cv.txt", svc.lastReq.Resume.FileName)
	assert.Equal(t, "resume", svc.lastReq.Resume.FieldName)
	assert.Equal(t, "text/plain", svc.lastReq.Resume.MediaType)
	assert.Contains(t, stdout.String(), "Score: 82/100")
	assert.Contains(t, stdout.String(), "ATS Score: 75/100")
	assert.Empty(t, stderr.String())
}

func TestRunSubmissionShowsFixedFailureMessage(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("resume"), 0600))

	svc := &stubService{err: errors.NewTransportError(errors.ErrCodeRequestFailed, "connection refused", nil)}
	oh, stdout, stderr := newTestOutput()

	err := RunSubmission[types.UploadRequest, types.AnalyzeResult](context.Background(), nil,
		CommandConfig{OutputFormat: "text"},
		submission.NewUploadController(svc),
		uploadFrom(path), nil, oh)
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Empty(t, stdout.String())
	assert.Equal(t, submission.UploadMessages.Failure+"\n", stderr.String())
	assert.NotContains(t, stderr.String(), "connection refused")
}

func TestRunSubmissionMissingFileNeverSubmits(t *testing.T) {
	svc := &stubService{}
	oh, _, _ := newTestOutput()

	err := RunSubmission[types.UploadRequest, types.AnalyzeResult](context.Background(), nil,
		CommandConfig{OutputFormat: "text"},
		submission.NewUploadController(svc),
		uploadFrom(filepath.Join(t.TempDir(), "missing.pdf")), nil, oh)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
	assert.Zero(t, svc.calls)
}

func TestRunSubmissionWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("resume"), 0600))
	out := filepath.Join(dir, "reports", "feedback.json")

	oh, stdout, _ := newTestOutput()
	err := RunSubmission[types.UploadRequest, types.AnalyzeResult](context.Background(), nil,
		CommandConfig{OutputFormat: "json", OutputFile: out},
		submission.NewUploadController(&stubService{}),
		uploadFrom(path), nil, oh)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ats_score": 75`)
}

func TestReadFileLimits(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(big, bytes.Repeat([]byte("a"), 64), 0600))

	fp := NewFileProcessor(nil, 32)
	_, err := fp.ReadFile(big)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileTooLarge, appErr.Code)

	_, err = fp.ReadFile(dir)
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotReadable, appErr.Code)

	_, err = fp.ReadFile(filepath.Join(dir, "nope.txt"))
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
}

func TestReadTextArg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Go developer wanted"), 0600))

	fp := NewFileProcessor(nil, 0)
	text, err := fp.ReadTextArg("@" + path)
	require.NoError(t, err)
	assert.Equal(t, "Go developer wanted", text)

	text, err = fp.ReadTextArg("inline text")
	require.NoError(t, err)
	assert.Equal(t, "inline text", text)

	att, err := fp.ReadAttachment("resume", "")
	require.NoError(t, err)
	assert.Nil(t, att)
}
