package common

import (
	"context"
	stderrors "errors"

	"resumeassist/internal/errors"
	"resumeassist/internal/submission"
)

// ErrSubmissionFailed is returned after a failed submission's message has
// been shown, so the process can exit non-zero without printing it twice.
var ErrSubmissionFailed = stderrors.New("submission failed")

// BuildRequestFunc reads the command's inputs into a flow request
type BuildRequestFunc[Req any] func(fp *FileProcessor) (Req, error)

// LogDetailsFunc defines how to log the start of a submission.
type LogDetailsFunc[Req any] func(req Req, cfg CommandConfig)

// Submitter is the part of a submission controller a command drives
type Submitter[Req, Resp any] interface {
	Name() string
	Submit(ctx context.Context, req Req) (submission.Result[Resp], error)
}

// RunSubmission encapsulates the common logic of the file-based submission
// commands: read inputs, submit once, then render the payload or the
// failure message.
func RunSubmission[Req, Resp any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	controller Submitter[Req, Resp],
	buildRequest BuildRequestFunc[Req],
	logDetails LogDetailsFunc[Req],
	outputHandler *OutputHandler,
) error {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	if outputHandler == nil {
		outputHandler = NewOutputHandler(logger)
	}
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)

	req, err := buildRequest(fileProcessor)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(req, cmdConfig)
	}

	result, err := controller.Submit(ctx, req)
	if err != nil {
		return err
	}

	switch result.State {
	case submission.Success:
		logger.Info("Submission completed", "flow", controller.Name())
		return outputHandler.HandleOutput(*result.Payload, cmdConfig)
	case submission.Failure:
		outputHandler.HandleFailure(result.Message, cmdConfig)
		return ErrSubmissionFailed
	default:
		return errors.NewInternalError("UNEXPECTED_STATE",
			"Submission ended in state "+result.State.String(), nil)
	}
}
