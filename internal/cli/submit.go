package cli

import (
	"resumeassist/internal/common"
	"resumeassist/internal/remote"
	"resumeassist/internal/submission"
	"resumeassist/internal/types"

	"github.com/spf13/cobra"
)

// runFlow wires one submission flow to the backend and runs it once
func runFlow[Req, Resp any](
	cmd *cobra.Command,
	newController func(submission.ResumeService, ...submission.Option) *submission.Controller[Req, Resp],
	buildRequest func(fp *common.FileProcessor) (Req, error),
	logDetails func(env *commandEnv, req Req, cfg common.CommandConfig),
) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	cmdConfig, err := env.commandConfig(cmd)
	if err != nil {
		return err
	}
	client, err := env.newBackendClient()
	if err != nil {
		return err
	}

	controller := newController(client,
		submission.WithTracker(env.om),
		submission.WithLogger(env.logger))

	return common.RunSubmission[Req, Resp](
		cmd.Context(),
		env.logger,
		cmdConfig,
		controller,
		buildRequest,
		func(req Req, cfg common.CommandConfig) { logDetails(env, req, cfg) },
		env.outputHandler(cmd),
	)
}

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "upload [resume-file]",
		Aliases: []string{"analyze"},
		Short:   "Get feedback and an ATS score for a resume",
		Long: `Upload a resume (PDF, DOCX or text) to the analysis service and show
its overall score, ATS score, strengths and fix suggestions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(fp *common.FileProcessor) (types.UploadRequest, error) {
				resume, err := fp.ReadAttachment(remote.FieldResume, argAt(args, 0))
				return types.UploadRequest{Resume: resume}, err
			}
			logDetails := func(env *commandEnv, req types.UploadRequest, cfg common.CommandConfig) {
				env.logger.Info("Starting resume upload",
					"file", attachmentName(req.Resume),
					"output_format", cfg.OutputFormat)
			}
			return runFlow(cmd, submission.NewUploadController, build, logDetails)
		},
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [resume-1] [resume-2]",
		Short: "Compare two resumes",
		Long: `Send two resumes to the analysis service and show which one scores
better, with improvements grouped per resume.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(fp *common.FileProcessor) (types.CompareRequest, error) {
				first, err := fp.ReadAttachment(remote.FieldFirstResume, argAt(args, 0))
				if err != nil {
					return types.CompareRequest{}, err
				}
				second, err := fp.ReadAttachment(remote.FieldSecondResume, argAt(args, 1))
				return types.CompareRequest{First: first, Second: second}, err
			}
			logDetails := func(env *commandEnv, req types.CompareRequest, cfg common.CommandConfig) {
				env.logger.Info("Starting resume comparison",
					"first", attachmentName(req.First),
					"second", attachmentName(req.Second),
					"output_format", cfg.OutputFormat)
			}
			return runFlow(cmd, submission.NewCompareController, build, logDetails)
		},
	}
}

func newTailorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tailor [resume-file] [job-description]",
		Short: "Tailor a resume for a specific job description",
		Long: `Tailor your resume for a specific job description.
The resume file may be PDF, DOCX or plain text; its text is extracted and sent.
The job description is given inline, or as @path to read it from a file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(fp *common.FileProcessor) (types.TailorRequest, error) {
				resumeText, err := fp.ReadText(argAt(args, 0))
				if err != nil {
					return types.TailorRequest{}, err
				}
				job, err := fp.ReadTextArg(argAt(args, 1))
				return types.TailorRequest{ResumeText: resumeText, JobDescription: job}, err
			}
			logDetails := func(env *commandEnv, req types.TailorRequest, cfg common.CommandConfig) {
				env.logger.Info("Starting resume tailoring",
					"resume_chars", len(req.ResumeText),
					"job_chars", len(req.JobDescription),
					"output_format", cfg.OutputFormat)
			}
			return runFlow(cmd, submission.NewTailorController, build, logDetails)
		},
	}
}

func newCoverLetterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cover-letter [resume-file] [job-description]",
		Short: "Generate a cover letter for a job",
		Long: `Generate a cover letter from your resume file and a job description.
The job description is given inline, or as @path to read it from a file.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			build := func(fp *common.FileProcessor) (types.CoverLetterRequest, error) {
				resume, err := fp.ReadAttachment(remote.FieldResume, argAt(args, 0))
				if err != nil {
					return types.CoverLetterRequest{}, err
				}
				job, err := fp.ReadTextArg(argAt(args, 1))
				return types.CoverLetterRequest{Resume: resume, JobDescription: job}, err
			}
			logDetails := func(env *commandEnv, req types.CoverLetterRequest, cfg common.CommandConfig) {
				env.logger.Info("Starting cover letter generation",
					"file", attachmentName(req.Resume),
					"job_chars", len(req.JobDescription),
					"output_format", cfg.OutputFormat)
			}
			return runFlow(cmd, submission.NewCoverLetterController, build, logDetails)
		},
	}
}

func attachmentName(a *types.Attachment) string {
	if a == nil {
		return ""
	}
	return a.FileName
}
