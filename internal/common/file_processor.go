package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumeassist/internal/errors"
	"resumeassist/internal/extract"
	"resumeassist/internal/types"
	"resumeassist/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a new file processor instance. Files larger than
// maxSize bytes are rejected; 0 disables the check.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	if info, err := utils.ValidateInputFile(filename, fp.maxSize); err != nil {
		switch {
		case info != nil:
			return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
				fmt.Sprintf("File too large: %s", filename), err)
		case os.IsNotExist(statError(filename)):
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		default:
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("Invalid file %s", filename), err)
		}
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// ReadAttachment reads a resume file into an attachment for field. An empty
// filename yields nil so the submission's own validation reports it.
func (fp *FileProcessor) ReadAttachment(field, filename string) (*types.Attachment, error) {
	if filename == "" {
		return nil, nil
	}
	if !utils.IsResumeFile(filename) {
		fp.logger.Warn("File may not be a resume document", "filename", filename)
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	mediaType := extract.DetectMediaType(content)
	fp.logger.Debug("Read attachment",
		"field", field,
		"filename", filename,
		"media_type", mediaType,
		"size", utils.FormatFileSize(int64(len(content))))

	return &types.Attachment{
		FieldName: field,
		FileName:  filepath.Base(filename),
		Content:   content,
		MediaType: mediaType,
	}, nil
}

// ReadText returns the plain text of a text, PDF or DOCX file
func (fp *FileProcessor) ReadText(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}
	content, err := fp.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return extract.ExtractText(extract.DetectMediaType(content), content)
}

// ReadTextArg returns inline text, or the contents of the file named after an
// "@" prefix
func (fp *FileProcessor) ReadTextArg(value string) (string, error) {
	if len(value) > 1 && value[0] == '@' {
		return fp.ReadText(value[1:])
	}
	return value, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}

func statError(filename string) error {
	_, err := os.Stat(filename)
	return err
}
