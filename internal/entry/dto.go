package entry

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/haroontrailblazer/College-Departments-Portal/internal"
)

// MaxContentLength bounds data_content in characters, not bytes, so
// multibyte submissions are measured the same as ASCII ones.
const MaxContentLength = 10000

// SubmitDTO is the transport shape of a submit_data request.
type SubmitDTO struct {
	EntryType   string `json:"entry_type"`
	DataContent string `json:"data_content"`
}

// Validate trims both fields in place and checks the submit constraints.
func (d *SubmitDTO) Validate() error {
	d.EntryType = strings.TrimSpace(d.EntryType)
	d.DataContent = strings.TrimSpace(d.DataContent)

	if d.EntryType == "" {
		return internal.NewValidationError("Entry type is required", internal.ErrCodeMissingField)
	}
	if d.DataContent == "" {
		return internal.NewValidationError("Data content is required", internal.ErrCodeMissingField)
	}
	if utf8.RuneCountInString(d.DataContent) > MaxContentLength {
		return internal.NewValidationError(
			fmt.Sprintf("Content too long (max %d characters)", MaxContentLength),
			internal.ErrCodeContentTooLong,
		)
	}
	return nil
}

// SummaryResponse is one row of a get_recent response.
type SummaryResponse struct {
	DeptName       string `json:"dept_name"`
	EntryType      string `json:"entry_type"`
	ContentPreview string `json:"content_preview"`
	CreatedAt      string `json:"created_at"`
}

// SubmitResult reports a persisted entry back to the session.
type SubmitResult struct {
	EntryID  int64
	DeptName string
}
