package core

// error_messages.go maps technical errors to user-facing messages with
// support codes. Users quote the code; support staff look it up here.
//
// # Category Errors (CAT001-CAT099)
//
//	CAT001 - Unknown category: the requested category has no schema
//	         Action: Pick a category from the list
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date
//	         Action: Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024
//	VAL002 - Invalid number
//	         Action: Use digits with an optional decimal point
//	VAL003 - Required field is empty
//	         Action: Fill every column marked with *
//	VAL004 - Invalid yes/no value
//	         Action: Use yes/no, true/false, or 1/0
//	VAL005 - Value not in the allowed list
//	         Action: Check the allowed values for this field
//	VAL006 - Invalid filter
//	         Action: Use op:value, e.g. contains:blood
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Not a readable spreadsheet (xlsx or csv)
//	FILE003 - Encoding error
//	FILE004 - No file provided
//	FILE005 - Empty file
//
// # Persistence Errors (PER001-PER099)
//
//	PER001 - Record not found
//	PER002 - Duplicate record
//	PER003 - Master-data service unreachable
//	PER004 - Master-data service timed out
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Import cancelled (rows already saved stay saved)
//	IMP002 - Too many imports running
//	IMP003 - Batch import without any category file
//
// # Rate Limiting (RATE001) and Default (ERR000)
//
// Typed errors from this package are matched first with errors.Is/As.
// Everything else falls back to case-insensitive substring patterns; the
// first matching pattern wins, so specific patterns come before general ones.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var (
	msgUnknownCategory = UserMessage{
		Message: "This category does not exist",
		Action:  "Pick a category from the list",
		Code:    "CAT001",
	}
	msgInvalidDate = UserMessage{
		Message: "Invalid date format detected",
		Action:  "Use YYYY-MM-DD, MM/DD/YYYY, or Jan 15, 2024",
		Code:    "VAL001",
	}
	msgInvalidNumber = UserMessage{
		Message: "Invalid number format detected",
		Action:  "Use digits with an optional decimal point",
		Code:    "VAL002",
	}
	msgRequired = UserMessage{
		Message: "Required field is empty",
		Action:  "Fill every column marked with *",
		Code:    "VAL003",
	}
	msgInvalidBool = UserMessage{
		Message: "Invalid yes/no value",
		Action:  "Use yes/no, true/false, or 1/0",
		Code:    "VAL004",
	}
	msgInvalidEnum = UserMessage{
		Message: "Value is not in the allowed list",
		Action:  "Check the allowed values for this field",
		Code:    "VAL005",
	}
	msgInvalidFilter = UserMessage{
		Message: "Invalid filter",
		Action:  "Use op:value, e.g. contains:blood",
		Code:    "VAL006",
	}
	msgCancelled = UserMessage{
		Message: "Import was cancelled",
		Action:  "Rows saved before cancelling were kept; re-import only the remaining rows",
		Code:    "IMP001",
	}
	msgBusy = UserMessage{
		Message: "Too many imports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is consulted when no typed match applies.
var errorPatterns = []errorPattern{
	// File errors
	{pattern: "file too large", msg: UserMessage{Message: "File exceeds maximum size limit", Action: "Split the file into smaller files", Code: "FILE001"}},
	{pattern: "request body too large", msg: UserMessage{Message: "File exceeds maximum size limit", Action: "Split the file into smaller files", Code: "FILE001"}},
	{pattern: "invalid spreadsheet", msg: UserMessage{Message: "File is not a readable spreadsheet", Action: "Upload an .xlsx or .csv file built from the template", Code: "FILE002"}},
	{pattern: "unsupported file format", msg: UserMessage{Message: "File is not a readable spreadsheet", Action: "Upload an .xlsx or .csv file built from the template", Code: "FILE002"}},
	{pattern: "encoding error", msg: UserMessage{Message: "File contains invalid characters", Action: "Save the file as UTF-8", Code: "FILE003"}},
	{pattern: "no file provided", msg: UserMessage{Message: "No file was selected", Action: "Please select a spreadsheet to upload", Code: "FILE004"}},
	{pattern: "empty file", msg: UserMessage{Message: "The uploaded file is empty", Action: "Please upload a file with a header row and data rows", Code: "FILE005"}},

	// Persistence errors
	{pattern: "record not found", msg: UserMessage{Message: "Record not found", Action: "Refresh the list; it may have been deleted", Code: "PER001"}},
	{pattern: "duplicate", msg: UserMessage{Message: "A matching record already exists", Action: "Edit the existing record instead", Code: "PER002"}},
	{pattern: "already exists", msg: UserMessage{Message: "A matching record already exists", Action: "Edit the existing record instead", Code: "PER002"}},
	{pattern: "connection refused", msg: UserMessage{Message: "Master-data service is unreachable", Action: "Please try again in a few moments", Code: "PER003"}},
	{pattern: "no such host", msg: UserMessage{Message: "Master-data service is unreachable", Action: "Please try again in a few moments", Code: "PER003"}},
	{pattern: "service unavailable", msg: UserMessage{Message: "Master-data service is unreachable", Action: "Please try again in a few moments", Code: "PER003"}},
	{pattern: "deadline exceeded", msg: UserMessage{Message: "Master-data service timed out", Action: "Try a smaller file or try again later", Code: "PER004"}},
	{pattern: "timeout", msg: UserMessage{Message: "Master-data service timed out", Action: "Try a smaller file or try again later", Code: "PER004"}},

	// Import errors
	{pattern: "no categories", msg: UserMessage{Message: "No category files were provided", Action: "Attach one file per category", Code: "IMP003"}},

	// Validation errors reported as plain text
	{pattern: "invalid filter", msg: msgInvalidFilter},
	{pattern: "invalid date", msg: msgInvalidDate},
	{pattern: "invalid number", msg: msgInvalidNumber},
	{pattern: "must be one of", msg: msgInvalidEnum},

	{pattern: "rate limit", msg: UserMessage{Message: "Too many requests", Action: "Please wait a moment before trying again", Code: "RATE001"}},
}

// defaultMessage is returned when nothing matches (ERR000).
// Support staff should check the logs for the technical error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// A nil error yields the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	switch {
	case errors.Is(err, ErrUnknownCategory):
		return msgUnknownCategory
	case errors.Is(err, ErrTooManyImports):
		return msgBusy
	case errors.Is(err, ErrInvalidFilter):
		return msgInvalidFilter
	case errors.Is(err, context.Canceled):
		return msgCancelled
	}

	var ve ValidationError
	if errors.As(err, &ve) {
		if msg, ok := mapValidationMessage(ve.Message); ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

func mapValidationMessage(message string) (UserMessage, bool) {
	switch {
	case message == MsgRequired:
		return msgRequired, true
	case message == MsgInvalidNumber:
		return msgInvalidNumber, true
	case message == MsgInvalidDate:
		return msgInvalidDate, true
	case message == MsgInvalidBool:
		return msgInvalidBool, true
	case strings.HasPrefix(message, "value must be one of"):
		return msgInvalidEnum, true
	}
	return UserMessage{}, false
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{Technical: err, User: MapError(err)}
}
