package analysis

import "errors"

// Failure reasons reported by Parse. Interpret collapses all of them into
// FailureMessage.
var (
	ErrNoJSONFound  = errors.New("no JSON object found")
	ErrJSONParse    = errors.New("invalid JSON")
	ErrMissingScore = errors.New("missing overallScore")
	ErrInvalidScore = errors.New("invalid score format")
)

// FailureMessage is the user-facing error carried by every failure record.
const FailureMessage = "Invalid AI response format"
