package doc

import "github.com/pkg/errors"

// ErrParse indicates the input text was not a valid JSON object. It is
// returned as-is from Import and FromJSON and is never handled internally.
var ErrParse = errors.New("input is not a valid JSON object")

// ErrPathTraversal indicates a field-update path did not resolve through
// existing object-valued segments. It signals a caller bug: an edit bound
// to a path that does not exist in the current config shape.
var ErrPathTraversal = errors.New("path does not resolve through existing objects")

// ValidationError carries the first issue reported by schema validation.
// Import and Export return it when the document fails the schema; nothing
// is committed in that case.
type ValidationError struct {
	Issue string
}

func (e *ValidationError) Error() string {
	return "config validation failed: " + e.Issue
}

// IsValidation reports whether err is a schema validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
