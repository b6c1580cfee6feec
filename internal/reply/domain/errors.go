package domain

import "errors"

// ErrorKind classifies why a reply could not be generated.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation" // bad input, nothing was sent to the provider
	ErrorKindConfig     ErrorKind = "config"     // provider credential or setting missing
	ErrorKindQuota      ErrorKind = "quota"      // provider quota, billing or rate limit reached
	ErrorKindGeneration ErrorKind = "generation" // provider failure or unusable response
)

// GenerationError is the only error type Generate returns.
// Message is safe to show to end users; Err keeps the underlying cause for logs.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// KindOf returns the kind of a *GenerationError in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

var (
	ErrReplyNotFound = errors.New("reply not found")
	ErrForbidden     = errors.New("unauthorized")
	ErrInvalidReply  = errors.New("invalid reply")
)
