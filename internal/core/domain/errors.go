package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSendingReplyFailed  = errors.New("failed to send reply")
	ErrMissingImage        = errors.New("missing image")
	ErrUnknownStyle        = errors.New("unknown style")
	ErrUnknownParameter    = errors.New("unknown parameter")
	ErrParameterOutOfRange = errors.New("parameter out of range")
)

// ErrorKind classifies why a conversion did not produce an image.
type ErrorKind int

const (
	InvalidInput ErrorKind = iota
	NetworkFailure
	ServerError
	ServerErrorUnparseable
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case NetworkFailure:
		return "network failure"
	case ServerError:
		return "server error"
	case ServerErrorUnparseable:
		return "unparseable server error"
	case MalformedResponse:
		return "malformed response"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// ConversionError is the failure side of a conversion. Message is meant to be shown to the user as is.
type ConversionError struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Err        error
}

func (e *ConversionError) Error() string {
	return e.Message
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func NewConversionError(kind ErrorKind, message string, err error) *ConversionError {
	return &ConversionError{Kind: kind, Message: message, Err: err}
}

// KindOf reports the ErrorKind of err, if err wraps a ConversionError.
func KindOf(err error) (ErrorKind, bool) {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return convErr.Kind, true
	}

	return 0, false
}
