package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/germanamz/llm7chat/pkg/attachment"
	"github.com/germanamz/llm7chat/pkg/providers"
)

// Rejections returned in Transition.Err.
var (
	ErrBusy          = errors.New("session: a request is already in flight")
	ErrNothingToSend = errors.New("session: nothing to send")
	ErrUnknownModel  = errors.New("session: unknown model")
)

// ErrorKind classifies an error for display.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindValidation is a rejected file; the turn is not submitted.
	KindValidation
	// KindNetwork is a non-2xx status or a transport failure.
	KindNetwork
	// KindFormat is a 2xx response without a usable reply.
	KindFormat
	// KindCanceled is a request aborted through Cancel.
	KindCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindFormat:
		return "format"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

// Classify maps err onto an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var vErr *attachment.ValidationError
	if errors.As(err, &vErr) {
		return KindValidation
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	if errors.Is(err, providers.ErrInvalidResponse) {
		return KindFormat
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return KindFormat
	}

	return KindNetwork
}
