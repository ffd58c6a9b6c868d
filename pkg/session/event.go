package session

import (
	"context"

	"github.com/germanamz/llm7chat/pkg/attachment"
	"github.com/germanamz/llm7chat/pkg/chats/message"
)

// Event is an input to Session.Handle. UI layers translate their own key
// presses, clicks or lines into events; completions of the two blocking steps
// (decode and dispatch) come back as events too.
type Event interface {
	event()
}

// SelectModel switches the active model. A different model discards the
// conversation, the staged attachment and any in-flight request.
type SelectModel struct{ ID string }

// InputChanged replaces the input buffer.
type InputChanged struct{ Text string }

// Submit sends the input buffer and staged attachment as one turn.
type Submit struct{}

// StageAttachment asks for the image at Path to become the staged attachment.
type StageAttachment struct{ Path string }

// AttachmentDecoded completes a StageAttachment.
type AttachmentDecoded struct {
	Attachment attachment.Attachment
	Generation uint64
}

// AttachmentFailed reports a StageAttachment that could not be decoded or
// failed validation.
type AttachmentFailed struct {
	Err        error
	Generation uint64
}

// RemoveAttachment drops the staged attachment.
type RemoveAttachment struct{}

// Clear discards the conversation and the staged attachment.
type Clear struct{}

// Reply completes a Request with the assistant's message.
type Reply struct {
	Message    message.Message
	Generation uint64
}

// Failure completes a Request that did not produce a usable reply.
type Failure struct {
	Err        error
	Generation uint64
}

// Cancel aborts the in-flight request, if any. The request still completes
// with a Failure event.
type Cancel struct{}

func (SelectModel) event()       {}
func (InputChanged) event()      {}
func (Submit) event()            {}
func (StageAttachment) event()   {}
func (AttachmentDecoded) event() {}
func (AttachmentFailed) event()  {}
func (RemoveAttachment) event()  {}
func (Clear) event()             {}
func (Reply) event()             {}
func (Failure) event()           {}
func (Cancel) event()            {}

// Request is an outbound call the driver must run with Session.Dispatch.
type Request struct {
	Generation uint64
	Model      string
	Messages   []message.Message

	// done is canceled when the turn is canceled or discarded.
	done context.Context
}

// DecodeJob is a file decode the driver must run with Session.Decode.
type DecodeJob struct {
	Generation uint64
	Path       string
}

// Transition describes what one event did to the session.
type Transition struct {
	From State
	To   State

	// Entries are transcript entries appended by the event, in order.
	Entries []Entry
	// Reset is true when the transcript was discarded.
	Reset bool
	// Request is set when the event started an outbound call.
	Request *Request
	// Decode is set when the event started an attachment decode.
	Decode *DecodeJob
	// Err is the error the event produced: a rejection (ErrBusy,
	// ErrNothingToSend, a validation error) or the reason of a Failure.
	Err error
	// Stale is true when a completion event belonged to a discarded
	// conversation or attachment and was ignored.
	Stale bool
}
