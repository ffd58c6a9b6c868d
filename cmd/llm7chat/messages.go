package main

import (
	"time"

	"github.com/germanamz/llm7chat/pkg/session"
)

// inputSubmitMsg carries the text the user submitted from the input box.
type inputSubmitMsg struct {
	text string
}

// dispatchDoneMsg is returned by the tea.Cmd that calls sess.Dispatch.
type dispatchDoneMsg struct {
	event    session.Event
	duration time.Duration
}

// decodeDoneMsg is returned by the tea.Cmd that calls sess.Decode.
type decodeDoneMsg struct {
	event session.Event
}

// initDrainMsg fires after a short delay so that stale terminal responses
// (e.g. OSC 11 background-color replies) are discarded before focusing input.
type initDrainMsg struct{}

// tickMsg drives the spinner while a request is in flight.
type tickMsg time.Time
