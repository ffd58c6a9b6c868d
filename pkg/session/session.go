// Package session implements the chat session: conversation history, the
// staged image attachment, and the single in-flight request.
//
// A Session is driven through Handle, which applies one Event and returns the
// resulting Transition. The two blocking steps, decoding an attachment and
// calling the API, are returned to the driver as a DecodeJob or a Request; the
// driver runs them with Decode and Dispatch (typically off the UI goroutine)
// and feeds the resulting event back into Handle. Handle and all accessors must
// be called from one goroutine. Decode, Dispatch and Cancel may run elsewhere.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/germanamz/llm7chat/pkg/attachment"
	"github.com/germanamz/llm7chat/pkg/capability"
	"github.com/germanamz/llm7chat/pkg/chats/chat"
	"github.com/germanamz/llm7chat/pkg/chats/content"
	"github.com/germanamz/llm7chat/pkg/chats/message"
	"github.com/germanamz/llm7chat/pkg/chats/role"
	"github.com/germanamz/llm7chat/pkg/modeladapter"
	"github.com/germanamz/llm7chat/pkg/render"
)

// State is the request lifecycle state.
type State int

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controls are the UI enablement flags derived from session state.
type Controls struct {
	// SendEnabled is true when the trimmed input is non-empty or an
	// attachment is staged.
	SendEnabled bool
	// AttachVisible and AttachEnabled follow the model's image capability.
	AttachVisible bool
	AttachEnabled bool
	// Loading is true while a request is in flight.
	Loading bool
	// Decoding is true while a staged file is being read.
	Decoding bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithClock sets the time source used for transcript timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRequestTimeout bounds every outbound call. Zero means no timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// Session is one chat conversation with one model at a time.
type Session struct {
	id        string
	catalog   *capability.Catalog
	completer modeladapter.Completer
	log       *slog.Logger
	now       func() time.Time
	timeout   time.Duration

	model      string
	history    chat.Chat
	transcript []Entry
	input      string
	attachment *attachment.Attachment
	decoding   bool
	state      State

	// convGen changes whenever the conversation is discarded; attachGen
	// whenever the staged attachment is replaced or dropped. Completion events
	// carrying an older generation are ignored.
	convGen   uint64
	attachGen uint64

	mu   sync.Mutex
	turn *turn
}

// turn is the cancellation handle of the request started by Submit. It is
// created on the session goroutine so a Cancel or reset can stop the request
// before the driver has begun running it.
type turn struct {
	gen    uint64
	cancel context.CancelFunc
}

// New creates an idle session for model. The model must be in catalog.
func New(completer modeladapter.Completer, catalog *capability.Catalog, model string, opts ...Option) (*Session, error) {
	if _, ok := catalog.Lookup(model); !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownModel, model)
	}

	s := &Session{
		id:        uuid.NewString(),
		catalog:   catalog,
		completer: completer,
		log:       slog.New(slog.DiscardHandler),
		now:       time.Now,
		model:     model,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Model returns the active model identifier.
func (s *Session) Model() string { return s.model }

// ModelName returns the display name of the active model.
func (s *Session) ModelName() string { return s.catalog.DisplayName(s.model) }

// Catalog returns the model catalog.
func (s *Session) Catalog() *capability.Catalog { return s.catalog }

// Completer returns the completer requests are dispatched to.
func (s *Session) Completer() modeladapter.Completer { return s.completer }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Input returns the input buffer.
func (s *Session) Input() string { return s.input }

// History returns a copy of the conversation history.
func (s *Session) History() []message.Message { return s.history.Messages() }

// Transcript returns a copy of the rendered transcript.
func (s *Session) Transcript() []Entry {
	out := make([]Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Attachment returns the staged attachment, if any.
func (s *Session) Attachment() (attachment.Attachment, bool) {
	if s.attachment == nil {
		return attachment.Attachment{}, false
	}
	return *s.attachment, true
}

// IsMultimodal reports whether the active model accepts images.
func (s *Session) IsMultimodal() bool { return s.catalog.IsMultimodal(s.model) }

// Controls returns the derived UI enablement flags.
func (s *Session) Controls() Controls {
	multimodal := s.IsMultimodal()
	return Controls{
		SendEnabled:   strings.TrimSpace(s.input) != "" || s.attachment != nil,
		AttachVisible: multimodal,
		AttachEnabled: multimodal,
		Loading:       s.state == StateSending,
		Decoding:      s.decoding,
	}
}

// Handle applies one event.
func (s *Session) Handle(ev Event) Transition {
	tr := Transition{From: s.state}

	switch ev := ev.(type) {
	case SelectModel:
		s.selectModel(ev.ID, &tr)
	case InputChanged:
		s.input = ev.Text
	case Submit:
		s.submit(&tr)
	case StageAttachment:
		if err := attachment.Check(ev.Path); err != nil {
			s.log.Debug("attachment rejected", "session", s.id, "path", ev.Path, "error", err)
			tr.Err = err
			break
		}
		s.attachGen++
		s.decoding = true
		tr.Decode = &DecodeJob{Generation: s.attachGen, Path: ev.Path}
	case AttachmentDecoded:
		if ev.Generation != s.attachGen {
			tr.Stale = true
			break
		}
		a := ev.Attachment
		s.attachment = &a
		s.decoding = false
	case AttachmentFailed:
		if ev.Generation != s.attachGen {
			tr.Stale = true
			break
		}
		s.decoding = false
		tr.Err = ev.Err
	case RemoveAttachment:
		s.dropAttachment()
	case Clear:
		s.reset(&tr)
	case Reply:
		s.reply(ev, &tr)
	case Failure:
		s.failure(ev, &tr)
	case Cancel:
		s.Cancel()
	}

	tr.To = s.state
	return tr
}

func (s *Session) selectModel(id string, tr *Transition) {
	if id == s.model {
		return
	}
	if _, ok := s.catalog.Lookup(id); !ok {
		tr.Err = fmt.Errorf("%w %q", ErrUnknownModel, id)
		return
	}

	s.log.Info("model switched", "session", s.id, "from", s.model, "to", id)
	s.model = id
	s.reset(tr)
}

// reset discards the conversation, the attachment and any in-flight request.
func (s *Session) reset(tr *Transition) {
	s.Cancel()
	s.convGen++
	s.history.Reset()
	s.transcript = nil
	s.dropAttachment()
	s.state = StateIdle

	if ur, ok := s.completer.(modeladapter.UsageReporter); ok {
		ur.UsageTracker().Reset()
	}

	tr.Reset = true
}

func (s *Session) dropAttachment() {
	s.attachGen++
	s.attachment = nil
	s.decoding = false
}

func (s *Session) submit(tr *Transition) {
	if s.state == StateSending {
		tr.Err = ErrBusy
		return
	}

	text := strings.TrimSpace(s.input)
	if text == "" && s.attachment == nil {
		tr.Err = ErrNothingToSend
		return
	}

	var parts []content.Part
	if text != "" {
		parts = append(parts, content.Text{Text: text})
	}

	var imageURL string
	if s.attachment != nil {
		imageURL = s.attachment.DataURI
		if s.IsMultimodal() {
			parts = append(parts, s.attachment.Part())
		} else {
			s.log.Debug("attachment dropped: model has no image support",
				"session", s.id, "model", s.model, "attachment", s.attachment.Name)
		}
	}

	s.history.Append(message.New(role.User, parts...))
	tr.Entries = append(tr.Entries, s.appendEntry(role.User, text, imageURL, KindNone))

	s.input = ""
	s.dropAttachment()
	s.state = StateSending

	done, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.turn = &turn{gen: s.convGen, cancel: cancel}
	s.mu.Unlock()

	tr.Request = &Request{
		Generation: s.convGen,
		Model:      s.model,
		Messages:   s.history.Messages(),
		done:       done,
	}
}

// endTurn releases the cancellation handle of the turn of generation gen.
// A handle that belongs to a newer turn is left alone.
func (s *Session) endTurn(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turn != nil && s.turn.gen == gen {
		s.turn.cancel()
		s.turn = nil
	}
}

func (s *Session) reply(ev Reply, tr *Transition) {
	if ev.Generation != s.convGen || s.state != StateSending {
		tr.Stale = true
		return
	}

	s.endTurn(ev.Generation)

	msg := message.NewText(role.Assistant, ev.Message.TextContent())
	s.history.Append(msg)
	tr.Entries = append(tr.Entries, s.appendEntry(role.Assistant, msg.TextContent(), "", KindNone))
	s.state = StateIdle
}

func (s *Session) failure(ev Failure, tr *Transition) {
	if ev.Generation != s.convGen || s.state != StateSending {
		tr.Stale = true
		return
	}

	s.endTurn(ev.Generation)

	kind := Classify(ev.Err)
	text := "Error: " + ev.Err.Error()
	if kind == KindCanceled {
		text = "Error: request canceled"
	}

	tr.Entries = append(tr.Entries, s.appendEntry(role.Assistant, text, "", kind))
	tr.Err = ev.Err
	s.state = StateIdle
}

func (s *Session) appendEntry(r role.Role, text, imageURL string, kind ErrorKind) Entry {
	e := Entry{
		ID:       uuid.NewString(),
		Role:     r,
		Text:     text,
		Markup:   render.HTML(text),
		ImageURL: imageURL,
		Time:     s.now(),
		Kind:     kind,
	}
	s.transcript = append(s.transcript, e)
	return e
}

// Decode runs a DecodeJob and returns the completion event for Handle.
func (s *Session) Decode(ctx context.Context, job DecodeJob) Event {
	a, err := attachment.Load(ctx, job.Path)
	if err != nil {
		s.log.DebugContext(ctx, "attachment rejected", "session", s.id, "path", job.Path, "error", err)
		return AttachmentFailed{Err: err, Generation: job.Generation}
	}

	s.log.DebugContext(ctx, "attachment staged",
		"session", s.id, "name", a.Name, "media_type", a.MediaType, "size", a.Size)
	return AttachmentDecoded{Attachment: a, Generation: job.Generation}
}

// Dispatch performs the outbound call for req and returns the completion
// event for Handle. It can be aborted with Cancel, and a turn canceled or
// discarded before Dispatch runs never reaches the completer.
func (s *Session) Dispatch(ctx context.Context, req Request) Event {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if req.done != nil {
		stop := context.AfterFunc(req.done, cancel)
		defer stop()

		if err := req.done.Err(); err != nil {
			s.log.DebugContext(ctx, "turn skipped",
				"session", s.id,
				"generation", req.Generation,
			)
			return Failure{Err: err, Generation: req.Generation}
		}
	}

	if s.timeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, s.timeout)
		defer cancelTimeout()
	}

	s.log.InfoContext(ctx, "turn started",
		"session", s.id,
		"model", req.Model,
		"generation", req.Generation,
		"messages", len(req.Messages),
	)

	start := time.Now()

	reply, err := s.completer.Complete(ctx, req.Model, chat.New(req.Messages...))

	duration := time.Since(start)

	if err != nil {
		s.log.ErrorContext(ctx, "turn failed",
			"session", s.id,
			"model", req.Model,
			"duration", duration,
			"kind", Classify(err).String(),
			"error", err,
		)
		return Failure{Err: err, Generation: req.Generation}
	}

	s.log.InfoContext(ctx, "turn finished",
		"session", s.id,
		"model", req.Model,
		"duration", duration,
	)

	return Reply{Message: reply, Generation: req.Generation}
}

// Cancel aborts the in-flight request, if any. It is safe to call from any
// goroutine.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.turn != nil {
		s.turn.cancel()
		s.turn = nil
	}
}

// Send submits the current input and waits for the outcome. The returned
// transition merges the submit and its completion; its error is the
// rejection or the failure reason.
func (s *Session) Send(ctx context.Context) Transition {
	tr := s.Handle(Submit{})
	if tr.Request == nil {
		return tr
	}

	done := s.Handle(s.Dispatch(ctx, *tr.Request))
	tr.Entries = append(tr.Entries, done.Entries...)
	tr.Err = done.Err
	tr.Stale = done.Stale
	tr.To = done.To

	return tr
}

// Stage decodes the file at path and stages it, waiting for the result.
func (s *Session) Stage(ctx context.Context, path string) Transition {
	tr := s.Handle(StageAttachment{Path: path})
	if tr.Decode == nil {
		return tr
	}
	done := s.Handle(s.Decode(ctx, *tr.Decode))
	done.From = tr.From
	return done
}
