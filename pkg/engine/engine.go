package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/germanamz/llm7chat/pkg/capability"
	"github.com/germanamz/llm7chat/pkg/modeladapter"
	"github.com/germanamz/llm7chat/pkg/session"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger handed to every session.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock sets the time source handed to every session.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the composition root that assembles the catalog, the completer
// and the logger from configuration and hands out sessions.
type Engine struct {
	cfg       Config
	catalog   *capability.Catalog
	completer modeladapter.Completer
	timeout   time.Duration
	log       *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session.Session
}

// New creates an Engine from the given configuration.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}

	completer, err := buildCompleter(cfg)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		catalog:   cfg.Catalog(),
		completer: completer,
		timeout:   timeout,
		log:       slog.New(slog.DiscardHandler),
		now:       time.Now,
		sessions:  make(map[string]*session.Session),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.log.Info("engine ready",
		"base_url", cfg.BaseURL,
		"client", cfg.Client,
		"models", e.catalog.Len(),
	)

	return e, nil
}

// Config returns the configuration the engine was built from.
func (e *Engine) Config() Config { return e.cfg }

// Catalog returns the model catalog.
func (e *Engine) Catalog() *capability.Catalog { return e.catalog }

// Completer returns the shared completer.
func (e *Engine) Completer() modeladapter.Completer { return e.completer }

// NewSession creates a session for model. An empty model selects the
// configured default.
func (e *Engine) NewSession(model string) (*session.Session, error) {
	if model == "" {
		model = e.cfg.DefaultModel
	}
	if model == "" {
		model = capability.DefaultModel
	}

	s, err := session.New(e.completer, e.catalog, model,
		session.WithLogger(e.log),
		session.WithClock(e.now),
		session.WithRequestTimeout(e.timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: new session: %w", err)
	}

	e.mu.Lock()
	e.sessions[s.ID()] = s
	e.mu.Unlock()

	e.log.Info("session created", "session", s.ID(), "model", model)

	return s, nil
}

// Session returns the session with the given ID.
func (e *Engine) Session(id string) (*session.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	return s, ok
}

// RemoveSession cancels the session's in-flight request and forgets it.
func (e *Engine) RemoveSession(id string) {
	e.mu.Lock()
	s, ok := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()

	if ok {
		s.Cancel()
	}
}

// Close cancels every in-flight request.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for id, s := range e.sessions {
		s.Cancel()
		delete(e.sessions, id)
	}

	return nil
}
