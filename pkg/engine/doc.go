// Package engine is the composition root of llm7chat. It loads configuration,
// builds the model catalog and the completer, and hands out sessions.
// Frontends (the TUI and the line mode) interact with Engine and
// session.Session and never build adapters themselves.
package engine
