package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/germanamz/llm7chat/cmd/llm7chat/internal/format"
	"github.com/germanamz/llm7chat/pkg/session"
)

// appModel is the root bubbletea model. It owns the session and is the only
// caller of sess.Handle; the blocking steps run in tea.Cmds and come back as
// dispatchDoneMsg and decodeDoneMsg.
type appModel struct {
	ctx       context.Context
	sess      *session.Session
	chatView  chatViewModel
	inputBox  inputModel
	statusBar statusBarModel
	width     int
	height    int
	// ready is set once the input has been focused after the initial drain.
	ready bool
}

func newAppModel(ctx context.Context, sess *session.Session) appModel {
	m := appModel{
		ctx:       ctx,
		sess:      sess,
		inputBox:  newInput(),
		statusBar: newStatusBar(sess),
	}
	m.chatView.sync(sess)
	return m
}

func (m appModel) Init() tea.Cmd {
	// Delay focusing the input so that stale terminal escape-sequence
	// responses (e.g. OSC 11 background-color) are drained first.
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return initDrainMsg{}
	})
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chatView.width = msg.Width
		format.InitMarkdownRenderer(m.width - 4)
		m.inputBox.setWidth(m.width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case initDrainMsg:
		m.ready = true
		cmd := m.inputBox.enable()
		return m, cmd

	case inputSubmitMsg:
		return m.handleSubmit(msg)

	case dispatchDoneMsg:
		tr := m.sess.Handle(msg.event)
		if !tr.Stale {
			m.statusBar.duration = msg.duration
		}
		cmd := m.apply(tr)
		return m, cmd

	case decodeDoneMsg:
		cmd := m.apply(m.sess.Handle(msg.event))
		return m, cmd

	case tickMsg:
		if m.sess.State() == session.StateSending {
			m.chatView.advanceSpinner()
			return m, tickCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputBox, cmd = m.inputBox.Update(msg)
	return m, cmd
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.chatView.View(),
		m.inputBox.View(),
		m.statusBar.View(),
	)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.sess.Cancel()
		return m, tea.Quit
	case tea.KeyEsc:
		if m.sess.State() == session.StateSending {
			m.sess.Handle(session.Cancel{})
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputBox, cmd = m.inputBox.Update(msg)
	return m, cmd
}

func (m appModel) handleSubmit(msg inputSubmitMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := parseCommand(msg.text); ok {
		out := runCommand(m.ctx, m.sess, cmd)
		if out.quit {
			m.sess.Cancel()
			return m, tea.Quit
		}

		var cmds []tea.Cmd
		if out.transition == nil {
			cmds = append(cmds, m.syncControls())
		} else {
			cmds = append(cmds, m.apply(*out.transition))
		}
		if out.err != nil {
			cmds = append(cmds, tea.Println(errorBlockStyle.Render("Error: "+out.err.Error())))
		}
		if out.notice != "" {
			cmds = append(cmds, tea.Println(dimStyle.Render(out.notice)))
		}
		return m, tea.Sequence(cmds...)
	}

	m.sess.Handle(session.InputChanged{Text: msg.text})
	cmd := m.apply(m.sess.Handle(session.Submit{}))
	return m, cmd
}

// apply turns a transition into output and follow-up commands, and syncs the
// widgets with the session.
func (m *appModel) apply(tr session.Transition) tea.Cmd {
	var cmds []tea.Cmd

	hasErrorEntry := false
	for _, e := range tr.Entries {
		if e.IsError() {
			hasErrorEntry = true
		}
		cmds = append(cmds, tea.Println(renderEntry(e, m.sess.ModelName())))
	}

	if tr.Err != nil && !hasErrorEntry {
		cmds = append(cmds, tea.Println(errorBlockStyle.Render("Error: "+tr.Err.Error())))
	}

	if tr.Request != nil {
		cmds = append(cmds, dispatchCmd(m.ctx, m.sess, *tr.Request), tickCmd())
	}
	if tr.Decode != nil {
		cmds = append(cmds, decodeCmd(m.ctx, m.sess, *tr.Decode))
	}

	cmds = append(cmds, m.syncControls())

	return tea.Batch(cmds...)
}

// syncControls mirrors the session's controls onto the widgets. The input is
// locked while a reply is pending.
func (m *appModel) syncControls() tea.Cmd {
	m.chatView.sync(m.sess)
	m.inputBox.allowEmpty = m.chatView.attachment != nil

	switch {
	case m.sess.Controls().Loading:
		m.inputBox.disable()
	case m.ready && !m.inputBox.enabled:
		return m.inputBox.enable()
	}
	return nil
}

func dispatchCmd(ctx context.Context, sess *session.Session, req session.Request) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ev := sess.Dispatch(ctx, req)
		return dispatchDoneMsg{event: ev, duration: time.Since(start)}
	}
}

func decodeCmd(ctx context.Context, sess *session.Session, job session.DecodeJob) tea.Cmd {
	return func() tea.Msg {
		return decodeDoneMsg{event: sess.Decode(ctx, job)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
