package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/config"
	"github.com/duetmind/duet/internal/notepad"
	"github.com/duetmind/duet/internal/orchestrator"
)

// App wraps the Bubbletea program. It bridges the orchestrator's callbacks
// into program messages: transcript changes, key status updates, and flow
// completion all arrive through the same channel.
type App struct {
	program *tea.Program
	log     *chat.Log
	pad     *notepad.Engine
	orch    *orchestrator.Orchestrator
	cfg     config.TUIConfig
	persist func()
	msgs    chan tea.Msg
}

// Option configures an App.
type Option func(*App)

// WithPersist registers a hook invoked after every transcript or notepad
// change, typically to autosave the session.
func WithPersist(fn func()) Option {
	return func(a *App) { a.persist = fn }
}

// WithConfig applies the TUI configuration (initial pane visibility).
func WithConfig(cfg config.TUIConfig) Option {
	return func(a *App) { a.cfg = cfg }
}

// New creates a TUI application over the shared transcript and notepad.
// The orchestrator is attached separately because it needs the App as its
// status sink at construction time.
func New(log *chat.Log, pad *notepad.Engine, opts ...Option) *App {
	a := &App{
		log:  log,
		pad:  pad,
		msgs: make(chan tea.Msg, 64),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetOrchestrator attaches the discussion orchestrator. Must be called
// before Run.
func (a *App) SetOrchestrator(orch *orchestrator.Orchestrator) {
	a.orch = orch
}

// SetKeyStatus implements orchestrator.StatusSink. Updates surface as a
// persistent banner until the key problem is resolved.
func (a *App) SetKeyStatus(status orchestrator.KeyStatus) {
	a.send(keyStatusMsg{status: status})
}

// send queues a message for the program without blocking the caller. The
// orchestrator runs on its own goroutine and must never stall on the UI.
func (a *App) send(msg tea.Msg) {
	select {
	case a.msgs <- msg:
	default:
	}
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	model := newModel(a.orch, a.log, a.pad)
	model.showNotepad = a.cfg.ShowNotepad
	model.showThoughts = a.cfg.ShowThoughts

	a.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	onChange := func() {
		if a.persist != nil {
			a.persist()
		}
		a.send(activityMsg{})
	}
	a.log.OnChange(onChange)
	a.pad.OnChange(onChange)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case msg := <-a.msgs:
				a.program.Send(msg)
			case <-done:
				return
			}
		}
	}()

	// Preserve session state when the process is terminated.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	signal.Stop(sigChan)
	close(done)

	return err
}

// Messages

// activityMsg wakes the event loop after a transcript or notepad change.
type activityMsg struct{}

// flowDoneMsg reports that a discussion flow (or manual retry) returned.
type flowDoneMsg struct {
	err error
}

// keyStatusMsg carries API key status updates from the orchestrator.
type keyStatusMsg struct {
	status orchestrator.KeyStatus
}
