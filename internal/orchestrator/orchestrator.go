package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/errors"
	"github.com/duetmind/duet/internal/logging"
	"github.com/duetmind/duet/internal/notepad"
	"github.com/duetmind/duet/internal/prompt"
	"github.com/duetmind/duet/internal/protocol"
	"github.com/duetmind/duet/internal/provider"
)

// KeyStatus reports API key problems to the UI.
type KeyStatus struct {
	Missing bool
	Invalid bool
	Message string
}

// StatusSink receives key status updates. The TUI implements this to
// show a persistent banner until the key is fixed.
type StatusSink interface {
	SetKeyStatus(status KeyStatus)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStatusSink routes key status updates to sink.
func WithStatusSink(sink StatusSink) Option {
	return func(o *Orchestrator) { o.status = sink }
}

// Orchestrator coordinates one discussion flow at a time over a shared
// chat log and notepad.
type Orchestrator struct {
	client provider.Client
	log    *chat.Log
	pad    *notepad.Engine
	logger *logging.Logger
	status StatusSink
	guard  CancelGuard

	mu                 sync.Mutex
	busy               bool
	settings           Settings
	failed             *FailedStep
	lastCompletedTurns int
}

// New creates an orchestrator. Settings must be supplied via SetSettings
// before the first Start.
func New(client provider.Client, log *chat.Log, pad *notepad.Engine, logger *logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		log:    log,
		pad:    pad,
		logger: logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetSettings replaces the settings used by subsequent flows. A flow
// already in progress keeps its snapshot.
func (o *Orchestrator) SetSettings(s Settings) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.settings = s
}

// Settings returns the current settings snapshot.
func (o *Orchestrator) Settings() Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

// Busy reports whether a flow is in progress.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy
}

// Failed returns the parked step awaiting manual retry, or nil.
func (o *Orchestrator) Failed() *FailedStep {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.failed
}

// LastCompletedTurns reports how many discussion turns the most recent
// completed flow ran.
func (o *Orchestrator) LastCompletedTurns() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastCompletedTurns
}

// Cancel aborts the flow in progress. Safe to call at any time.
func (o *Orchestrator) Cancel() {
	o.guard.Cancel()
}

// Start runs a full discussion flow for a user query. It blocks until
// the flow completes, fails, or is cancelled, so callers usually run it
// on its own goroutine.
func (o *Orchestrator) Start(ctx context.Context, userQuery string, image *chat.Image) error {
	if strings.TrimSpace(userQuery) == "" && image == nil {
		return fmt.Errorf("empty query")
	}

	settings, err := o.acquire()
	if err != nil {
		return err
	}
	defer o.release()

	ctx = o.guard.Arm(ctx)
	o.setKeyStatus(KeyStatus{})

	o.log.Record(chat.NewMessage(userQuery, chat.SenderUser, chat.PurposeUserInput).WithImage(image))
	o.logger.Info("flow started", "mode", string(settings.Mode))

	f := &flow{
		o:         o,
		settings:  settings,
		userQuery: userQuery,
		image:     image,
		imageNote: imageNote(image),
	}
	return o.finish(f.run(ctx))
}

// RetryFailedStep re-runs the parked step and, on success, resumes the
// flow from where the failure interrupted it.
func (o *Orchestrator) RetryFailedStep(ctx context.Context) error {
	o.mu.Lock()
	if o.busy {
		o.mu.Unlock()
		return errors.ErrSessionBusy
	}
	failed := o.failed
	if failed == nil {
		o.mu.Unlock()
		return fmt.Errorf("no failed step to retry")
	}
	o.busy = true
	o.failed = nil
	settings := o.settings
	o.mu.Unlock()
	defer o.release()

	ctx = o.guard.Arm(ctx)
	o.setKeyStatus(KeyStatus{})
	o.log.Notify(fmt.Sprintf("[%s - %s] Retrying manually...", failed.ID.Sender(), failed.ID))

	f := &flow{
		o:         o,
		settings:  settings,
		userQuery: failed.UserQuery,
		image:     failed.Image,
		imageNote: imageNote(failed.Image),
		history:   append([]string(nil), failed.HistoryBefore...),
		prevStop:  failed.PrevStop,
	}
	return o.finish(f.resume(ctx, failed))
}

func (o *Orchestrator) acquire() (Settings, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy {
		return Settings{}, errors.ErrSessionBusy
	}
	o.busy = true
	o.failed = nil
	return o.settings, nil
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

// finish translates a flow outcome into user-facing notifications.
// Handled step errors already produced their own messages.
func (o *Orchestrator) finish(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsCancellation(err) {
		if o.Failed() == nil {
			o.mu.Lock()
			o.lastCompletedTurns = 0
			o.mu.Unlock()
			o.log.Notify("Response stopped by user.")
		}
		return err
	}
	if !errors.IsHandled(err) {
		o.log.Notify("Error: " + err.Error())
	}
	o.logger.Error("flow failed", "error", err.Error())
	return err
}

func (o *Orchestrator) setKeyStatus(status KeyStatus) {
	if o.status != nil {
		o.status.SetKeyStatus(status)
	}
}

func (o *Orchestrator) setFailed(f *FailedStep) {
	o.mu.Lock()
	o.failed = f
	o.mu.Unlock()
}

func (o *Orchestrator) setLastCompletedTurns(n int) {
	o.mu.Lock()
	o.lastCompletedTurns = n
	o.mu.Unlock()
}

// applyNotepad applies a parsed update to the shared notepad and reports
// problems both to the user and, via the returned feedback line, to the
// next prompt's discussion history.
func (o *Orchestrator) applyNotepad(parsed protocol.Parsed, sender chat.Sender) string {
	update := parsed.Update
	if update == nil {
		return ""
	}

	var feedback string
	if len(update.Actions) > 0 {
		_, warnings := o.pad.ApplyActions(string(sender), update.Actions)
		if len(warnings) > 0 {
			o.log.Notify(fmt.Sprintf("Some of %s's notepad edits could not be applied:\n- %s",
				sender, strings.Join(warnings, "\n- ")))
			feedback = "[System Error] Notepad update failed: " + strings.Join(warnings, "; ")
		}
	}

	if update.Err != "" {
		o.log.Notify(fmt.Sprintf("%s's notepad update could not be parsed: %s", sender, update.Err))
		if feedback == "" {
			feedback = "[System Error] Notepad update parsing failed: " + update.Err
		}
	}
	return feedback
}

func imageNote(image *chat.Image) string {
	return prompt.ImageNote(image != nil)
}
