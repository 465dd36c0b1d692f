package orchestrator

import (
	"context"
	"fmt"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/errors"
	"github.com/duetmind/duet/internal/prompt"
	"github.com/duetmind/duet/internal/protocol"
)

// flow carries the mutable state of one discussion from the opening
// step through the final answer.
type flow struct {
	o         *Orchestrator
	settings  Settings
	userQuery string
	image     *chat.Image
	imageNote string

	history   []string
	lastText  string
	prevStop  bool
	finalTurn int
}

// run executes a complete flow: opening analysis, turn loop, final
// synthesis.
func (f *flow) run(ctx context.Context) error {
	o := f.o

	id := StepID{Kind: StepInitial}
	o.log.Notify(fmt.Sprintf("%s is preparing an opening take for %s (model %s)...",
		chat.SenderCognito, chat.SenderMuse, f.settings.Cognito.Model))

	parsed, err := o.executeStep(ctx, f, id, prompt.Initial(f.userQuery, f.imageNote, o.pad.Content(), f.settings.Mode))
	if err != nil {
		return err
	}
	f.absorb(chat.SenderCognito, parsed)
	if f.aiDriven() && f.prevStop {
		f.notifyStopSuggested(chat.SenderCognito, chat.SenderMuse)
	}

	if _, err := f.runLoop(ctx, 0, false); err != nil {
		return err
	}

	return f.runFinal(ctx)
}

// resume continues a flow after a parked step was retried successfully.
func (f *flow) resume(ctx context.Context, failed *FailedStep) error {
	o := f.o

	parsed, err := o.executeStep(ctx, f, failed.ID, failed.Prompt)
	if err != nil {
		return err
	}
	o.log.Notify(fmt.Sprintf("[%s - %s] Manual retry succeeded. Resuming the flow.", failed.ID.Sender(), failed.ID))

	signaledBefore := f.prevStop
	f.absorb(failed.ID.Sender(), parsed)
	bothAgreed := f.aiDriven() && signaledBefore && parsed.DiscussionComplete

	switch failed.ID.Kind {
	case StepFinal:
		// The flow was already past the loop; the retried synthesis is
		// the end of it.
		if f.fixedTurns() {
			o.setLastCompletedTurns(f.settings.FixedTurns)
		}
		return nil

	case StepInitial:
		if f.aiDriven() && f.prevStop {
			f.notifyStopSuggested(chat.SenderCognito, chat.SenderMuse)
		}
		if _, err := f.runLoop(ctx, 0, false); err != nil {
			return err
		}

	case StepMuseTurn:
		if bothAgreed {
			f.notifyBothAgreed(chat.SenderCognito, chat.SenderMuse)
		} else {
			if f.aiDriven() && f.prevStop {
				f.notifyStopSuggested(chat.SenderMuse, chat.SenderCognito)
			}
			if _, err := f.runLoop(ctx, failed.ID.Turn, true); err != nil {
				return err
			}
		}

	case StepCognitoTurn:
		if bothAgreed {
			f.notifyBothAgreed(chat.SenderMuse, chat.SenderCognito)
		} else {
			if f.aiDriven() && f.prevStop {
				f.notifyStopSuggested(chat.SenderCognito, chat.SenderMuse)
			}
			if _, err := f.runLoop(ctx, failed.ID.Turn+1, false); err != nil {
				return err
			}
		}
	}

	return f.runFinal(ctx)
}

// runLoop alternates Muse and Cognito turns starting at startTurn.
// skipMuse resumes a turn at the Cognito half. It reports whether the
// loop ended by mutual agreement.
func (f *flow) runLoop(ctx context.Context, startTurn int, skipMuse bool) (bool, error) {
	o := f.o
	f.finalTurn = startTurn

	for turn := startTurn; ; turn++ {
		f.finalTurn = turn

		if o.guard.Cancelled() {
			return false, errors.ErrCancelled
		}
		if f.fixedTurns() && turn >= f.settings.FixedTurns {
			return false, nil
		}

		if !(skipMuse && turn == startTurn) {
			o.log.Notify(fmt.Sprintf("%s is responding to %s (model %s)...",
				chat.SenderMuse, chat.SenderCognito, f.settings.Muse.Model))

			parsed, err := o.executeStep(ctx, f, StepID{Kind: StepMuseTurn, Turn: turn},
				prompt.Turn(f.userQuery, f.imageNote, f.history, f.lastText, o.pad.Content(),
					f.settings.Mode, f.prevStop, chat.SenderMuse))
			if err != nil {
				return false, err
			}
			if o.guard.Cancelled() {
				return false, errors.ErrCancelled
			}

			cognitoSignaled := f.prevStop
			f.absorb(chat.SenderMuse, parsed)

			if f.aiDriven() {
				if f.prevStop && cognitoSignaled {
					f.notifyBothAgreed(chat.SenderCognito, chat.SenderMuse)
					return true, nil
				}
				if f.prevStop {
					f.notifyStopSuggested(chat.SenderMuse, chat.SenderCognito)
				}
			}
		}
		skipMuse = false

		if o.guard.Cancelled() {
			return false, errors.ErrCancelled
		}
		if f.fixedTurns() && turn >= f.settings.FixedTurns-1 {
			return false, nil
		}

		o.log.Notify(fmt.Sprintf("%s is responding to %s (model %s)...",
			chat.SenderCognito, chat.SenderMuse, f.settings.Cognito.Model))

		parsed, err := o.executeStep(ctx, f, StepID{Kind: StepCognitoTurn, Turn: turn},
			prompt.Turn(f.userQuery, f.imageNote, f.history, f.lastText, o.pad.Content(),
				f.settings.Mode, f.prevStop, chat.SenderCognito))
		if err != nil {
			return false, err
		}
		if o.guard.Cancelled() {
			return false, errors.ErrCancelled
		}

		museSignaled := f.prevStop
		f.absorb(chat.SenderCognito, parsed)

		if f.aiDriven() {
			if f.prevStop && museSignaled {
				f.notifyBothAgreed(chat.SenderMuse, chat.SenderCognito)
				return true, nil
			}
			if f.prevStop {
				f.notifyStopSuggested(chat.SenderCognito, chat.SenderMuse)
			}
		}
	}
}

// runFinal asks Cognito to synthesize the final answer and records turn
// statistics.
func (f *flow) runFinal(ctx context.Context) error {
	o := f.o

	if o.guard.Cancelled() {
		return errors.ErrCancelled
	}

	o.log.Notify(fmt.Sprintf("%s is synthesizing the discussion into a final answer (model %s)...",
		chat.SenderCognito, f.settings.Cognito.Model))

	parsed, err := o.executeStep(ctx, f, StepID{Kind: StepFinal},
		prompt.Final(f.userQuery, f.imageNote, f.history, o.pad.Content(), f.settings.Mode))
	if err != nil {
		return err
	}
	if o.guard.Cancelled() {
		return errors.ErrCancelled
	}
	o.applyNotepad(parsed, chat.SenderCognito)

	if f.fixedTurns() {
		o.setLastCompletedTurns(f.settings.FixedTurns)
	} else {
		o.setLastCompletedTurns(f.finalTurn + 1)
	}
	return nil
}

// absorb folds a parsed reply into the flow state: notepad changes are
// applied, the spoken text joins the history, and the stop signal is
// carried to the next turn.
func (f *flow) absorb(sender chat.Sender, parsed protocol.Parsed) {
	feedback := f.o.applyNotepad(parsed, sender)
	f.lastText = parsed.SpokenText
	f.history = append(f.history, prompt.HistoryLine(sender, parsed.SpokenText))
	if feedback != "" {
		f.history = append(f.history, "(System Note: "+feedback+")")
	}
	f.prevStop = parsed.DiscussionComplete
}

func (f *flow) aiDriven() bool   { return f.settings.Mode == chat.ModeAiDriven }
func (f *flow) fixedTurns() bool { return f.settings.Mode == chat.ModeFixedTurns }

func (f *flow) notifyStopSuggested(who, waiting chat.Sender) {
	f.o.log.Notify(fmt.Sprintf("%s has suggested ending the discussion. Waiting for %s to respond.", who, waiting))
}

func (f *flow) notifyBothAgreed(a, b chat.Sender) {
	f.o.log.Notify(fmt.Sprintf("Both agents (%s and %s) have agreed to end the discussion.", a, b))
}
