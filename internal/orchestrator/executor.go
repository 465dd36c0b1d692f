package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/errors"
	"github.com/duetmind/duet/internal/prompt"
	"github.com/duetmind/duet/internal/protocol"
	"github.com/duetmind/duet/internal/provider"
)

// executeStep runs one generation step with automatic retries. On
// success the agent's message is recorded and the parsed reply returned.
// Credential failures abort immediately and raise the key status;
// transient failures retry with linear backoff; exhaustion parks a
// FailedStep for manual retry and returns a handled StepError.
func (o *Orchestrator) executeStep(ctx context.Context, f *flow, id StepID, promptText string) (protocol.Parsed, error) {
	agent := f.settings.agent(id)
	logger := o.logger.WithStep(id.String())

	systemInstruction := prompt.CognitoSystem
	if id.Sender() == chat.SenderMuse {
		systemInstruction = prompt.MuseSystem
	}

	req := provider.Request{
		Model:             agent.Model,
		Prompt:            promptText,
		SystemInstruction: systemInstruction,
		Image:             f.image,
		Thinking:          agent.Thinking,
	}

	for attempt := 0; ; attempt++ {
		if o.guard.Cancelled() {
			return protocol.Parsed{}, errors.ErrCancelled
		}

		result, err := o.client.Generate(ctx, req)
		if err == nil {
			// A cancel raised while the call was in flight must win:
			// nothing from this step may reach the transcript.
			if o.guard.Cancelled() {
				return protocol.Parsed{}, errors.ErrCancelled
			}
			o.setKeyStatus(KeyStatus{})
			parsed := protocol.Parse(result.Text)
			o.log.Record(chat.NewMessage(parsed.SpokenText, id.Sender(), id.Purpose()).
				WithDuration(result.Duration).
				WithThoughts(result.Thoughts))
			logger.Info("step completed",
				"attempts", attempt+1,
				"duration_ms", result.Duration.Milliseconds())
			return parsed, nil
		}

		if o.guard.Cancelled() || errors.IsCancellation(err) {
			return protocol.Parsed{}, errors.ErrCancelled
		}

		if errors.Is(err, errors.ErrMissingAPIKey) {
			o.setKeyStatus(KeyStatus{Missing: true, Message: err.Error()})
			return protocol.Parsed{}, &errors.StepError{Step: id.String(), Attempts: attempt + 1, Err: err}
		}
		if errors.Is(err, errors.ErrInvalidAPIKey) {
			o.setKeyStatus(KeyStatus{Invalid: true, Message: err.Error()})
			return protocol.Parsed{}, &errors.StepError{Step: id.String(), Attempts: attempt + 1, Err: err}
		}

		if attempt < f.settings.MaxAutoRetries {
			o.log.Notify(fmt.Sprintf("[%s - %s] Call failed, retrying (%d/%d)... %v",
				id.Sender(), id, attempt+1, f.settings.MaxAutoRetries, err))
			logger.Warn("step failed, retrying", "attempt", attempt+1, "error", err.Error())

			select {
			case <-time.After(f.settings.RetryDelayBase * time.Duration(attempt+1)):
			case <-ctx.Done():
				return protocol.Parsed{}, errors.ErrCancelled
			}
			continue
		}

		o.log.Notify(fmt.Sprintf("[%s - %s] Failed after %d attempts: %v. Manual retry is available.",
			id.Sender(), id, attempt+1, err))
		o.setFailed(&FailedStep{
			ID:            id,
			Prompt:        promptText,
			UserQuery:     f.userQuery,
			Image:         f.image,
			HistoryBefore: append([]string(nil), f.history...),
			PrevStop:      f.prevStop,
		})
		logger.Error("step exhausted retries", "attempts", attempt+1, "error", err.Error())

		stepErr := &errors.StepError{Step: id.String(), Attempts: attempt + 1, Err: err}
		stepErr.MarkHandled()
		return protocol.Parsed{}, stepErr
	}
}
