package orchestrator

import (
	"fmt"

	"github.com/duetmind/duet/internal/chat"
)

// StepKind enumerates the four step types in a discussion flow.
type StepKind int

const (
	// StepInitial is Cognito's opening analysis of the user query.
	StepInitial StepKind = iota
	// StepMuseTurn is Muse's reply within the discussion loop.
	StepMuseTurn
	// StepCognitoTurn is Cognito's reply within the discussion loop.
	StepCognitoTurn
	// StepFinal is Cognito's synthesis of the final answer.
	StepFinal
)

// StepID identifies one generation step. Turn is meaningful only for the
// loop step kinds.
type StepID struct {
	Kind StepKind
	Turn int
}

func (s StepID) String() string {
	switch s.Kind {
	case StepInitial:
		return "cognito-initial"
	case StepMuseTurn:
		return fmt.Sprintf("muse-turn-%d", s.Turn)
	case StepCognitoTurn:
		return fmt.Sprintf("cognito-turn-%d", s.Turn)
	case StepFinal:
		return "cognito-final"
	}
	return fmt.Sprintf("unknown-step-%d", int(s.Kind))
}

// Sender returns the agent that speaks in this step.
func (s StepID) Sender() chat.Sender {
	if s.Kind == StepMuseTurn {
		return chat.SenderMuse
	}
	return chat.SenderCognito
}

// Purpose returns the transcript purpose for this step's message.
func (s StepID) Purpose() chat.Purpose {
	switch s.Kind {
	case StepMuseTurn:
		return chat.PurposeMuseToCognito
	case StepFinal:
		return chat.PurposeFinalResponse
	}
	return chat.PurposeCognitoToMuse
}

// FailedStep captures everything needed to manually retry a step after
// automatic retries are exhausted, and to resume the flow from that
// point once the retry succeeds.
type FailedStep struct {
	ID     StepID
	Prompt string

	// Flow context for resuming after a successful retry.
	UserQuery     string
	Image         *chat.Image
	HistoryBefore []string
	PrevStop      bool
}
