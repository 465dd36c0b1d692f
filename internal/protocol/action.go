package protocol

// ActionKind tags a notepad modification. The six kinds below are the
// entire wire vocabulary; anything else is flagged as unknown when the
// batch is applied.
type ActionKind string

const (
	ActionReplaceAll       ActionKind = "replace_all"
	ActionAppend           ActionKind = "append"
	ActionPrepend          ActionKind = "prepend"
	ActionReplaceSection   ActionKind = "replace_section"
	ActionAppendToSection  ActionKind = "append_to_section"
	ActionSearchAndReplace ActionKind = "search_and_replace"
)

// Known reports whether k is one of the six recognized action kinds.
func (k ActionKind) Known() bool {
	switch k {
	case ActionReplaceAll, ActionAppend, ActionPrepend,
		ActionReplaceSection, ActionAppendToSection, ActionSearchAndReplace:
		return true
	}
	return false
}

// Action is one notepad modification instruction. Which fields are
// meaningful depends on Kind; field names are fixed by the wire format.
type Action struct {
	Kind        ActionKind `json:"action"`
	Content     string     `json:"content,omitempty"`
	Header      string     `json:"header,omitempty"`
	Find        string     `json:"find,omitempty"`
	Replacement string     `json:"replacement,omitempty"`
	All         bool       `json:"all,omitempty"`
}

// Update is the notepad portion of a parsed response: the action batch
// plus any decode error encountered while extracting it.
type Update struct {
	Actions []Action
	// Err describes a control-block decode failure. Non-fatal: the
	// discussion continues, but the error must be surfaced to the user.
	Err string
}

// Parsed is the decoded form of one model reply.
type Parsed struct {
	// SpokenText is the conversational reply with the control block
	// stripped. Never empty: silent action-only replies get a synthesized
	// placeholder.
	SpokenText string
	// Update is nil when the reply carried no actions and decoded cleanly.
	Update *Update
	// DiscussionComplete is the model's stop signal.
	DiscussionComplete bool
}
