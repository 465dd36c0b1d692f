package protocol

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// fencedBlock matches a ```json fenced code block (the language tag is
// optional). The control block is expected last, so Parse uses the final
// match.
var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

const (
	keyModifications = `"notepad_modifications"`
	keyComplete      = `"discussion_complete"`
)

// Parse decodes a raw model reply. It never fails: decode problems are
// reported through Update.Err and the original text is preserved.
func Parse(raw string) Parsed {
	spoken := raw
	var actions []Action
	complete := false
	parseErr := ""

	if matches := fencedBlock.FindAllStringSubmatchIndex(raw, -1); len(matches) > 0 {
		last := matches[len(matches)-1]
		full := raw[last[0]:last[1]]
		inner := raw[last[2]:last[3]]

		env, err := decodeEnvelope(inner)
		if err != nil {
			// Leave the spoken text untouched; the block could not be
			// confirmed as ours.
			parseErr = "failed to parse the AI's JSON control block"
		} else {
			actions = env.actions
			complete = env.complete
			spoken = strings.TrimSpace(strings.Replace(raw, full, "", 1))
		}
	} else if open, close := lastBalancedObject(raw); open != -1 {
		// Fallback for models that omit the code fence but still emit the
		// JSON object. Only a span containing one of our key names may
		// trigger this, so braces in ordinary prose are left alone.
		candidate := raw[open : close+1]
		if strings.Contains(candidate, keyModifications) || strings.Contains(candidate, keyComplete) {
			if env, err := decodeEnvelope(candidate); err == nil {
				actions = env.actions
				complete = env.complete
				spoken = strings.TrimSpace(raw[:open])
			}
		}
	}

	if strings.TrimSpace(spoken) == "" {
		spoken = silentPlaceholder(len(actions), complete)
	}

	var update *Update
	if len(actions) > 0 || parseErr != "" {
		update = &Update{Actions: actions, Err: parseErr}
	}

	return Parsed{
		SpokenText:         spoken,
		Update:             update,
		DiscussionComplete: complete,
	}
}

// lastBalancedObject finds the last {...} span in s whose braces
// balance, scanning back from the final closing brace. The envelope
// nests objects inside notepad_modifications, so the last "{" alone
// would land mid-object. Returns open = -1 when no balanced span ends
// at the final "}".
func lastBalancedObject(s string) (open, close int) {
	close = strings.LastIndex(s, "}")
	if close == -1 {
		return -1, -1
	}
	depth := 0
	for i := close; i >= 0; i-- {
		switch s[i] {
		case '}':
			depth++
		case '{':
			depth--
			if depth == 0 {
				return i, close
			}
		}
	}
	return -1, -1
}

type envelope struct {
	actions  []Action
	complete bool
}

// decodeEnvelope strictly parses the control object. The two fields are
// read leniently: a missing or wrongly-typed field is ignored rather than
// failing the whole block.
func decodeEnvelope(s string) (envelope, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return envelope{}, err
	}

	var env envelope
	if raw, ok := obj["notepad_modifications"]; ok {
		var actions []Action
		if err := json.Unmarshal(raw, &actions); err == nil {
			env.actions = actions
		}
	}
	if raw, ok := obj["discussion_complete"]; ok {
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			env.complete = b
		}
	}
	return env, nil
}

// silentPlaceholder describes which silent actions occurred, so the
// transcript never shows a blank bubble.
func silentPlaceholder(actionCount int, complete bool) string {
	switch {
	case actionCount > 0 && complete:
		return fmt.Sprintf("(AI updated the notepad (%d actions) and suggested ending the discussion)", actionCount)
	case actionCount > 0:
		return fmt.Sprintf("(AI updated the notepad (%d actions))", actionCount)
	case complete:
		return "(AI suggested ending the discussion)"
	}
	return "(AI provided no additional reply text)"
}
