// Package prompt builds the system and turn prompts for the two agents.
// Everything here is pure string assembly so it stays trivially testable.
package prompt

import (
	"fmt"
	"strings"

	"github.com/duetmind/duet/internal/chat"
)

// CognitoSystem is the standing instruction for the logical agent.
const CognitoSystem = `You are Cognito, a highly logical, analytical, and precise AI assistant.
**Objective:** Collaborate with your partner, Muse, to produce the most accurate, comprehensive, and helpful response for the user.

**YOUR ROLE (Cognito):**
- **Logical Anchor:** Focus on facts, structure, consistency, and practical feasibility.
- **Directness:** Address the user's specific questions immediately and clearly.
- **Reasoning:** Provide step-by-step logical deductions.
- **Collaboration:** Engage with Muse. Defend your logic against Muse's skepticism, but incorporate Muse's creative insights if they add value.
- **Guidance:** If the discussion drifts, gently steer it back to the user's core query.

**CRITICAL RULES:**
1. **IDENTITY:** You are Cognito. Never speak for Muse.
2. **TONE:** Professional, objective, calm, and analytical.
3. **SIMPLE QUERIES:** If the user query is trivial, answer directly and signal completion via JSON.`

// MuseSystem is the standing instruction for the creative agent.
const MuseSystem = `You are Muse, a creative, skeptical, and innovative AI assistant.
**Objective:** Collaborate with your partner, Cognito, to ensure the final response is not just correct, but insightful, complete, and creative.

**YOUR ROLE (Muse):**
- **The Challenger:** Question assumptions. Ask "Why?", "What if?", and "Is this enough?".
- **The Creative:** Propose lateral thinking, analogies, and out-of-the-box solutions.
- **Perspective:** Consider emotional context, edge cases, and future implications that logic might miss.
- **Collaboration:** Push Cognito to be better. Do not just disagree for the sake of it; disagree to improve the quality of the answer.

**CRITICAL RULES:**
1. **IDENTITY:** You are Muse. Never speak for Cognito.
2. **TONE:** Inquisitive, imaginative, slightly provocative but constructive.
3. **SIMPLE QUERIES:** If Cognito has answered perfectly, agree and signal completion via JSON.`

// InitialNotepad seeds a fresh session's shared document.
const InitialNotepad = `This is the shared notepad.
Cognito and Muse can edit and use it together over the course of the discussion.`

const notepadInstructions = `
**SHARED NOTEPAD & RESPONSE FORMAT:**
You share a "Notepad" with your partner. You must output your conversational response first, followed by a JSON block to manage the notepad and discussion state.
- **Current Notepad Content:**
---
%s
---

**INSTRUCTIONS:**
1. Write your conversational response to your partner or user in plain text.
2. At the very end, provide a single valid JSON object wrapped in a code block ` + "```json ... ```" + `.

**JSON SCHEMA:**
` + "```json" + `
{
  "notepad_modifications": [
    // Optional array of actions
    { "action": "replace_all", "content": "New full content" },
    { "action": "append", "content": "Text to add at bottom" },
    { "action": "prepend", "content": "Text to add at top" },
    { "action": "replace_section", "header": "Header Title", "content": "New content for section" },
    { "action": "append_to_section", "header": "Header Title", "content": "Text to append to section" },
    { "action": "search_and_replace", "find": "exact string", "replacement": "new string", "all": boolean }
  ],
  "discussion_complete": boolean // Set to true ONLY if the discussion is finished and ready for the user.
}
` + "```" + `

**Action Details:**
- ` + "`replace_section`" + `: Replaces everything under a specific Markdown header until the next header.
- ` + "`append_to_section`" + `: Adds content to the end of a specific Markdown header section.
- ` + "`replace_all`" + `: Use this for the Final Answer to set the notepad content.
`

const aiDrivenInstructions = `
**ENDING THE DISCUSSION:**
If you believe the current topic has been sufficiently explored and ready for the Final Answer, set ` + "`\"discussion_complete\": true`" + ` in your JSON output. Both partners must agree to end the discussion.
`

func commonInstructions(notepad string, mode chat.DiscussionMode) string {
	if strings.TrimSpace(notepad) == "" {
		notepad = ""
	}
	s := fmt.Sprintf(notepadInstructions, notepad)
	if mode == chat.ModeAiDriven {
		s += aiDrivenInstructions
	}
	return s
}

// ImageNote returns the instruction fragment acknowledging an attached
// image, or "" when there is none.
func ImageNote(hasImage bool) string {
	if !hasImage {
		return ""
	}
	return "\n(An image is attached to the query. Consider it in your analysis.)"
}

// Initial builds Cognito's opening prompt for a new discussion.
func Initial(userQuery, imageNote, notepad string, mode chat.DiscussionMode) string {
	return fmt.Sprintf(`### User Query
%q
%s

### Task (Cognito)
1. Analyze the user's query logically.
2. Provide your initial thoughts, factual breakdown, or solution.
3. Invite Muse to critique or expand on your points.

%s`, userQuery, imageNote, commonInstructions(notepad, mode))
}

// Turn builds the prompt for one discussion turn addressed to target.
// prevStop notes that the previous speaker asked to end an AI-driven
// discussion, which changes what the target is told about stopping.
func Turn(userQuery, imageNote string, history []string, lastText, notepad string, mode chat.DiscussionMode, prevStop bool, target chat.Sender) string {
	var previous chat.Sender
	var previousDesc string
	if target == chat.SenderMuse {
		previous = chat.SenderCognito
		previousDesc = "(Logic)"
	} else {
		previous = chat.SenderMuse
		previousDesc = "(Creative)"
	}

	p := fmt.Sprintf(`### User Query
%q
%s

### Discussion History
%s

### Last Message from %s %s
%q

### Task (%s)
Reply to %s. Continue the rigorous discussion.
- If you disagree, explain why constructively.
- If you agree, add value or nuance.
**Tone:** Constructive & Concise.

%s`, userQuery, imageNote, strings.Join(history, "\n"), previous, previousDesc, lastText, target, previous, commonInstructions(notepad, mode))

	if mode == chat.ModeAiDriven && prevStop {
		p += fmt.Sprintf("\n**NOTE:** %s suggested ending the discussion (set discussion_complete: true). If you agree that the topic is fully exhausted, set \"discussion_complete\": true in your JSON. Otherwise, continue.", previous)
	}
	return p
}

// Final builds Cognito's closing prompt that produces the answer for the
// user.
func Final(userQuery, imageNote string, history []string, notepad string, mode chat.DiscussionMode) string {
	return fmt.Sprintf(`### User Query
%q
%s

### Full Discussion History
%s

### Final Task (Cognito)
1. Synthesize the entire discussion into a **comprehensive Final Answer** for the user.
2. **IMPORTANT:** You MUST update the Notepad with this Final Answer using the "replace_all" action in your JSON. The notepad is the primary delivery method for the final answer.
3. Your spoken reply (outside JSON) should be very brief (e.g., "I have updated the notepad with the final answer.").

%s`, userQuery, imageNote, strings.Join(history, "\n"), commonInstructions(notepad, mode))
}

// HistoryLine formats one transcript entry for inclusion in a turn
// prompt.
func HistoryLine(sender chat.Sender, text string) string {
	return fmt.Sprintf("%s: %s", sender, text)
}
