package notepad

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/duetmind/duet/internal/protocol"
)

// excessBlankLines collapses runs of three or more newlines left behind by
// section edits.
var excessBlankLines = regexp.MustCompile(`\n{3,}`)

// Apply runs each action against content in order and returns the new
// content plus a warning per action that could not be applied. A bad
// action never aborts the batch; later actions still run.
func Apply(content string, actions []protocol.Action) (string, []string) {
	var warnings []string

	for i, action := range actions {
		next, err := applyOne(content, action)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("action %d: %v", i+1, err))
			continue
		}
		content = next
	}

	return content, warnings
}

func applyOne(content string, action protocol.Action) (string, error) {
	switch action.Kind {
	case protocol.ActionReplaceAll:
		return action.Content, nil

	case protocol.ActionAppend:
		if content == "" {
			return action.Content, nil
		}
		if strings.HasSuffix(content, "\n") {
			return content + action.Content, nil
		}
		return content + "\n" + action.Content, nil

	case protocol.ActionPrepend:
		if content == "" {
			return action.Content, nil
		}
		if strings.HasSuffix(action.Content, "\n") {
			return action.Content + content, nil
		}
		return action.Content + "\n" + content, nil

	case protocol.ActionReplaceSection:
		return editSection(content, action.Header, action.Content, true)

	case protocol.ActionAppendToSection:
		return editSection(content, action.Header, action.Content, false)

	case protocol.ActionSearchAndReplace:
		if action.Find == "" {
			return "", fmt.Errorf("search_and_replace requires a non-empty find string")
		}
		if !strings.Contains(content, action.Find) {
			if action.All {
				// Replace-all of absent text is a no-op, not a mistake.
				return content, nil
			}
			return "", fmt.Errorf("text %q not found", truncate(action.Find, 20))
		}
		if action.All {
			return strings.ReplaceAll(content, action.Find, action.Replacement), nil
		}
		return strings.Replace(content, action.Find, action.Replacement, 1), nil
	}

	return "", fmt.Errorf("unknown action %q", action.Kind)
}

// editSection locates the section opened by a heading whose text matches
// header (case-insensitive, any depth) and either replaces its body or
// appends to it. The section runs until the next heading of the same or
// shallower depth, or the end of the document.
func editSection(content, header, insert string, replace bool) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", fmt.Errorf("section edit requires a header")
	}

	headingRE := regexp.MustCompile(`(?im)^(#+)\s*` + regexp.QuoteMeta(strings.TrimSpace(header)) + `\s*$`)
	loc := headingRE.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", fmt.Errorf("section %q not found", header)
	}

	depth := loc[3] - loc[2]
	bodyStart := loc[1]
	bodyEnd := len(content)

	nextHeading := regexp.MustCompile(`(?m)^(#+)\s`)
	for _, m := range nextHeading.FindAllStringSubmatchIndex(content[bodyStart:], -1) {
		if m[3]-m[2] <= depth {
			bodyEnd = bodyStart + m[0]
			break
		}
	}

	var body string
	if replace {
		body = "\n" + insert + "\n"
	} else {
		body = strings.TrimRight(content[bodyStart:bodyEnd], "\n") + "\n" + insert + "\n"
	}

	out := content[:bodyStart] + body + content[bodyEnd:]
	return excessBlankLines.ReplaceAllString(out, "\n\n"), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
