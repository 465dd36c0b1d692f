package protocol

import (
	"strings"
	"testing"
)

func TestParsePlainText(t *testing.T) {
	raw := "I think we should list the tradeoffs before deciding."

	got := Parse(raw)

	if got.SpokenText != raw {
		t.Errorf("SpokenText = %q, want %q", got.SpokenText, raw)
	}
	if got.Update != nil {
		t.Errorf("Update = %+v, want nil", got.Update)
	}
	if got.DiscussionComplete {
		t.Error("DiscussionComplete = true, want false")
	}
}

func TestParseFencedBlock(t *testing.T) {
	raw := "Let me reorganize our notes.\n\n```json\n{\n  \"notepad_modifications\": [\n    {\"action\": \"append\", \"content\": \"- new idea\"}\n  ],\n  \"discussion_complete\": true\n}\n```"

	got := Parse(raw)

	if got.SpokenText != "Let me reorganize our notes." {
		t.Errorf("SpokenText = %q", got.SpokenText)
	}
	if got.Update == nil {
		t.Fatal("Update = nil, want actions")
	}
	if len(got.Update.Actions) != 1 {
		t.Fatalf("len(Actions) = %d, want 1", len(got.Update.Actions))
	}
	if a := got.Update.Actions[0]; a.Kind != ActionAppend || a.Content != "- new idea" {
		t.Errorf("Actions[0] = %+v", a)
	}
	if !got.DiscussionComplete {
		t.Error("DiscussionComplete = false, want true")
	}
}

func TestParseLastFencedBlockWins(t *testing.T) {
	raw := "Here is an example:\n```json\n{\"notepad_modifications\": [{\"action\": \"append\", \"content\": \"example\"}]}\n```\nBut what I actually want is:\n```json\n{\"notepad_modifications\": [{\"action\": \"prepend\", \"content\": \"real\"}]}\n```"

	got := Parse(raw)

	if got.Update == nil || len(got.Update.Actions) != 1 {
		t.Fatalf("Update = %+v, want one action", got.Update)
	}
	if a := got.Update.Actions[0]; a.Kind != ActionPrepend || a.Content != "real" {
		t.Errorf("Actions[0] = %+v, want the final block's action", a)
	}
	if !strings.Contains(got.SpokenText, "example") {
		t.Errorf("SpokenText = %q, want earlier block kept as prose", got.SpokenText)
	}
}

func TestParseBareObjectFallback(t *testing.T) {
	raw := "Done with my pass.\n{\"notepad_modifications\": [{\"action\": \"replace_all\", \"content\": \"# Fresh\"}], \"discussion_complete\": false}"

	got := Parse(raw)

	if got.SpokenText != "Done with my pass." {
		t.Errorf("SpokenText = %q", got.SpokenText)
	}
	if got.Update == nil || len(got.Update.Actions) != 1 {
		t.Fatalf("Update = %+v, want one action", got.Update)
	}
	if got.Update.Actions[0].Kind != ActionReplaceAll {
		t.Errorf("Kind = %q, want %q", got.Update.Actions[0].Kind, ActionReplaceAll)
	}
}

func TestParseBracesInProseIgnored(t *testing.T) {
	raw := "In Go, struct{} is the empty struct and map[string]int{} is an empty map."

	got := Parse(raw)

	if got.SpokenText != raw {
		t.Errorf("SpokenText = %q, want prose untouched", got.SpokenText)
	}
	if got.Update != nil {
		t.Errorf("Update = %+v, want nil", got.Update)
	}
}

func TestParseMalformedBlockSurfacesError(t *testing.T) {
	raw := "My thoughts so far.\n```json\n{\"notepad_modifications\": [{\"action\": \"append\",]}\n```"

	got := Parse(raw)

	if got.SpokenText != raw {
		t.Errorf("SpokenText = %q, want original text preserved", got.SpokenText)
	}
	if got.Update == nil || got.Update.Err == "" {
		t.Fatalf("Update = %+v, want a parse error", got.Update)
	}
	if len(got.Update.Actions) != 0 {
		t.Errorf("len(Actions) = %d, want 0", len(got.Update.Actions))
	}
}

func TestParseSilentPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "actions only",
			raw:  "```json\n{\"notepad_modifications\": [{\"action\": \"append\", \"content\": \"a\"}, {\"action\": \"append\", \"content\": \"b\"}]}\n```",
			want: "(AI updated the notepad (2 actions))",
		},
		{
			name: "actions and completion",
			raw:  "```json\n{\"notepad_modifications\": [{\"action\": \"append\", \"content\": \"a\"}], \"discussion_complete\": true}\n```",
			want: "(AI updated the notepad (1 actions) and suggested ending the discussion)",
		},
		{
			name: "completion only",
			raw:  "```json\n{\"discussion_complete\": true}\n```",
			want: "(AI suggested ending the discussion)",
		},
		{
			name: "empty reply",
			raw:  "",
			want: "(AI provided no additional reply text)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if got.SpokenText != tt.want {
				t.Errorf("SpokenText = %q, want %q", got.SpokenText, tt.want)
			}
		})
	}
}

func TestParseLenientFieldTypes(t *testing.T) {
	// Wrong types for known fields are ignored instead of failing the
	// whole block.
	raw := "Okay.\n```json\n{\"notepad_modifications\": \"oops\", \"discussion_complete\": true}\n```"

	got := Parse(raw)

	if got.SpokenText != "Okay." {
		t.Errorf("SpokenText = %q", got.SpokenText)
	}
	if got.Update != nil {
		t.Errorf("Update = %+v, want nil", got.Update)
	}
	if !got.DiscussionComplete {
		t.Error("DiscussionComplete = false, want true")
	}
}
