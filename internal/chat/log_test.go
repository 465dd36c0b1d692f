package chat

import (
	"testing"
	"time"
)

func TestNewMessage(t *testing.T) {
	before := time.Now()
	m := NewMessage("hello", SenderUser, PurposeUserInput)

	if m.ID == "" {
		t.Error("ID should not be empty")
	}
	if m.Text != "hello" {
		t.Errorf("Text = %q, want %q", m.Text, "hello")
	}
	if m.Sender != SenderUser {
		t.Errorf("Sender = %q, want %q", m.Sender, SenderUser)
	}
	if m.Purpose != PurposeUserInput {
		t.Errorf("Purpose = %q, want %q", m.Purpose, PurposeUserInput)
	}
	if m.Timestamp.Before(before) {
		t.Error("Timestamp should not predate creation")
	}
}

func TestMessageWith(t *testing.T) {
	m := NewMessage("x", SenderCognito, PurposeCognitoToMuse)
	m2 := m.WithDuration(1500 * time.Millisecond).WithThoughts("reasoning")

	if m2.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", m2.DurationMs)
	}
	if m2.Thoughts != "reasoning" {
		t.Errorf("Thoughts = %q, want %q", m2.Thoughts, "reasoning")
	}
	// Original is unchanged.
	if m.DurationMs != 0 || m.Thoughts != "" {
		t.Error("WithDuration/WithThoughts must not mutate the receiver")
	}
}

func TestLogRecordOrder(t *testing.T) {
	l := NewLog()
	l.Record(NewMessage("one", SenderUser, PurposeUserInput))
	l.Notify("two")
	l.Record(NewMessage("three", SenderMuse, PurposeMuseToCognito))

	msgs := l.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Len = %d, want 3", len(msgs))
	}
	if msgs[0].Text != "one" || msgs[1].Text != "two" || msgs[2].Text != "three" {
		t.Errorf("messages out of order: %q %q %q", msgs[0].Text, msgs[1].Text, msgs[2].Text)
	}
	if msgs[1].Sender != SenderSystem || msgs[1].Purpose != PurposeSystemNotification {
		t.Errorf("Notify should record a system notification, got %q/%q", msgs[1].Sender, msgs[1].Purpose)
	}
}

func TestLogMessagesReturnsCopy(t *testing.T) {
	l := NewLog()
	l.Notify("a")

	msgs := l.Messages()
	msgs[0].Text = "mutated"

	if got := l.Messages()[0].Text; got != "a" {
		t.Errorf("transcript mutated through returned slice: %q", got)
	}
}

func TestLogPatchWelcome(t *testing.T) {
	l := NewLog()
	l.Welcome("Welcome! Mode: fixed")
	l.Notify("other")
	l.PatchWelcome("Welcome! Mode: ai-driven")

	msgs := l.Messages()
	if msgs[0].Text != "Welcome! Mode: ai-driven" {
		t.Errorf("welcome text = %q, want patched wording", msgs[0].Text)
	}
	if msgs[1].Text != "other" {
		t.Errorf("unrelated message touched: %q", msgs[1].Text)
	}
}

func TestLogPatchWelcomeWithoutBanner(t *testing.T) {
	l := NewLog()
	l.Notify("no banner here")
	l.PatchWelcome("ignored")

	if got := l.Messages()[0].Text; got != "no banner here" {
		t.Errorf("PatchWelcome without a banner mutated %q", got)
	}
}

func TestLogFromMessages(t *testing.T) {
	seed := []Message{
		NewMessage("restored", SenderUser, PurposeUserInput),
	}
	l := NewLogFromMessages(seed)
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}

	if l2 := NewLogFromMessages(nil); l2.Len() != 0 {
		t.Errorf("nil seed Len = %d, want 0", l2.Len())
	}
}

func TestLogOnChange(t *testing.T) {
	l := NewLog()
	var fired int
	l.OnChange(func() { fired++ })

	l.Notify("a")
	l.Welcome("b")
	l.PatchWelcome("c")

	if fired != 3 {
		t.Errorf("onChange fired %d times, want 3", fired)
	}
}
