// Package chat defines the conversation data model shared by the duet
// engine: message records, the two agent identities, and the append-only
// transcript log.
//
// The orchestration engine never talks to a UI directly. It depends on two
// narrow interfaces defined here:
//
//   - Recorder appends durable transcript messages.
//   - Notifier emits system diagnostics (status lines, retry notices,
//     absorbed errors).
//
// A single concrete Log satisfies both, but keeping the capabilities
// separate lets tests assert on each stream independently and keeps the
// engine honest about which messages are part of the conversation and
// which are commentary about it.
//
// # Immutability
//
// Messages are never mutated after being recorded, with one deliberate
// exception: Log.PatchWelcome rewords the welcome banner in place when
// settings change, so a stale banner never advertises the wrong model or
// discussion mode.
package chat
