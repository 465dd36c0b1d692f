// Package protocol implements the structured response contract between
// the duet engine and the models.
//
// Every model reply is expected to end with a fenced ```json block:
//
//	```json
//	{
//	  "notepad_modifications": [ { "action": "append", "content": "..." } ],
//	  "discussion_complete": false
//	}
//	```
//
// Parse splits a raw reply into the spoken text, the batch of notepad
// actions, and the discussion-complete signal. Malformed control blocks are
// never fatal: the spoken text is still delivered and the failure is
// reported through Update.Err so the caller can surface a diagnostic.
package protocol
