// Package notepad maintains the shared Markdown document the two agents
// collaborate on. Apply is a pure function over document text; Engine
// layers history (undo/redo) and attribution on top of it.
package notepad
