// Package cli provides the interactive front desk REPL.
//
// It wires the entry, outcome and reminder services behind a line-oriented
// prompt. Outcome popups become terminal prompts, and a background watcher
// prints upcoming-call reminders while the operator works.
//
// The REPL is started via App.Run(ctx), which blocks until the operator exits.
// See App, StartReminderWatcher, and runREPL for details.
package cli
