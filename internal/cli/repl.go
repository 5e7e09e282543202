package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Today(ctx context.Context) error
	Calls(ctx context.Context) error
	Tasks(ctx context.Context) error
	Outcome(ctx context.Context, id, target string) error
	Contacted(ctx context.Context, id string) error
	WhatsApp(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) error
	Reschedule(ctx context.Context, id string) error
	Add(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Dismiss(ctx context.Context) error
	AddPass(ctx context.Context) error
	Passes(ctx context.Context) error
	FollowUp(ctx context.Context, id string) error
}

const helpText = `Available commands:
  today                     list today's entries
  calls                     today's call queue
  tasks                     confirmations, calls, absentees and pass follow-ups
  outcome <id> <outcome>    set or clear presentato|venduto|negativo|assente|miss
  contacted <id>            toggle contattato on a call
  whatsapp <id>             print the confirmation link and mark it sent
  duplicate <id>            copy an entry to another slot
  reschedule <id>           reschedule an absentee or a miss
  add                       create an entry
  show <id>                 print an entry and its calendar events
  edit <id>                 edit an entry's slot, contact details, notes and comeback flag
  delete <id>               delete an entry and its calendar events
  dismiss                   close the upcoming-call reminder
  pass                      record a trial pass handed out today
  passes                    list passes waiting for a follow-up call
  followup <id>             mark a pass as followed up
  exit | quit               leave the program`

// runREPL starts the read–eval–print loop of the desk.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands taking an id report their usage when
// it is missing. The loop exits on EOF, on ctx cancellation, or when the user
// types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("desk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "today", "l":
			_ = a.Today(ctx)

		case "calls":
			_ = a.Calls(ctx)

		case "tasks":
			_ = a.Tasks(ctx)

		case "outcome", "o":
			if len(args) < 2 {
				printlnFn("Usage: outcome <id> <presentato|venduto|negativo|assente|miss>")
				continue
			}
			_ = a.Outcome(ctx, args[0], args[1])

		case "contacted", "whatsapp", "duplicate", "reschedule", "show", "edit", "delete", "followup":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			_ = dispatchByID(ctx, a, cmd, args[0])

		case "add":
			_ = a.Add(ctx)

		case "dismiss":
			_ = a.Dismiss(ctx)

		case "pass":
			_ = a.AddPass(ctx)

		case "passes":
			_ = a.Passes(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func dispatchByID(ctx context.Context, a execIface, cmd, id string) error {
	switch cmd {
	case "contacted":
		return a.Contacted(ctx, id)
	case "whatsapp":
		return a.WhatsApp(ctx, id)
	case "duplicate":
		return a.Duplicate(ctx, id)
	case "reschedule":
		return a.Reschedule(ctx, id)
	case "show":
		return a.Show(ctx, id)
	case "edit":
		return a.Edit(ctx, id)
	case "delete":
		return a.Delete(ctx, id)
	case "followup":
		return a.FollowUp(ctx, id)
	}
	return fmt.Errorf("unknown command %q", cmd)
}
