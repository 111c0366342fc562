package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

const helpText = `Available commands:
  list | l                      show the current page
  next | prev | page N          move between pages
  search [text]                 filter by name or email
  gender all|male|female|other  filter by gender
  status all|active|inactive    filter by status
  add                           add a user
  edit N|ID                     edit a user
  delete N|ID                   delete a user
  exit | quit                   leave`

// execIface is the command surface the REPL drives. Tests provide a stub.
type execIface interface {
	List()
	Next()
	Prev()
	GoTo(page int)
	Search(text string)
	FilterGender(value string) error
	FilterStatus(value string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
}

// runREPL reads commands until exit, end of input or ctx is done. Command
// errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, in *prompter) {
	for ctx.Err() == nil {
		line, err := in.GetSimpleText("userctl")
		if err != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help":
			in.say(helpText)

		case "l", "list":
			a.List()

		case "next":
			a.Next()

		case "prev":
			a.Prev()

		case "page":
			if len(args) != 1 {
				in.say("Usage: page N")
				continue
			}
			page, err := strconv.Atoi(args[0])
			if err != nil {
				in.say("Usage: page N")
				continue
			}
			a.GoTo(page)

		case "search":
			a.Search(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), parts[0])))

		case "gender":
			if len(args) != 1 {
				in.say("Usage: gender all|male|female|other")
				continue
			}
			report(in, a.FilterGender(args[0]))

		case "status":
			if len(args) != 1 {
				in.say("Usage: status all|active|inactive")
				continue
			}
			report(in, a.FilterStatus(args[0]))

		case "add":
			if err := a.Add(ctx); errors.Is(err, errAborted) {
				return
			}

		case "edit":
			if len(args) != 1 {
				in.say("Usage: edit N|ID")
				continue
			}
			err := a.Edit(ctx, args[0])
			if errors.Is(err, errAborted) {
				return
			}
			reportLocal(in, err)

		case "delete":
			if len(args) != 1 {
				in.say("Usage: delete N|ID")
				continue
			}
			err := a.Delete(ctx, args[0])
			if errors.Is(err, errAborted) {
				return
			}
			reportLocal(in, err)

		case "exit", "quit":
			in.say("Bye!")
			return

		default:
			in.say("Unknown command:", cmd)
		}
	}
}

func report(in *prompter, err error) {
	if err != nil {
		in.say(err)
	}
}

// reportLocal prints errors that produced no notification.
func reportLocal(in *prompter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, errBadRef) {
		in.say(err)
	}
}
