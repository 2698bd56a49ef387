package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Link(ctx context.Context, args []string) error
	Whoami(ctx context.Context, args []string) error
	Refresh(ctx context.Context, args []string) error
	Feed(ctx context.Context, args []string) error
	Jobs(ctx context.Context, args []string) error
	Swipe(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Bookmarks(ctx context.Context, args []string) error
	Unbookmark(ctx context.Context, args []string) error
	Applied(ctx context.Context, args []string) error
	Withdraw(ctx context.Context, args []string) error
	Dashboard(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the jobswipe CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF,
// when ctx is canceled, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                       — show available commands
//	  - login <provider> [code]    — sign in with google, github or linkedin
//	  - feed                       — tech news (needs a completed profile)
//	  - exit | quit                — leave the program
//
//	Logged in:
//	  - whoami | refresh           — show or re-sync the profile
//	  - link <provider> [code]     — attach another provider
//	  - jobs                       — show the swipe queue
//	  - swipe <left|right> [id]    — decide on the current (or given) job
//	  - left | right               — shorthands for swipe
//	  - save [id] [notes...]       — bookmark the current (or given) job
//	  - bookmarks | unbookmark <job-id>
//	  - applied [status] | withdraw <id>
//	  - dashboard                  — application statistics
//	  - logout
//
// Errors returned by command handlers are ignored here; handlers report
// their own failures. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("js> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, refresh, link, jobs, swipe, left, right, save, bookmarks, unbookmark, applied, withdraw, dashboard, feed, logout, exit")
			} else {
				printlnFn("Available commands: login <google|github|linkedin> [code], exit")
			}

		case "login":
			_ = a.Login(ctx, args)

		case "link":
			_ = a.Link(ctx, args)

		case "whoami":
			_ = a.Whoami(ctx, args)

		case "refresh", "onboarding":
			_ = a.Refresh(ctx, args)

		case "feed", "news":
			_ = a.Feed(ctx, args)

		case "jobs":
			_ = a.Jobs(ctx, args)

		case "swipe":
			_ = a.Swipe(ctx, args)

		case "left", "right":
			_ = a.Swipe(ctx, append([]string{cmd}, args...))

		case "save", "bookmark":
			_ = a.Save(ctx, args)

		case "bookmarks":
			_ = a.Bookmarks(ctx, args)

		case "unbookmark":
			_ = a.Unbookmark(ctx, args)

		case "applied":
			_ = a.Applied(ctx, args)

		case "withdraw":
			_ = a.Withdraw(ctx, args)

		case "dashboard":
			_ = a.Dashboard(ctx, args)

		case "logout":
			_ = a.Logout(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
