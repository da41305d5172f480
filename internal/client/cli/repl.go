package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Check(ctx context.Context) error
	Jobs(ctx context.Context, search string) error
	Job(ctx context.Context, id string) error
	Apply(ctx context.Context, jobID string) error
	MyApplications(ctx context.Context) error
	Upload(ctx context.Context, path string) error
}

// runREPL reads one command per line from r and dispatches it to a. The
// first word is the command, the rest its argument. The loop ends on EOF,
// "exit" or "quit".
//
//	Always available:
//	  help, register, login, check, jobs [search], job <id>, exit | quit
//
//	Signed in:
//	  logout, whoami, apply <id>, myapps, upload <path>
//
// Handlers report their own failures, so returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("jb> %s > ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)
		if cmd == "" {
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: jobs [search], job <id>, apply <id>, myapps, upload <path>, whoami, check, logout, exit")
			} else {
				printlnFn("Available commands: register, login, jobs [search], job <id>, check, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "check":
			_ = a.Check(ctx)

		case "jobs":
			_ = a.Jobs(ctx, arg)

		case "job":
			if arg == "" {
				printlnFn("Usage: job <id>")
				continue
			}
			_ = a.Job(ctx, arg)

		case "apply":
			if arg == "" {
				printlnFn("Usage: apply <id>")
				continue
			}
			_ = a.Apply(ctx, arg)

		case "myapps":
			_ = a.MyApplications(ctx)

		case "upload":
			if arg == "" {
				printlnFn("Usage: upload <path>")
				continue
			}
			_ = a.Upload(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
