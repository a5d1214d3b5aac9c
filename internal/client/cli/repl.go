package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Refresh(ctx context.Context) error
	Releases(ctx context.Context) error
	Featured(ctx context.Context) error
	Profile(ctx context.Context) error
	Passwd(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Uncovr CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help            — show available commands
//	  - register        — create an account
//	  - login           — authenticate
//	  - releases        — list the latest releases
//	  - featured        — list featured releases
//	  - exit | quit     — leave the program
//
//	Logged in additionally:
//	  - whoami          — show the signed-in user
//	  - refresh         — re-fetch the signed-in user
//	  - profile         — update the profile name
//	  - passwd          — change the password
//	  - logout          — sign out
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		fmt.Printf("uncovr %s> ", statusFn())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, refresh, releases, featured, profile, passwd, logout, exit")
			} else {
				printlnFn("Available commands: register, login, releases, featured, exit")
			}
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			_ = a.Whoami(ctx)
		case "refresh":
			_ = a.Refresh(ctx)
		case "releases":
			_ = a.Releases(ctx)
		case "featured":
			_ = a.Featured(ctx)
		case "profile":
			_ = a.Profile(ctx)
		case "passwd":
			_ = a.Passwd(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
