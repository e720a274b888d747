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
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Lock(ctx context.Context) error

	List(ctx context.Context) error
	Show(ctx context.Context) error
	AddLogin(ctx context.Context) error
	AddNote(ctx context.Context) error
	AddAddress(ctx context.Context) error
	AddCard(ctx context.Context) error
	Delete(ctx context.Context) error
	Search(ctx context.Context) error
	Generate(ctx context.Context) error
	Sync(ctx context.Context) error

	Share(ctx context.Context) error
	ShareKey(ctx context.Context) error
	Incoming(ctx context.Context) error
	Outgoing(ctx context.Context) error
	Accept(ctx context.Context) error
	Reject(ctx context.Context) error

	Notifications(ctx context.Context) error
	Read(ctx context.Context) error
	ClearNotifications(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: login, generate, exit"
	helpSignedIn  = "Available commands: (l)ist, show, addlogin, addnote, addaddress, addcard, delete, search, generate, sync,\n" +
		"  share, sharekey, incoming, outgoing, accept, reject, notifications, read, clearnotifications, lock, logout, exit"
)

// runREPL reads commands from r and dispatches them to a until EOF, "exit"
// or "quit". Command prompts read from the same reader, so the loop only
// consumes the command line itself.
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("cp %s> ", statusFn()))

		line, err := r.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login", "unlock":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "lock":
			_ = a.Lock(ctx)

		case "l", "list":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx)
		case "addlogin":
			_ = a.AddLogin(ctx)
		case "addnote":
			_ = a.AddNote(ctx)
		case "addaddress":
			_ = a.AddAddress(ctx)
		case "addcard":
			_ = a.AddCard(ctx)
		case "delete":
			_ = a.Delete(ctx)
		case "search":
			_ = a.Search(ctx)
		case "generate":
			_ = a.Generate(ctx)
		case "sync":
			_ = a.Sync(ctx)

		case "share":
			_ = a.Share(ctx)
		case "sharekey":
			_ = a.ShareKey(ctx)
		case "incoming":
			_ = a.Incoming(ctx)
		case "outgoing":
			_ = a.Outgoing(ctx)
		case "accept":
			_ = a.Accept(ctx)
		case "reject":
			_ = a.Reject(ctx)

		case "notifications", "n":
			_ = a.Notifications(ctx)
		case "read":
			_ = a.Read(ctx)
		case "clearnotifications":
			_ = a.ClearNotifications(ctx)

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
