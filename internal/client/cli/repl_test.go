package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Lock(ctx context.Context) error          { return f.record("lock") }
func (f *fakeExec) List(ctx context.Context) error          { return f.record("list") }
func (f *fakeExec) Show(ctx context.Context) error          { return f.record("show") }
func (f *fakeExec) AddLogin(ctx context.Context) error      { return f.record("addlogin") }
func (f *fakeExec) AddNote(ctx context.Context) error       { return f.record("addnote") }
func (f *fakeExec) AddAddress(ctx context.Context) error    { return f.record("addaddress") }
func (f *fakeExec) AddCard(ctx context.Context) error       { return f.record("addcard") }
func (f *fakeExec) Delete(ctx context.Context) error        { return f.record("delete") }
func (f *fakeExec) Search(ctx context.Context) error        { return f.record("search") }
func (f *fakeExec) Generate(ctx context.Context) error      { return f.record("generate") }
func (f *fakeExec) Sync(ctx context.Context) error          { return f.record("sync") }
func (f *fakeExec) Share(ctx context.Context) error         { return f.record("share") }
func (f *fakeExec) ShareKey(ctx context.Context) error      { return f.record("sharekey") }
func (f *fakeExec) Incoming(ctx context.Context) error      { return f.record("incoming") }
func (f *fakeExec) Outgoing(ctx context.Context) error      { return f.record("outgoing") }
func (f *fakeExec) Accept(ctx context.Context) error        { return f.record("accept") }
func (f *fakeExec) Reject(ctx context.Context) error        { return f.record("reject") }
func (f *fakeExec) Notifications(ctx context.Context) error { return f.record("notifications") }
func (f *fakeExec) Read(ctx context.Context) error          { return f.record("read") }
func (f *fakeExec) ClearNotifications(ctx context.Context) error {
	return f.record("clearnotifications")
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := capturePrint(t)

	input := bufio.NewReader(strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"l",
		"show",
		"addlogin",
		"addnote",
		"addaddress",
		"addcard",
		"delete",
		"search",
		"generate",
		"sync",
		"share",
		"sharekey",
		"incoming",
		"outgoing",
		"accept",
		"reject",
		"n",
		"read",
		"clearnotifications",
		"lock",
		"unlock",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n")))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(status)" }, input)

	want := []string{
		"login", "list", "show", "addlogin", "addnote", "addaddress", "addcard",
		"delete", "search", "generate", "sync", "share", "sharekey", "incoming",
		"outgoing", "accept", "reject", "notifications", "read", "clearnotifications",
		"lock", "login", "logout",
	}
	assert.Equal(t, want, exec.calls)

	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, helpSignedOut)
	assert.Contains(t, joined, helpSignedIn)
	assert.Contains(t, joined, "Unknown command:foobar")
	assert.Contains(t, joined, "cp (status)> ")
	assert.Contains(t, joined, "Bye!")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("sync")))
	assert.Equal(t, []string{"sync"}, exec.calls)
}

func TestRunREPL_StopsOnCancel(t *testing.T) {
	capturePrint(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewReader(strings.NewReader("sync\n")))
	assert.Empty(t, exec.calls)
}
