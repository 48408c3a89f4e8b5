package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShellScript(t *testing.T, dbPath string, lines ...string) string {
	t.Helper()
	out, err := execute(t, strings.Join(lines, "\n")+"\n", "shell", "-db", dbPath)
	require.NoError(t, err)
	return out
}

func TestShell_Session(t *testing.T) {
	dbPath := filepath.Join(isolate(t), "shell.db")

	out := runShellScript(t, dbPath,
		"list",
		"signup alice", "pw1",
		"whoami",
		"add 42.50 Food Dinner out",
		"add abc Food",
		"list 1",
		"quit",
		"whoami",
	)

	assert.Contains(t, out, "Please log in first.")
	assert.Contains(t, out, "Welcome, alice!")
	assert.Contains(t, out, "alice (id 1)")
	assert.Contains(t, out, "Expense added: 42.50 Food")
	assert.Contains(t, out, "Invalid amount")
	assert.Contains(t, out, "Dinner out")
	// Nothing after quit runs
	assert.Equal(t, 1, strings.Count(out, "(id 1)"))
}

func TestShell_FailedLoginKeepsSession(t *testing.T) {
	dbPath := filepath.Join(isolate(t), "shell.db")

	out := runShellScript(t, dbPath,
		"signup alice", "pw1",
		"signup alice", "pw2",
		"signup bob", "pw3",
		"login alice", "wrong",
		"whoami",
		"login alice", "pw1",
		"whoami",
		"logout",
		"report",
	)

	assert.Contains(t, out, "pick a different username")
	assert.Contains(t, out, "Invalid username or password")
	// After the failed login bob is still the current user
	assert.Contains(t, out, "bob (id 2)")
	assert.Contains(t, out, "alice (id 1)")
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "Please log in first.")
}

func TestShell_ReportEmptyAndUnknownCommand(t *testing.T) {
	dbPath := filepath.Join(isolate(t), "shell.db")

	out := runShellScript(t, dbPath,
		"signup alice", "pw1",
		"report",
		"dance",
		"list zero",
		"categories",
	)

	assert.Contains(t, out, "nothing to report")
	assert.Contains(t, out, `unknown command "dance"`)
	assert.Contains(t, out, "n must be a positive number")
	assert.Contains(t, out, "Food, Transport, Shopping, Entertainment, Utilities, Other")
}

func TestShell_EOFEndsSession(t *testing.T) {
	dbPath := filepath.Join(isolate(t), "shell.db")
	out, err := execute(t, "", "shell", "-db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Type \"help\"")
}
