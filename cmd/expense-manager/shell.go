package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"expense-manager/internal/ledger"
	"expense-manager/internal/session"

	"github.com/sirupsen/logrus"
)

const shellHelp = `Commands:
  signup <username>                      register and log in
  login <username>                       log in (replaces the current user)
  logout                                 forget the current user
  whoami                                 show the current user
  add <amount> <category> [description]  record an expense now
  list [n]                               show the n most recent expenses (default 50)
  report                                 show the aggregates
  charts [dir]                           render PNG charts (default ./charts)
  export [file]                          write an Excel workbook (default ./expenses.xlsx)
  categories                             show suggested categories
  help                                   show this help
  quit                                   leave the shell
`

var errQuit = errors.New("quit")

// shell is an interactive session holding at most one signed-in user.
type shell struct {
	app    *app
	in     *input
	out    io.Writer
	holder session.Holder
}

func runShell(args []string, in *input, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, err := openApp(common, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sh := &shell{app: a, in: in, out: stdout}
	fmt.Fprintf(stdout, "Expense manager (%s). Type \"help\" for commands.\n", a.db.Path())
	return sh.loop()
}

func (sh *shell) prompt() string {
	if s, ok := sh.holder.Current(); ok {
		return s.Username + "> "
	}
	return "> "
}

func (sh *shell) loop() error {
	for {
		fmt.Fprint(sh.out, sh.prompt())
		line, err := sh.in.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(sh.out)
			return nil
		}
		if err != nil {
			return err
		}

		if err := sh.dispatch(strings.Fields(line)); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(sh.out, "Error: %s\n", operatorMessage(err))
		}
	}
}

// dispatch runs one command. A panic is reported like any other failure so
// one bad command never ends the session.
func (sh *shell) dispatch(fields []string) (err error) {
	if len(fields) == 0 {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("command", fields[0]).Errorf("panic: %v", r)
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
		return nil
	case "categories":
		fmt.Fprintln(sh.out, strings.Join(ledger.SuggestedCategories, ", "))
		return nil
	case "signup", "login":
		if len(args) != 1 {
			return usageErrorf("usage: %s <username>", cmd)
		}
		return sh.authenticate(cmd, args[0])
	case "logout":
		sh.holder.Clear()
		fmt.Fprintln(sh.out, "Logged out.")
		return nil
	}

	sess, ok := sh.holder.Current()
	if !ok {
		if cmd == "whoami" || cmd == "add" || cmd == "list" || cmd == "report" || cmd == "charts" || cmd == "export" {
			return session.ErrNotLoggedIn
		}
		return usageErrorf("unknown command %q, type \"help\"", cmd)
	}

	switch cmd {
	case "whoami":
		fmt.Fprintf(sh.out, "%s (id %d)\n", sess.Username, sess.UserID)
		return nil
	case "add":
		if len(args) < 2 {
			return usageErrorf("usage: add <amount> <category> [description]")
		}
		e, err := sh.app.ledger.AddExpense(sess, ledger.Input{
			Amount:      args[0],
			Category:    args[1],
			Description: strings.Join(args[2:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "Expense added: %.2f %s\n", e.Amount, e.Category)
		return nil
	case "list":
		limit := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return usageErrorf("usage: list [n], n must be a positive number")
			}
			limit = n
		}
		return sh.app.printRecent(sess, limit, sh.out)
	case "report":
		return sh.app.printReport(sess, sh.out)
	case "charts":
		dir := "charts"
		if len(args) > 0 {
			dir = args[0]
		}
		return sh.app.writeCharts(sess, dir, sh.out)
	case "export":
		path := "expenses.xlsx"
		if len(args) > 0 {
			path = args[0]
		}
		return sh.app.writeExport(sess, path, sh.out)
	}
	return usageErrorf("unknown command %q, type \"help\"", cmd)
}

func (sh *shell) authenticate(cmd, username string) error {
	var (
		sess session.Session
		err  error
	)
	if cmd == "signup" {
		sess, err = sh.app.signUp(username, "", sh.in, sh.out)
	} else {
		sess, err = sh.app.signIn(username, "", sh.in, sh.out)
	}
	if err != nil {
		// A failed attempt leaves the current session untouched.
		return err
	}

	sh.holder.Set(sess)
	fmt.Fprintf(sh.out, "Welcome, %s!\n", sess.Username)
	return nil
}
