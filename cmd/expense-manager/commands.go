package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"expense-manager/internal/charts"
	"expense-manager/internal/export"
	"expense-manager/internal/ledger"
	"expense-manager/internal/report"
	"expense-manager/internal/session"
)

// timeLayouts are accepted by -time, in order.
var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ledger.ValidationError{Field: "time", Err: fmt.Errorf("expected YYYY-MM-DD [HH:MM[:SS]], got %q", s)}
}

func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
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

	fmt.Fprintf(stdout, "Database ready at %s\n", a.db.Path())
	return nil
}

func runSignup(args []string, in *input, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	creds := addCredentialFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *creds.user == "" {
		fmt.Fprintln(stdout, "Usage: expense-manager signup -user <username> [-password <password>] [-db <db_path>]")
		fs.PrintDefaults()
		return usageErrorf("missing required flags: user")
	}

	a, err := openApp(common, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.signUp(*creds.user, *creds.password, in, stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", sess.Username, sess.UserID)
	return nil
}

func runAdd(args []string, in *input, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	creds := addCredentialFlags(fs)
	amount := fs.String("amount", "", "Amount spent")
	category := fs.String("category", "", "Category, e.g. Food, Transport, Shopping, Entertainment, Utilities, Other")
	desc := fs.String("desc", "", "Description (optional)")
	when := fs.String("time", "", "Time of the expense, YYYY-MM-DD [HH:MM[:SS]] (default: now)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var t time.Time
	if *when != "" {
		var err error
		if t, err = parseTime(*when); err != nil {
			return err
		}
	}

	a, err := openApp(common, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.signIn(*creds.user, *creds.password, in, stdout)
	if err != nil {
		return err
	}

	e, err := a.ledger.AddExpense(sess, ledger.Input{Time: t, Amount: *amount, Category: *category, Description: *desc})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Expense added: %.2f %s on %s\n", e.Amount, e.Category, e.Time.Format(displayTime))
	return nil
}

func runList(args []string, in *input, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	creds := addCredentialFlags(fs)
	limit := fs.Int("limit", 0, "Number of expenses to show (default from config, 50)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, err := openApp(common, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.signIn(*creds.user, *creds.password, in, stdout)
	if err != nil {
		return err
	}
	return a.printRecent(sess, *limit, stdout)
}

func (a *app) printRecent(sess session.Session, limit int, stdout io.Writer) error {
	if limit <= 0 {
		limit = a.cfg.ListLimit
	}
	expenses, err := a.ledger.ListRecent(sess, limit)
	if err != nil {
		return err
	}
	printExpenses(stdout, expenses)
	return nil
}

func runReport(args []string, in *input, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	creds := addCredentialFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, err := openApp(common, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.signIn(*creds.user, *creds.password, in, stdout)
	if err != nil {
		return err
	}
	return a.printReport(sess, stdout)
}

func (a *app) summary(sess session.Session) (report.Summary, error) {
	table, err := report.LoadAll(a.db, sess)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(table), nil
}

func (a *app) printReport(sess session.Session, stdout io.Writer) error {
	sum, err := a.summary(sess)
	if err != nil {
		return err
	}
	printSummary(stdout, sum)
	return nil
}

func runCharts(args []string, in *input, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("charts", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	creds := addCredentialFlags(fs)
	out := fs.String("out", "charts", "Directory for the PNG files")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, err := openApp(common, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.signIn(*creds.user, *creds.password, in, stdout)
	if err != nil {
		return err
	}
	return a.writeCharts(sess, *out, stdout)
}

func (a *app) writeCharts(sess session.Session, dir string, stdout io.Writer) error {
	sum, err := a.summary(sess)
	if err != nil {
		return err
	}
	if sum.Count == 0 {
		fmt.Fprintln(stdout, "No expenses recorded yet, nothing to chart.")
		return nil
	}

	paths, err := charts.NewRenderer().RenderAll(dir, sum)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(stdout, "Wrote %s\n", p)
	}
	return nil
}

func runExport(args []string, in *input, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	common := addCommonFlags(fs)
	creds := addCredentialFlags(fs)
	out := fs.String("out", "expenses.xlsx", "Workbook to write")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	a, err := openApp(common, stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	sess, err := a.signIn(*creds.user, *creds.password, in, stdout)
	if err != nil {
		return err
	}
	return a.writeExport(sess, *out, stdout)
}

func (a *app) writeExport(sess session.Session, path string, stdout io.Writer) (err error) {
	if !sess.Valid() {
		return session.ErrNotLoggedIn
	}
	expenses, err := a.db.AllExpenses(sess.UserID)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	// The workbook only appears at path once it has been written completely.
	f, err := os.CreateTemp(dir, ".export-*.xlsx")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err := export.WriteXLSX(f, sess.Username, expenses); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %d expenses to %s\n", len(expenses), path)
	return nil
}
