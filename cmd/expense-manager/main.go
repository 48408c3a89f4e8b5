package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

const usage = `Usage: expense-manager <command> [flags]

Commands:
  init      create the database if it does not exist
  signup    register a new user
  add       record an expense
  list      show the most recent expenses
  report    show daily, category, monthly and top-5 totals
  charts    render the report as PNG charts
  export    write all expenses to an Excel workbook
  shell     interactive session

Run "expense-manager <command> -h" for the flags of a command.
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", operatorMessage(err))
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return usageErrorf("missing command")
	}

	in := newInput(stdin)
	cmd, rest := args[0], args[1:]
	switch strings.ToLower(cmd) {
	case "init":
		return runInit(rest, stdout, stderr)
	case "signup":
		return runSignup(rest, in, stdout, stderr)
	case "add":
		return runAdd(rest, in, stdout, stderr)
	case "list":
		return runList(rest, in, stdout, stderr)
	case "report":
		return runReport(rest, in, stdout, stderr)
	case "charts":
		return runCharts(rest, in, stdout, stderr)
	case "export":
		return runExport(rest, in, stdout, stderr)
	case "shell":
		return runShell(rest, in, stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}

	fmt.Fprint(stdout, usage)
	return usageErrorf("unknown command %q", cmd)
}
