package main

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// input reads lines and passwords from one stdin. Both go through the same
// scanner so a password prompt inside the shell does not lose buffered lines.
type input struct {
	r       io.Reader
	scanner *bufio.Scanner
}

func newInput(r io.Reader) *input {
	return &input{r: r, scanner: bufio.NewScanner(r)}
}

// readLine returns the next line without its newline, or io.EOF.
func (in *input) readLine() (string, error) {
	if in.scanner.Scan() {
		return in.scanner.Text(), nil
	}
	if err := in.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// readPassword reads a password without echo when stdin is a terminal.
func (in *input) readPassword() (string, error) {
	if f, ok := in.r.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal (e.g. tests, pipes)
	return in.readLine()
}
