package main

import (
	"errors"
	"fmt"

	"expense-manager/internal/auth"
	"expense-manager/internal/ledger"
	"expense-manager/internal/session"
	"expense-manager/internal/storage"

	"github.com/sirupsen/logrus"
)

// usageError is a mistake in how a command was invoked.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// operatorMessage turns an error into the text shown to the operator.
// Unknown user and wrong password share one message so the text does not
// reveal which usernames exist.
func operatorMessage(err error) string {
	var (
		verr  *ledger.ValidationError
		usage *usageError
	)
	switch {
	case errors.Is(err, storage.ErrUnavailable):
		return fmt.Sprintf("Database not initialized: %v", err)
	case errors.Is(err, auth.ErrUsernameTaken):
		return "That username is already taken. Please pick a different username."
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrCredentialMismatch):
		return "Invalid username or password. Please try again."
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Username and password are required."
	case errors.Is(err, session.ErrNotLoggedIn):
		return "Please log in first."
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %v.", verr.Field, verr.Err)
	case errors.As(err, &usage):
		return usage.msg
	}

	logrus.WithError(err).Error("unexpected failure")
	return fmt.Sprintf("An unexpected error occurred: %v", err)
}
