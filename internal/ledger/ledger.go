// Package ledger records expenses for a signed-in user and lists them back.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"expense-manager/internal/models"
	"expense-manager/internal/session"
	"expense-manager/internal/storage"

	"github.com/sirupsen/logrus"
)

// SuggestedCategories are offered to the operator; any non-empty category is accepted.
var SuggestedCategories = []string{"Food", "Transport", "Shopping", "Entertainment", "Utilities", "Other"}

var (
	ErrInvalidAmount = errors.New("amount must be a number")
	ErrEmptyCategory = errors.New("category is required")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Store is the persistence the ledger needs.
type Store interface {
	CreateExpense(e models.Expense) error
	ListExpenses(userID int64, limit int) ([]models.Expense, error)
}

// Input is an expense as entered by the operator.
type Input struct {
	Time        time.Time
	Amount      string
	Category    string
	Description string
}

// Ledger validates and records expenses.
type Ledger struct {
	store Store
	now   func() time.Time
	log   *logrus.Entry
}

// New returns a Ledger backed by store.
func New(store Store) *Ledger {
	return &Ledger{
		store: store,
		now:   time.Now,
		log:   logrus.WithField("component", "ledger"),
	}
}

// ParseAmount parses an amount as entered by the operator. A comma is
// accepted as decimal separator.
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	return v, nil
}

// AddExpense validates in and inserts it for the session's user. Nothing is
// written when validation fails.
func (l *Ledger) AddExpense(sess session.Session, in Input) (models.Expense, error) {
	if !sess.Valid() {
		return models.Expense{}, session.ErrNotLoggedIn
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return models.Expense{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return models.Expense{}, &ValidationError{Field: "category", Err: ErrEmptyCategory}
	}

	t := in.Time
	if t.IsZero() {
		t = l.now()
	}

	e := models.Expense{
		UserID:      sess.UserID,
		Time:        t.Truncate(time.Second),
		Amount:      amount,
		Category:    category,
		Description: strings.TrimSpace(in.Description),
	}
	if err := l.store.CreateExpense(e); err != nil {
		return models.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"user_id":  e.UserID,
		"amount":   e.Amount,
		"category": e.Category,
	}).Debug("expense recorded")
	return e, nil
}

// ListRecent returns up to limit of the user's expenses, newest first.
// A non-positive limit means storage.DefaultLimit.
func (l *Ledger) ListRecent(sess session.Session, limit int) ([]models.Expense, error) {
	if !sess.Valid() {
		return nil, session.ErrNotLoggedIn
	}
	if limit <= 0 {
		limit = storage.DefaultLimit
	}
	expenses, err := l.store.ListExpenses(sess.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}
