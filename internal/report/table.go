// Package report loads a user's expenses and derives the chart aggregates:
// daily, per-category and monthly totals and the five largest expenses.
//
// Aggregations are pure functions of a Table. Given the same rows they always
// return the same series, and an empty table yields empty series.
package report

import (
	"fmt"
	"time"

	"expense-manager/internal/models"
	"expense-manager/internal/session"
)

// Row is the part of an expense the aggregations look at.
type Row struct {
	Time     time.Time
	Amount   float64
	Category string
}

// Table holds a user's rows in insertion order.
type Table struct {
	rows []Row
}

// NewTable builds a table from rows. The slice is copied.
func NewTable(rows []Row) Table {
	return Table{rows: append([]Row(nil), rows...)}
}

// Empty reports whether the table has no rows. An empty table means
// "nothing to render", not an error.
func (t Table) Empty() bool {
	return len(t.rows) == 0
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows.
func (t Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Source provides every expense of a user.
type Source interface {
	AllExpenses(userID int64) ([]models.Expense, error)
}

// LoadAll reads every expense of the session's user into a Table.
func LoadAll(src Source, sess session.Session) (Table, error) {
	if !sess.Valid() {
		return Table{}, session.ErrNotLoggedIn
	}
	expenses, err := src.AllExpenses(sess.UserID)
	if err != nil {
		return Table{}, fmt.Errorf("load expenses: %w", err)
	}

	rows := make([]Row, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, Row{Time: e.Time, Amount: e.Amount, Category: e.Category})
	}
	return Table{rows: rows}, nil
}
