package models

import "time"

// Expense represents a single recorded expense owned by a user.
type Expense struct {
	UserID      int64     `json:"user_id"`
	Time        time.Time `json:"time"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
}

// User represents a local account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	PassHash string `json:"-"`
}
