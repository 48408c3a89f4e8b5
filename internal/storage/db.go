package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expense-manager/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DefaultLimit is the number of rows ListExpenses returns when no limit is given.
const DefaultLimit = 50

var (
	// ErrUnavailable is returned when the database file cannot be created or opened.
	ErrUnavailable = errors.New("store unavailable")
	// ErrUsernameExists is returned when inserting a username that is already taken.
	ErrUsernameExists = errors.New("username already exists")
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
	path string
}

// DefaultPath returns the per-installation database location inside the
// user's configuration directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return filepath.Join(dir, "Expense-Manager", "expenses.db"), nil
}

// NewDB creates the parent directory if needed, opens the database and
// ensures the schema exists. It is safe to call repeatedly on the same file.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %v", ErrUnavailable, err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	// Everything runs on one goroutine; a single connection keeps the
	// pragma and any open transaction on the same handle.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: initialize schema: %v", ErrUnavailable, err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS Users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			pass_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS Expenses (
			user_id INTEGER NOT NULL,
			time DATETIME NOT NULL,
			amount REAL NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			FOREIGN KEY (user_id) REFERENCES Users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_time ON Expenses (user_id, time)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the file the database was opened from.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateUser inserts a new user and returns it with its assigned ID.
func (db *DB) CreateUser(username, passHash string) (*models.User, error) {
	result, err := db.conn.Exec(
		"INSERT INTO Users (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.User{ID: id, Username: username, PassHash: passHash}, nil
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(id int64) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash FROM Users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(username string) (*models.User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash FROM Users WHERE username = ?",
		username,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PassHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM Users").Scan(&count)
	return count, err
}

// CreateExpense inserts a new expense. A zero time is replaced by the
// current wall-clock time. Times are stored in UTC with second precision
// so the text column orders by instant.
func (db *DB) CreateExpense(e models.Expense) error {
	t := e.Time
	if t.IsZero() {
		t = time.Now()
	}
	var desc any
	if e.Description != "" {
		desc = e.Description
	}
	_, err := db.conn.Exec(
		"INSERT INTO Expenses (user_id, time, amount, category, description) VALUES (?, ?, ?, ?, ?)",
		e.UserID, t.Truncate(time.Second).UTC(), e.Amount, e.Category, desc,
	)
	return err
}

// ListExpenses returns the user's most recent expenses, newest first.
// A non-positive limit means DefaultLimit.
func (db *DB) ListExpenses(userID int64, limit int) ([]models.Expense, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return db.queryExpenses(
		`SELECT user_id, time, amount, category, description FROM Expenses
		WHERE user_id = ? ORDER BY time DESC, rowid DESC LIMIT ?`,
		userID, limit,
	)
}

// AllExpenses returns every expense of the user in insertion order.
// Times of both queries are returned in local time.
func (db *DB) AllExpenses(userID int64) ([]models.Expense, error) {
	return db.queryExpenses(
		`SELECT user_id, time, amount, category, description FROM Expenses
		WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
}

// ExpenseCount returns how many expenses the user has recorded.
func (db *DB) ExpenseCount(userID int64) (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM Expenses WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

func (db *DB) queryExpenses(query string, args ...any) ([]models.Expense, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var desc sql.NullString
		if err := rows.Scan(&e.UserID, &e.Time, &e.Amount, &e.Category, &desc); err != nil {
			return nil, err
		}
		e.Time = e.Time.Local()
		e.Description = desc.String
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	// Without extended result codes the driver only reports SQLITE_CONSTRAINT;
	// username is the only unique column an insert into Users can hit.
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT:
		return true
	}
	return false
}
