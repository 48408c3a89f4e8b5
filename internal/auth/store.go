package auth

import (
	"errors"
	"fmt"
	"strings"

	"expense-manager/internal/models"
	"expense-manager/internal/session"
	"expense-manager/internal/storage"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUsernameTaken is returned by Register when the username exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrUserNotFound corresponds to StatusNotFound.
	ErrUserNotFound = errors.New("user not found")
	// ErrCredentialMismatch corresponds to StatusMismatch.
	ErrCredentialMismatch = errors.New("credential mismatch")
	// ErrInvalidCredentials is returned for an empty username or digest.
	ErrInvalidCredentials = errors.New("username and password are required")
)

// Status is the outcome of an authentication attempt.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusMismatch
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusMismatch:
		return "mismatch"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is returned by Authenticate. Session is only set when Status is StatusOK.
type Result struct {
	Status  Status
	Session session.Session
}

// Err converts a failed result into ErrUserNotFound or ErrCredentialMismatch.
func (r Result) Err() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusNotFound:
		return ErrUserNotFound
	default:
		return ErrCredentialMismatch
	}
}

// UserStore is the persistence the credential store needs.
type UserStore interface {
	CreateUser(username, passHash string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
}

// Store registers and authenticates local users. It only ever receives
// password digests, never plaintext.
type Store struct {
	users  UserStore
	scheme Scheme
	log    *logrus.Entry
}

// NewStore creates a credential store writing new hashes with scheme.
func NewStore(users UserStore, scheme Scheme) *Store {
	if scheme == "" {
		scheme = SchemePlain
	}
	return &Store{
		users:  users,
		scheme: scheme,
		log:    logrus.WithField("component", "auth"),
	}
}

// Register creates a user and returns the session for it.
func (s *Store) Register(username, digest string) (session.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || digest == "" {
		return session.Session{}, ErrInvalidCredentials
	}

	hash, err := HashPassword(digest, s.scheme)
	if err != nil {
		return session.Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrUsernameExists) {
			s.log.WithField("username", username).Info("sign-up rejected, username taken")
			return session.Session{}, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return session.Session{}, fmt.Errorf("create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"username": user.Username, "user_id": user.ID}).Info("user registered")
	return session.Session{UserID: user.ID, Username: user.Username}, nil
}

// Authenticate looks up username and compares digest with the stored hash.
// The returned error is non-nil only when the store itself fails.
func (s *Store) Authenticate(username, digest string) (Result, error) {
	username = strings.TrimSpace(username)
	if username == "" || digest == "" {
		return Result{}, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WithField("username", username).Info("sign-in failed, unknown user")
			return Result{Status: StatusNotFound}, nil
		}
		return Result{}, fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(digest, user.PassHash) {
		s.log.WithField("username", username).Info("sign-in failed, credential mismatch")
		return Result{Status: StatusMismatch}, nil
	}

	return Result{
		Status:  StatusOK,
		Session: session.Session{UserID: user.ID, Username: user.Username},
	}, nil
}
