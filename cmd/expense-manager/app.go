package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"expense-manager/internal/auth"
	"expense-manager/internal/config"
	"expense-manager/internal/ledger"
	"expense-manager/internal/logging"
	"expense-manager/internal/session"
	"expense-manager/internal/storage"
)

// commonFlags are accepted by every command.
type commonFlags struct {
	db     *string
	config *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		db:     fs.String("db", "", "Path to database file (default: per-user data directory)"),
		config: fs.String("config", "", "Path to config file"),
	}
}

// credentialFlags identify the user for one-shot commands.
type credentialFlags struct {
	user     *string
	password *string
}

func addCredentialFlags(fs *flag.FlagSet) credentialFlags {
	return credentialFlags{
		user:     fs.String("user", "", "Username"),
		password: fs.String("password", "", "Password (optional, will prompt if omitted)"),
	}
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{msg: err.Error()}
	}
	if fs.NArg() > 0 {
		return usageErrorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return nil
}

// app holds the open store and the services built on it.
type app struct {
	cfg    *config.Config
	db     *storage.DB
	creds  *auth.Store
	ledger *ledger.Ledger
}

func openApp(common commonFlags, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(*common.config)
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	if *common.db != "" {
		cfg.DBPath = *common.db
	}
	if err := logging.Setup(cfg.LogLevel, stderr); err != nil {
		return nil, usageErrorf("invalid log level: %v", err)
	}
	scheme, err := cfg.Scheme()
	if err != nil {
		return nil, usageErrorf("%v", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:    cfg,
		db:     db,
		creds:  auth.NewStore(db, scheme),
		ledger: ledger.New(db),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// promptPassword returns password or, when empty, asks for one on stdin.
func promptPassword(password string, in *input, stdout io.Writer) (string, error) {
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = in.readPassword()
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout) // Print newline after password input
	}

	if strings.TrimSpace(password) == "" {
		return "", auth.ErrInvalidCredentials
	}
	return password, nil
}

// signIn authenticates username with a password read from the flag or stdin.
func (a *app) signIn(username, password string, in *input, stdout io.Writer) (session.Session, error) {
	if strings.TrimSpace(username) == "" {
		return session.Session{}, usageErrorf("missing required flags: user")
	}
	password, err := promptPassword(password, in, stdout)
	if err != nil {
		return session.Session{}, err
	}

	res, err := a.creds.Authenticate(username, auth.Digest(password))
	if err != nil {
		return session.Session{}, err
	}
	if err := res.Err(); err != nil {
		return session.Session{}, err
	}
	return res.Session, nil
}

// signUp registers username with a password read from the flag or stdin.
func (a *app) signUp(username, password string, in *input, stdout io.Writer) (session.Session, error) {
	if strings.TrimSpace(username) == "" {
		return session.Session{}, usageErrorf("missing required flags: user")
	}
	password, err := promptPassword(password, in, stdout)
	if err != nil {
		return session.Session{}, err
	}
	return a.creds.Register(username, auth.Digest(password))
}
