package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/models"
	"github.com/Goofygiraffe06/portal/internal/utils"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// Every pooled connection to ":memory:" would see its own database.
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL CHECK(first_name <> ''),
		last_name TEXT NOT NULL CHECK(last_name <> ''),
		email TEXT NOT NULL UNIQUE CHECK(email <> ''),
		password_hash TEXT NOT NULL CHECK(password_hash <> '')
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// AddAccount inserts acct and returns it with its assigned ID. Emails are
// stored normalized.
func (s *SQLiteStore) AddAccount(ctx context.Context, acct models.Account) (models.Account, error) {
	acct.Email = utils.NormalizeEmail(acct.Email)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash)
		VALUES (?, ?, ?, ?)`,
		acct.FirstName, acct.LastName, acct.Email, acct.PasswordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return models.Account{}, ErrUserExists
		}
		return models.Account{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Account{}, err
	}
	acct.ID = id
	logging.DebugLog("store.AddAccount [%s] id=%d", utils.HashEmail(acct.Email), id)
	return acct, nil
}

// GetByEmail looks up an account. A missing account is reported as
// found=false with a nil error; any other failure is returned.
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (models.Account, bool, error) {
	var acct models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, password_hash
		FROM users
		WHERE email = ?`, utils.NormalizeEmail(email)).
		Scan(&acct.ID, &acct.FirstName, &acct.LastName, &acct.Email, &acct.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, false, nil
	}
	if err != nil {
		logging.ErrorLog("store.GetByEmail error: %v", err)
		return models.Account{}, false, err
	}
	return acct, true, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, email string) (bool, error) {
	_, found, err := s.GetByEmail(ctx, email)
	return found, err
}

// UpdatePassword replaces the stored hash for email.
func (s *SQLiteStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE email = ?`,
		passwordHash, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
