// Package storage owns the sqlite file holding users and questions.
//
// A Store is opened at the start of a request and closed when the request
// ends; nothing is cached between requests.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/addspin/satexam/crypts"
	"github.com/addspin/satexam/models"
	"github.com/addspin/satexam/scoring"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// ErrInvalidCredentials is returned by FindUser when no user matches. It does
// not say whether the username exists.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Error wraps a failure of the underlying database.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

type Store struct {
	db     *sqlx.DB
	scheme crypts.PasswordScheme
}

// Open opens (and creates if absent) the sqlite file at path.
func Open(ctx context.Context, path string, scheme crypts.PasswordScheme) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "sat.db"
	}
	if scheme == "" {
		scheme = crypts.SchemePlaintext
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, wrap("open", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, wrap("open", err)
	}

	return &Store{db: db, scheme: scheme}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return wrap("ping", s.db.PingContext(ctx))
}

// Initialize creates missing tables and seeds each one only while it is
// empty. Calling it again once seeded changes nothing.
func (s *Store) Initialize(ctx context.Context, seed models.Seed) error {
	for _, stmt := range []string{models.UsersSchema, models.QuestionsSchema} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return wrap("create schema", err)
		}
	}
	if err := s.seedUsers(ctx, seed.Users); err != nil {
		return err
	}
	return s.seedQuestions(ctx, seed.Questions)
}

func (s *Store) seedUsers(ctx context.Context, users []models.User) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap("seed users", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return wrap("seed users", err)
	}
	if count > 0 {
		return nil
	}

	for _, u := range users {
		stored, err := s.scheme.Encode(u.Password)
		if err != nil {
			return err
		}
		// OR IGNORE keeps a racing second seeder from failing on the unique username.
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO users (username, password) VALUES (?, ?)`,
			u.Username, stored); err != nil {
			return wrap("seed users", err)
		}
	}
	return wrap("seed users", tx.Commit())
}

func (s *Store) seedQuestions(ctx context.Context, questions []models.Question) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap("seed questions", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM questions`); err != nil {
		return wrap("seed questions", err)
	}
	if count > 0 {
		return nil
	}

	const insert = `INSERT INTO questions (stem, choice_a, choice_b, choice_c, choice_d, answer)
		VALUES (:stem, :choice_a, :choice_b, :choice_c, :choice_d, :answer)`
	for _, q := range questions {
		if _, err := tx.NamedExecContext(ctx, insert, q); err != nil {
			return wrap("seed questions", err)
		}
	}
	return wrap("seed questions", tx.Commit())
}

// ListQuestionsPublic returns all questions by ascending ID without answers.
func (s *Store) ListQuestionsPublic(ctx context.Context) ([]models.PublicQuestion, error) {
	questions := []models.PublicQuestion{}
	err := s.db.SelectContext(ctx, &questions,
		`SELECT id, stem, choice_a, choice_b, choice_c, choice_d FROM questions ORDER BY id ASC`)
	if err != nil {
		return nil, wrap("list questions", err)
	}
	return questions, nil
}

// AnswerKey returns the correct letter of every question.
func (s *Store) AnswerKey(ctx context.Context) (scoring.AnswerKey, error) {
	var rows []struct {
		Id     int    `db:"id"`
		Answer string `db:"answer"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, answer FROM questions ORDER BY id ASC`); err != nil {
		return nil, wrap("answer key", err)
	}

	key := make(scoring.AnswerKey, len(rows))
	for _, row := range rows {
		key[row.Id] = scoring.Letter(row.Answer)
	}
	return key, nil
}

// FindUser returns the user whose username and password both match exactly.
// The returned user never carries the stored password.
func (s *Store) FindUser(ctx context.Context, username, password string) (models.User, error) {
	var user models.User
	var err error
	if s.scheme == crypts.SchemeBcrypt {
		err = s.db.GetContext(ctx, &user,
			`SELECT id, username, password FROM users WHERE username = ?`, username)
	} else {
		err = s.db.GetContext(ctx, &user,
			`SELECT id, username, password FROM users WHERE username = ? AND password = ?`, username, password)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, wrap("find user", err)
	}

	if err := s.scheme.Compare(user.Password, password); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	user.Password = ""
	return user, nil
}
