package user

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, username, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, username, first_name, last_name, email, password_hash, role, created_at
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, username, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, first_name, last_name, email, password_hash, role, created_at
		FROM users
		WHERE username = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, username)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, username, first_name, last_name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) EmailUsedByOther(ctx context.Context, email string, userID int) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email, userID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) UpdateContactInfo(ctx context.Context, userID int, firstName, lastName, email string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET first_name = $1, last_name = $2, email = $3 WHERE id = $4`,
		firstName, lastName, email, userID,
	)
	return err
}

// TrackLogin upserts the last-login marker, most recent write wins.
func (r *repository) TrackLogin(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO active_users (user_id, last_login)
		 VALUES ($1, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET last_login = NOW()`,
		userID,
	)
	return err
}
