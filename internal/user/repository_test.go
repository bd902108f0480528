package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func userRows(id int, username string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "first_name", "last_name", "email", "password_hash", "role", "created_at"}).
		AddRow(id, username, "", "", "", "hash", "student", time.Now())
}

func TestCreateUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id, username, first_name, last_name, email, password_hash, role, created_at")).
		WithArgs("marta", "hash", "student").
		WillReturnRows(userRows(1, "marta"))

	u, err := repo.Create(context.Background(), "marta", "hash", "student")
	require.NoError(t, err)
	require.Equal(t, "marta", u.Username)
}

func TestEmailUsedByOther(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)")).
		WithArgs("taken@example.com", 5).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	used, err := repo.EmailUsedByOther(context.Background(), "taken@example.com", 5)
	require.NoError(t, err)
	require.True(t, used)
}

func TestTrackLogin_Upsert(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO active_users (user_id, last_login) VALUES ($1, NOW()) ON CONFLICT (user_id) DO UPDATE SET last_login = NOW()")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.TrackLogin(context.Background(), 5)
	require.NoError(t, err)
}

func TestUpdateContactInfo(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET first_name = $1, last_name = $2, email = $3 WHERE id = $4")).
		WithArgs("Marta", "Novak", "marta@example.com", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateContactInfo(context.Background(), 5, "Marta", "Novak", "marta@example.com")
	require.NoError(t, err)
}
