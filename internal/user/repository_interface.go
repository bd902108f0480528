package user

import "context"

type Repository interface {
	Create(ctx context.Context, username, passwordHash, role string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailUsedByOther(ctx context.Context, email string, userID int) (bool, error)
	UpdateContactInfo(ctx context.Context, userID int, firstName, lastName, email string) error
	TrackLogin(ctx context.Context, userID int) error
}
