package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the credential store. It is the only authority on email
// uniqueness: Create must fail with common.ErrorAlreadyExists when a record
// with the same email exists, even under concurrent calls.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListEmails(ctx context.Context) ([]string, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}
