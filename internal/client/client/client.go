package client

import (
	"context"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
)

// LoginResult mirrors the server's login response.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int
	Username    string
	Email       string
}

type Client interface {
	Close() error
	Signup(ctx context.Context, email, username, password string) (string, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ListUsers(ctx context.Context) ([]pb.UserRecord, error)
}
