package client

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
)

/*************
 * Fake server
 *************/

type fakeServer struct {
	lastSignup *structpb.Struct
	lastLogin  *structpb.Struct
	requestIDs []string

	signupErr error
	loginErr  error
	listErr   error
	users     []pb.UserRecord
}

func (f *fakeServer) recordRequestID(ctx context.Context) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		f.requestIDs = append(f.requestIDs, md.Get(requestIDHeader)...)
	}
}

func (f *fakeServer) Signup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f.recordRequestID(ctx)
	f.lastSignup = in
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return structpb.NewStruct(map[string]any{pb.FieldMessage: "User created successfully!"})
}

func (f *fakeServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f.recordRequestID(ctx)
	f.lastLogin = in
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return structpb.NewStruct(map[string]any{
		pb.FieldAccessToken: "tok",
		pb.FieldExpiresIn:   3600,
		pb.FieldUsername:    "alice",
		pb.FieldEmail:       "alice@example.com",
	})
}

func (f *fakeServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	f.recordRequestID(ctx)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pb.NewUserList(f.users), nil
}

func newBufconnClient(t *testing.T, srv pb.AuthServiceServer) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	pb.RegisterAuthServiceServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		gs.Stop()
	})
	return c
}

/*************
 * Tests
 *************/

func TestSignup(t *testing.T) {
	fs := &fakeServer{}
	c := newBufconnClient(t, fs)

	msg, err := c.Signup(context.Background(), "alice@example.com", "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "User created successfully!", msg)

	f := pb.Fields(fs.lastSignup.GetFields())
	assert.Equal(t, "alice@example.com", f.String(pb.FieldEmail))
	assert.Equal(t, "alice", f.String(pb.FieldUsername))
	assert.Equal(t, "secret1", f.String(pb.FieldPassword))

	require.Len(t, fs.requestIDs, 1)
	assert.NotEmpty(t, fs.requestIDs[0])
}

func TestSignup_KeepsCallerRequestID(t *testing.T) {
	fs := &fakeServer{}
	c := newBufconnClient(t, fs)

	ctx := metadata.AppendToOutgoingContext(context.Background(), requestIDHeader, "mine")
	_, err := c.Signup(ctx, "alice@example.com", "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, fs.requestIDs)
}

func TestLogin(t *testing.T) {
	fs := &fakeServer{}
	c := newBufconnClient(t, fs)

	res, err := c.Login(context.Background(), "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, &LoginResult{AccessToken: "tok", ExpiresIn: 3600, Username: "alice", Email: "alice@example.com"}, res)

	_, hasUsername := fs.lastLogin.GetFields()[pb.FieldUsername]
	assert.False(t, hasUsername)
}

func TestListUsers(t *testing.T) {
	users := []pb.UserRecord{{Email: "a@example.com", Username: "alice", Password: "$2a$10$x"}}
	c := newBufconnClient(t, &fakeServer{users: users})

	got, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, users, got)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		wantMsg string
	}{
		{"conflict", status.Error(codes.AlreadyExists, "User already exists with the given email!"), ErrConflict, "User already exists with the given email!"},
		{"unauthorized", status.Error(codes.Unauthenticated, "Invalid email or password"), ErrUnauthorized, "Invalid email or password"},
		{"internal", status.Error(codes.Internal, "Something went wrong during signup."), ErrServer, "Something went wrong during signup."},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newBufconnClient(t, &fakeServer{signupErr: tt.err})

			_, err := c.Signup(context.Background(), "alice@example.com", "alice", "secret1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, (&GRPCClient{}).mapError(nil))
}

func TestClose_NoConnection(t *testing.T) {
	assert.NoError(t, (&GRPCClient{}).Close())
}
