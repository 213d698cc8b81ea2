package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
)

const requestIDHeader = "x-request-id"

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AuthServiceClient
}

var _ Client = (*GRPCClient)(nil)

func requestIDInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get(requestIDHeader)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, requestIDHeader, uuid.NewString())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL. Extra dial options are appended
// after the defaults (insecure transport, request-id interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(requestIDInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Signup returns the server's acknowledgement message.
func (s *GRPCClient) Signup(ctx context.Context, email, username, password string) (string, error) {
	res, err := s.client.Signup(ctx, pb.NewCredentials(email, username, password))
	if err != nil {
		return "", s.mapError(err)
	}
	return pb.Fields(res.GetFields()).String(pb.FieldMessage), nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	res, err := s.client.Login(ctx, pb.NewCredentials(email, "", password))
	if err != nil {
		return nil, s.mapError(err)
	}

	f := pb.Fields(res.GetFields())
	return &LoginResult{
		AccessToken: f.String(pb.FieldAccessToken),
		ExpiresIn:   f.Int(pb.FieldExpiresIn),
		Username:    f.String(pb.FieldUsername),
		Email:       f.String(pb.FieldEmail),
	}, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]pb.UserRecord, error) {
	res, err := s.client.ListUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return pb.ParseUserList(res), nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrConflict, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Internal:
		return fmt.Errorf("%w: %s", ErrServer, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
