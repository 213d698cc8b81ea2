package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

func (s *GRPCServer) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := pb.Fields(req.GetFields())

	result, err := s.users.Signup(ctx, validation.Credentials{
		Email:    f.String(pb.FieldEmail),
		Username: f.String(pb.FieldUsername),
		Password: f.String(pb.FieldPassword),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{pb.FieldMessage: result.Message})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := pb.Fields(req.GetFields())

	result, err := s.users.Login(ctx, f.String(pb.FieldEmail), f.String(pb.FieldPassword))
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]any{
		pb.FieldAccessToken: result.AccessToken,
		pb.FieldExpiresIn:   result.ExpiresIn,
		pb.FieldUsername:    result.UserName,
		pb.FieldEmail:       result.Email,
	})
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	records := make([]pb.UserRecord, 0, len(users))
	for _, u := range users {
		records = append(records, pb.UserRecord{Email: u.Email, Username: u.UserName, Password: u.PasswordHash})
	}

	return pb.NewUserList(records), nil
}

func toStatus(err error) error {
	msg := common.Message(err)
	switch {
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, msg)
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, msg)
	}
	return status.Error(codes.Internal, msg)
}
