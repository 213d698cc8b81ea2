package proto

import (
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names shared by requests and responses.
const (
	FieldEmail       = "email"
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldMessage     = "message"
	FieldAccessToken = "accessToken"
	FieldExpiresIn   = "expiresIn"
	FieldUsers       = "users"
)

// Fields of a Struct message, all read as strings. Missing or non-string
// values read as "".
type Fields map[string]*structpb.Value

func (f Fields) String(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func (f Fields) Int(key string) int {
	v, ok := f[key]
	if !ok {
		return 0
	}
	return int(v.GetNumberValue())
}

// NewCredentials builds a Signup or Login request. Empty username is omitted.
func NewCredentials(email, username, password string) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldEmail:    structpb.NewStringValue(email),
		FieldPassword: structpb.NewStringValue(password),
	}
	if username != "" {
		fields[FieldUsername] = structpb.NewStringValue(username)
	}
	return &structpb.Struct{Fields: fields}
}

// UserRecord is one entry of a ListUsers response.
type UserRecord struct {
	Email    string
	Username string
	Password string
}

func NewUserList(users []UserRecord) *structpb.Struct {
	list := make([]*structpb.Value, 0, len(users))
	for _, u := range users {
		list = append(list, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			FieldEmail:    structpb.NewStringValue(u.Email),
			FieldUsername: structpb.NewStringValue(u.Username),
			FieldPassword: structpb.NewStringValue(u.Password),
		}}))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldUsers: structpb.NewListValue(&structpb.ListValue{Values: list}),
	}}
}

func ParseUserList(s *structpb.Struct) []UserRecord {
	var out []UserRecord
	for _, v := range s.GetFields()[FieldUsers].GetListValue().GetValues() {
		f := Fields(v.GetStructValue().GetFields())
		out = append(out, UserRecord{
			Email:    f.String(FieldEmail),
			Username: f.String(FieldUsername),
			Password: f.String(FieldPassword),
		})
	}
	return out
}
