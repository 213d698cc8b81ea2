// Package client contains the client-side gophauth API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the gophauth backend: Signup, Login and ListUsers.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, tags every call with a request id, and maps gRPC status
//     codes to sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrConflict, ErrServer. The
// server's own message is kept in the error text.
package client
