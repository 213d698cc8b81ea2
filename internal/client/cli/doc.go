// Package cli provides the gophauth command-line client.
//
// Commands talk to the server over gRPC:
//   - signup: create an account (password prompted without echo)
//   - login:  obtain an access token
//   - users:  list stored accounts
//
// Missing --email/--username values are prompted for interactively.
package cli
