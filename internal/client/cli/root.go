package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

const defaultServer = "localhost:50051"

// newClient is a test seam for dialing the server.
var newClient = func(addr string) (client.Client, error) {
	return client.NewGRPCClient(addr)
}

// NewRootCmd creates the root command of the gophauth client.
func NewRootCmd() *cobra.Command {
	var (
		server string
		app    *App
		conn   client.Client
	)

	cmd := &cobra.Command{
		Use:           "gophauth-client",
		Short:         "Command-line client for the gophauth service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(server)
			if err != nil {
				return err
			}
			conn = c
			app = NewApp(c, cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if conn == nil {
				return nil
			}
			return conn.Close()
		},
	}

	cmd.PersistentFlags().StringVarP(&server, "server", "s", defaultServer, "gRPC address of the gophauth server")

	getApp := func() *App { return app }

	cmd.AddCommand(newSignupCmd(getApp))
	cmd.AddCommand(newLoginCmd(getApp))
	cmd.AddCommand(newUsersCmd(getApp))

	return cmd
}

func newSignupCmd(app func() *App) *cobra.Command {
	var email, username string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app().Signup(cmd.Context(), email, username)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&username, "username", "u", "", "user name (3-25 characters)")

	return cmd
}

func newLoginCmd(app func() *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app().Login(cmd.Context(), email)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")

	return cmd
}

func newUsersCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List stored accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app().ListUsers(cmd.Context())
		},
	}
}
