package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
)

type App struct {
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c client.Client, in io.Reader, out io.Writer) *App {
	return &App{client: c, reader: bufio.NewReader(in), out: out}
}

func (a *App) promptIfEmpty(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

// Signup creates an account, prompting for anything not given.
func (a *App) Signup(ctx context.Context, email, username string) error {
	email, err := a.promptIfEmpty(email, "Enter email")
	if err != nil {
		return err
	}
	username, err = a.promptIfEmpty(username, "Enter user name")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	msg, err := a.client.Signup(ctx, email, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, msg)
	return nil
}

// Login prints the issued access token and its lifetime.
func (a *App) Login(ctx context.Context, email string) error {
	email, err := a.promptIfEmpty(email, "Enter email")
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s <%s>\n", res.Username, res.Email)
	fmt.Fprintf(a.out, "Access token (expires in %ds):\n%s\n", res.ExpiresIn, res.AccessToken)
	return nil
}

// ListUsers prints one account per row.
func (a *App) ListUsers(ctx context.Context) error {
	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tUSERNAME\tPASSWORD HASH")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.Email, u.Username, u.Password)
	}
	return w.Flush()
}
