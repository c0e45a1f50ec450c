package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mobilecore/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email and password and creates an account. On
// success the new account is logged in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name (optional)", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and logged in as %s\n", s.Email)
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", s.Email)
	return nil
}

// Logout ends the session. Local credentials are removed best-effort.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	a.authService.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// WhoAmI prints the local session and, when reachable, the server's view of
// the user.
func (a *App) WhoAmI(ctx context.Context) error {
	cur := a.session.Current()
	if cur == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	fmt.Fprintf(a.out, "Session: %s (%s) id=%s\n", cur.Email, displayName(cur.Name), cur.UserID)

	u, err := a.authService.Profile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	fmt.Fprintf(a.out, "Server:  %s (%s) id=%s\n", u.Email, displayName(u.Name), u.ID)
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "no name"
	}
	return name
}
