package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/client/client"
	"github.com/dmitrijs2005/jobboard/internal/client/navigate"
	"github.com/dmitrijs2005/jobboard/internal/client/services"
	"github.com/dmitrijs2005/jobboard/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for name, email, password and account type and creates
// the account. The session manager signs the new account in and announces
// it; the password is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
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

	role, err := getSimpleText(a.reader, "Account type (user/company, empty for user)", a.out)
	if err != nil {
		return err
	}

	_, err = a.session.Register(ctx, services.RegisterInput{
		Name:     name,
		Email:    email,
		Password: string(password),
		Role:     strings.ToUpper(strings.TrimSpace(role)),
	})
	return a.report(err)
}

// Login prompts for credentials and signs in.
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

	_, err = a.session.Login(ctx, email, string(password))
	return a.report(err)
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}
	a.session.Logout(ctx)
	a.mu.Lock()
	a.lastResume = ""
	a.mu.Unlock()
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	s := a.session.Current()
	if s == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s>, role %s", s.DisplayName, s.Email, s.Role))
	if !s.ExpiresAt.IsZero() {
		printlnFn(fmt.Sprintf("Access token expires at %s", s.ExpiresAt.Local().Format("2006-01-02 15:04:05")))
	}
	return nil
}

// Check asks the server whether the stored session is still valid.
func (a *App) Check(ctx context.Context) error {
	if a.session.CheckAuth(ctx) {
		printlnFn("Session is valid")
	} else {
		printlnFn("Not authenticated")
	}
	return nil
}

// report prints err for the user and returns it. Throttling has already been
// announced by the client; a failed refresh means the session is gone.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}

	var authErr *services.AuthError
	switch {
	case errors.Is(err, client.ErrThrottled):
	case errors.Is(err, client.ErrRefreshFailed):
		printlnFn(services.MsgSessionExpired)
		a.Navigate(navigate.LoginPath)
	case errors.As(err, &authErr):
		printlnFn(authErr.Message)
	default:
		printlnFn("Error:", err.Error())
	}
	return err
}
