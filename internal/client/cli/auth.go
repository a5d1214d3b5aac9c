package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/uncovr/uncovr/internal/client/api"
	"github.com/uncovr/uncovr/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and tries to authenticate through
// the session manager. Failures are reported with the server's message when
// one was provided.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	err = a.session.Login(ctx, api.LoginRequest{Email: email, Password: string(password)})
	if err != nil {
		log.Printf("Login failed: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Register prompts for the new account fields and creates the account.
// The confirmation password is collected separately and sent to the server
// as-is; matching is the server's call.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	err = a.session.Register(ctx, api.RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             string(password),
		PasswordConfirmation: string(confirmation),
	})
	if err != nil {
		log.Printf("Registration failed: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	return nil
}

// Logout signs out. This never fails from the user's point of view: the
// session manager absorbs remote errors and always clears local state.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}
