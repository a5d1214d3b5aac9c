package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/uncovr/uncovr/internal/client/api"
	"github.com/uncovr/uncovr/internal/common"
)

const passwordMinLength = 8

// Whoami prints the signed-in user.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		printlnFn("Not signed in")
		return nil
	}

	fmt.Printf("id:       %d\n", u.ID)
	fmt.Printf("name:     %s\n", u.Name)
	fmt.Printf("email:    %s\n", u.Email)
	if u.EmailVerifiedAt != nil {
		fmt.Printf("verified: %s\n", *u.EmailVerifiedAt)
	} else {
		fmt.Printf("verified: no\n")
	}
	return nil
}

// Refresh re-fetches the signed-in user. On failure the session manager
// treats the session as dead and signs out.
func (a *App) Refresh(ctx context.Context) error {
	a.session.RefreshUser(ctx)
	if a.session.IsAuthenticated() {
		printlnFn("Up to date")
	}
	return nil
}

// Profile updates the profile name.
func (a *App) Profile(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter new name", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" {
		printlnFn("Name must not be empty")
		return nil
	}

	if err := a.session.UpdateProfile(ctx, api.UpdateProfileRequest{Name: &name}); err != nil {
		log.Printf("Failed to update profile: %s", err.Error())
		return err
	}

	fmt.Println("Profile updated")
	return nil
}

// Passwd changes the password. Field checks (non-empty, confirmation match,
// minimum length) live here at the UI boundary; the server re-validates.
func (a *App) Passwd(ctx context.Context) error {
	current, err := getPassword("Current password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	confirmation, err := getPassword("Confirm new password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	if err := validatePasswordChange(current, next, confirmation); err != nil {
		printlnFn(err.Error())
		return err
	}

	err = a.session.ChangePassword(ctx, api.ChangePasswordRequest{
		CurrentPassword:      string(current),
		Password:             string(next),
		PasswordConfirmation: string(confirmation),
	})
	if err != nil {
		log.Printf("Failed to change password: %s", err.Error())
		return err
	}

	fmt.Println("Password changed")
	return nil
}

func validatePasswordChange(current, next, confirmation []byte) error {
	if len(current) == 0 || len(next) == 0 || len(confirmation) == 0 {
		return errors.New("all fields are required")
	}
	if string(next) != string(confirmation) {
		return errors.New("new passwords do not match")
	}
	if len(next) < passwordMinLength {
		return fmt.Errorf("new password must be at least %d characters", passwordMinLength)
	}
	return nil
}
