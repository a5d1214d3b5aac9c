package api

import "context"

// Client is the typed surface of the remote Uncovr API consumed by the
// session manager and the CLI screens.
type Client interface {
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	Releases(ctx context.Context) ([]Release, error)
	FeaturedReleases(ctx context.Context) ([]Release, error)
}
