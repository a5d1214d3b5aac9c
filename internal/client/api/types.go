package api

// User is the authenticated user as returned by the remote API. Timestamps
// stay in their wire form; the client never interprets them.
type User struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// AuthResponse is the result of a successful login or registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Artist is the release's artist summary embedded in catalog listings.
type Artist struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ArtistImage string `json:"artist_image"`
}

// Release is a single catalog entry (album, EP, single).
type Release struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CoverImage  string `json:"cover_image"`
	Artist      Artist `json:"artist"`
	Type        string `json:"type"`
	ReleaseDate string `json:"release_date"`
}
