package httpapi

import (
	"time"

	"github.com/uncovr/uncovr/internal/server/models"
)

// userPayload is the wire form of an account. Timestamps go out as RFC 3339
// strings; the password hash never leaves the models layer.
type userPayload struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func toUserPayload(user *models.User) userPayload {
	p := userPayload{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if user.EmailVerifiedAt != nil {
		verified := user.EmailVerifiedAt.Format(time.RFC3339)
		p.EmailVerifiedAt = &verified
	}
	return p
}

// authPayload is the login/register success shape.
type authPayload struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type artistPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	ArtistImage string `json:"artist_image"`
}

type releasePayload struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	CoverImage  string        `json:"cover_image"`
	Artist      artistPayload `json:"artist"`
	Type        string        `json:"type"`
	ReleaseDate string        `json:"release_date"`
}

// releasesPayload wraps catalog listings in a data envelope.
type releasesPayload struct {
	Data []releasePayload `json:"data"`
}

func toReleasesPayload(releases []*models.Release) releasesPayload {
	out := releasesPayload{Data: make([]releasePayload, 0, len(releases))}
	for _, release := range releases {
		out.Data = append(out.Data, releasePayload{
			ID:          release.ID,
			Title:       release.Title,
			CoverImage:  release.CoverURL,
			Type:        release.Type,
			ReleaseDate: release.ReleaseDate.Format(time.DateOnly),
			Artist: artistPayload{
				ID:          release.Artist.ID,
				Name:        release.Artist.Name,
				Slug:        release.Artist.Slug,
				ArtistImage: release.Artist.ImageURL,
			},
		})
	}
	return out
}
