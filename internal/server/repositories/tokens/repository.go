// Package tokens contains the persistence layer for issued access tokens.
// A row's presence is what makes a signed JWT acceptable; deleting it
// revokes the token.
package tokens

import (
	"context"

	"github.com/uncovr/uncovr/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token *models.AccessToken) error
	Get(ctx context.Context, id string) (*models.AccessToken, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
