// Package releases contains the persistence layer for the catalog.
package releases

import (
	"context"

	"github.com/uncovr/uncovr/internal/server/models"
)

type Repository interface {
	Latest(ctx context.Context, limit int) ([]*models.Release, error)
	Featured(ctx context.Context) ([]*models.Release, error)
}
