package releases

import (
	"context"
	"fmt"

	"github.com/uncovr/uncovr/internal/dbx"
	"github.com/uncovr/uncovr/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const releaseColumns = `r.id, r.title, r.release_type, r.cover_key, r.release_date, r.featured,
	       a.id, a.name, a.slug, a.image_key`

func (r *PostgresRepository) queryReleases(ctx context.Context, query string, args ...any) ([]*models.Release, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Release
	for rows.Next() {
		release := &models.Release{}
		err := rows.Scan(&release.ID, &release.Title, &release.Type, &release.CoverKey,
			&release.ReleaseDate, &release.Featured,
			&release.Artist.ID, &release.Artist.Name, &release.Artist.Slug, &release.Artist.ImageKey)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, release)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Latest(ctx context.Context, limit int) ([]*models.Release, error) {
	query :=
		`SELECT ` + releaseColumns + `
		 FROM releases r
		 JOIN artists a ON a.id = r.artist_id
		 ORDER BY r.release_date DESC, r.id DESC
		 LIMIT $1
		 `

	return r.queryReleases(ctx, query, limit)
}

func (r *PostgresRepository) Featured(ctx context.Context) ([]*models.Release, error) {
	query :=
		`SELECT ` + releaseColumns + `
		 FROM releases r
		 JOIN artists a ON a.id = r.artist_id
		 WHERE r.featured
		 ORDER BY r.release_date DESC, r.id DESC
		 `

	return r.queryReleases(ctx, query)
}
