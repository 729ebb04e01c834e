package repository

import (
	"context"
	"fmt"

	"review-catalog/internal/data/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by the pool as well as by a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// insertTitleGenres links a title to genres with a single batch insert.
func insertTitleGenres(ctx context.Context, q querier, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := `INSERT INTO title_genres (title_id, genre_id) VALUES `
	args := make([]any, 0, len(genreIDs)*2)

	for i, genreID := range genreIDs {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2)
		args = append(args, titleID, genreID)
	}
	query += ` ON CONFLICT DO NOTHING`

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert title_genres for %s: %w", titleID.String(), err)
	}

	return nil
}

// replaceTitleGenres swaps the whole genre set of a title.
func replaceTitleGenres(ctx context.Context, q querier, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := q.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("delete title_genres for %s: %w", titleID.String(), err)
	}
	return insertTitleGenres(ctx, q, titleID, genreIDs)
}

// attachGenres loads the genres of all given titles in one query.
func attachGenres(ctx context.Context, q querier, titles []*entity.Title) error {
	if len(titles) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*entity.Title, len(titles))
	ids := make([]uuid.UUID, 0, len(titles))
	for _, t := range titles {
		t.Genres = []*entity.Genre{}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	query := `
		SELECT tg.title_id, g.id, g.name, g.slug, g.created_at
		FROM title_genres tg
		INNER JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("find title_genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var titleID uuid.UUID
		var genre entity.Genre
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug, &genre.CreatedAt); err != nil {
			return fmt.Errorf("scan title_genre row: %w", err)
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, &genre)
		}
	}

	return rows.Err()
}
