package repository

import (
	"context"
	"errors"
	"fmt"

	"review-catalog/internal/data/entity"
	"review-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ConfirmationRepository interface {
	Create(ctx context.Context, code *entity.ConfirmationCode) error
	// FindLatestUnused returns the newest unused code issued to the user for
	// that e-mail, expired or not.
	FindLatestUnused(ctx context.Context, userID uuid.UUID, email string) (*entity.ConfirmationCode, error)
	// MarkAsUsed consumes the code. It fails with ErrNotFound when the code
	// was already used, so only one caller can consume it.
	MarkAsUsed(ctx context.Context, id uuid.UUID) error
	InvalidateForUser(ctx context.Context, userID uuid.UUID) error
}

type confirmationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConfirmationRepository(db database.PgxIface, log *zap.Logger) ConfirmationRepository {
	return &confirmationRepository{
		db:  db,
		log: log.With(zap.String("repository", "confirmation")),
	}
}

func (r *confirmationRepository) Create(ctx context.Context, code *entity.ConfirmationCode) error {
	query := `
		INSERT INTO confirmation_codes (id, user_id, email, code_hash,
		                                expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		code.ID,
		code.UserID,
		code.Email,
		code.CodeHash,
		code.ExpiresAt,
		code.IsUsed,
		code.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create confirmation code",
			zap.Error(err),
			zap.String("user_id", code.UserID.String()),
		)
		return fmt.Errorf("create confirmation code for %s: %w", code.UserID.String(), err)
	}

	return nil
}

func (r *confirmationRepository) FindLatestUnused(ctx context.Context, userID uuid.UUID, email string) (*entity.ConfirmationCode, error) {
	query := `
		SELECT id, user_id, email, code_hash, expires_at, is_used, created_at
		FROM confirmation_codes
		WHERE user_id = $1
		  AND email = $2
		  AND is_used = false
		ORDER BY created_at DESC
		LIMIT 1
	`

	var code entity.ConfirmationCode
	err := r.db.QueryRow(ctx, query, userID, email).Scan(
		&code.ID,
		&code.UserID,
		&code.Email,
		&code.CodeHash,
		&code.ExpiresAt,
		&code.IsUsed,
		&code.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find confirmation code",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find confirmation code for %s: %w", userID.String(), err)
	}

	return &code, nil
}

func (r *confirmationRepository) MarkAsUsed(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE confirmation_codes SET is_used = true WHERE id = $1 AND is_used = false`, id)
	if err != nil {
		r.log.Error("Failed to mark confirmation code as used",
			zap.Error(err),
			zap.String("code_id", id.String()),
		)
		return fmt.Errorf("mark confirmation code %s as used: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mark confirmation code %s as used: %w", id.String(), ErrNotFound)
	}

	return nil
}

// InvalidateForUser burns every outstanding code of the user
func (r *confirmationRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE confirmation_codes SET is_used = true WHERE user_id = $1 AND is_used = false`, userID)
	if err != nil {
		r.log.Error("Failed to invalidate confirmation codes",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("invalidate confirmation codes for %s: %w", userID.String(), err)
	}

	return nil
}
