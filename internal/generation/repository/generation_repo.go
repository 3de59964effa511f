package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/promptpix/go-promptpix-backend/internal/generation/domain"
)

// HistoryLimit caps how many generations the history listing returns.
const HistoryLimit = 50

// GenerationRepository persists confirmed generations in Postgres. There is
// deliberately no update or delete: rows are written once, after validation.
type GenerationRepository struct {
	db *sql.DB
}

func NewGenerationRepository(db *sql.DB) *GenerationRepository {
	return &GenerationRepository{db: db}
}

// Create inserts a generation, assigning its ID and creation timestamp.
func (r *GenerationRepository) Create(ctx context.Context, gen *domain.Generation) error {
	if gen.ID == "" {
		gen.ID = uuid.New().String()
	}

	query := `
		INSERT INTO generations (id, user_id, prompt, enhanced_prompt, image_url, seed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		gen.ID,
		gen.UserID,
		gen.Prompt,
		gen.EnhancedPrompt,
		gen.ImageURL,
		gen.Seed,
	).Scan(&gen.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert generation: %w", err)
	}

	return nil
}

// ListByUser returns the user's generations, newest first, capped at
// HistoryLimit.
func (r *GenerationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Generation, error) {
	query := `
		SELECT id, user_id, prompt, enhanced_prompt, image_url, seed, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	generations := make([]domain.Generation, 0, HistoryLimit)
	for rows.Next() {
		var gen domain.Generation
		if err := rows.Scan(
			&gen.ID,
			&gen.UserID,
			&gen.Prompt,
			&gen.EnhancedPrompt,
			&gen.ImageURL,
			&gen.Seed,
			&gen.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		generations = append(generations, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generations: %w", err)
	}

	return generations, nil
}
