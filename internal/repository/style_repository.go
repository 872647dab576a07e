package repository

import (
	"context"
	"errors"
	"fmt"

	"kv-studio/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Tables holding prompt-template catalogs.
const (
	TableStyles      = "kv_styles"
	TableBackgrounds = "backgrounds"
)

// TableForKind maps a catalog kind to its table.
func TableForKind(kind model.StyleKind) string {
	if kind == model.KindBackground {
		return TableBackgrounds
	}
	return TableStyles
}

// styleRepository implements StyleRepository using PostgreSQL.
type styleRepository struct {
	pool   *pgxpool.Pool
	table  string
	logger zerolog.Logger
}

// NewStyleRepository creates a repository for the table backing kind.
func NewStyleRepository(pool *pgxpool.Pool, kind model.StyleKind, logger zerolog.Logger) StyleRepository {
	table := TableForKind(kind)
	return &styleRepository{
		pool:   pool,
		table:  table,
		logger: logger.With().Str("repository", table).Logger(),
	}
}

func (r *styleRepository) List(ctx context.Context) ([]model.Style, error) {
	query := fmt.Sprintf(`
		SELECT id, name, prompt, image_url, created_at
		FROM %s
		ORDER BY created_at DESC, id DESC
	`, r.table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query styles")
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	styles := []model.Style{}
	for rows.Next() {
		var s model.Style
		if err := rows.Scan(&s.ID, &s.Name, &s.Prompt, &s.ImageURL, &s.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan style row")
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		styles = append(styles, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating style rows")
		return nil, fmt.Errorf("error iterating %s: %w", r.table, err)
	}

	return styles, nil
}

func (r *styleRepository) GetByID(ctx context.Context, id int64) (*model.Style, error) {
	query := fmt.Sprintf(`
		SELECT id, name, prompt, image_url, created_at
		FROM %s
		WHERE id = $1
	`, r.table)

	var s model.Style
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Prompt, &s.ImageURL, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("id", id).Msg("style not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to query style")
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}

	return &s, nil
}

func (r *styleRepository) Create(ctx context.Context, style *model.Style) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, prompt, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, r.table)

	err := r.pool.QueryRow(ctx, query, style.Name, style.Prompt, style.ImageURL).Scan(&style.ID, &style.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", style.Name).Msg("failed to insert style")
		return fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}

	return nil
}

func (r *styleRepository) UpdatePrompt(ctx context.Context, id int64, prompt string) (*model.Style, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET prompt = $2
		WHERE id = $1
		RETURNING id, name, prompt, image_url, created_at
	`, r.table)

	var s model.Style
	err := r.pool.QueryRow(ctx, query, id, prompt).Scan(&s.ID, &s.Name, &s.Prompt, &s.ImageURL, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to update style prompt")
		return nil, fmt.Errorf("failed to update %s prompt: %w", r.table, err)
	}

	return &s, nil
}

func (r *styleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to delete style")
		return false, fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}
	return tag.RowsAffected() > 0, nil
}
