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

type whiteProductRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWhiteProductRepository creates a PostgreSQL-backed white product repository.
func NewWhiteProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) WhiteProductRepository {
	return &whiteProductRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "white_product").Logger(),
	}
}

func (r *whiteProductRepository) List(ctx context.Context, category *model.Category) ([]model.WhiteProduct, error) {
	query := `
		SELECT id, name, description, category, image_url, created_at
		FROM white_products
		WHERE ($1::text IS NULL OR category = $1)
		ORDER BY created_at DESC, id DESC
	`

	var filter *string
	if category != nil {
		c := string(*category)
		filter = &c
	}

	rows, err := r.pool.Query(ctx, query, filter)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query white products")
		return nil, fmt.Errorf("failed to query white products: %w", err)
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.WhiteProduct])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to collect white product rows")
		return nil, fmt.Errorf("failed to collect white products: %w", err)
	}

	return products, nil
}

func (r *whiteProductRepository) GetByID(ctx context.Context, id int64) (*model.WhiteProduct, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, category, image_url, created_at
		FROM white_products
		WHERE id = $1
	`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to query white product")
		return nil, fmt.Errorf("failed to query white product: %w", err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.WhiteProduct])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to scan white product")
		return nil, fmt.Errorf("failed to scan white product: %w", err)
	}

	return p, nil
}

func (r *whiteProductRepository) Create(ctx context.Context, p *model.WhiteProduct) error {
	query := `
		INSERT INTO white_products (name, description, category, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, p.Name, p.Description, string(p.Category), p.ImageURL).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", p.Name).Msg("failed to insert white product")
		return fmt.Errorf("failed to insert white product: %w", err)
	}

	return nil
}

func (r *whiteProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM white_products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to delete white product")
		return false, fmt.Errorf("failed to delete white product: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
