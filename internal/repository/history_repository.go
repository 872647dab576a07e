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

const historyColumns = `id, image_url, storage_path, prompt, style_id, product_id, width, height,
	user_id, is_favorite, download_count, created_at`

// historyRepository implements HistoryRepository over the kv_images table.
type historyRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewHistoryRepository creates a PostgreSQL-backed history repository.
func NewHistoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) HistoryRepository {
	return &historyRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "history").Logger(),
	}
}

func (r *historyRepository) List(ctx context.Context, userID *string) ([]model.HistoryRecord, error) {
	query := `
		SELECT ` + historyColumns + `
		FROM kv_images
		WHERE ($1::text IS NULL OR user_id = $1)
		ORDER BY is_favorite DESC, created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query history")
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.HistoryRecord])
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to collect history rows")
		return nil, fmt.Errorf("failed to collect history: %w", err)
	}

	return records, nil
}

func (r *historyRepository) GetByID(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	return r.one(ctx, "get", `SELECT `+historyColumns+` FROM kv_images WHERE id = $1`, id)
}

func (r *historyRepository) Create(ctx context.Context, rec *model.HistoryRecord) error {
	query := `
		INSERT INTO kv_images (image_url, storage_path, prompt, style_id, product_id, width, height, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_favorite, download_count, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		rec.ImageURL, rec.StoragePath, rec.Prompt, rec.StyleID, rec.ProductID, rec.Width, rec.Height, rec.UserID,
	).Scan(&rec.ID, &rec.IsFavorite, &rec.DownloadCount, &rec.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to insert history record")
		return fmt.Errorf("failed to insert history record: %w", err)
	}

	return nil
}

func (r *historyRepository) ToggleFavorite(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	return r.one(ctx, "toggle favorite", `
		UPDATE kv_images SET is_favorite = NOT is_favorite
		WHERE id = $1
		RETURNING `+historyColumns, id)
}

func (r *historyRepository) IncrementDownloads(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	return r.one(ctx, "increment downloads", `
		UPDATE kv_images SET download_count = download_count + 1
		WHERE id = $1
		RETURNING `+historyColumns, id)
}

func (r *historyRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM kv_images WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("id", id).Msg("failed to delete history record")
		return false, fmt.Errorf("failed to delete history record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// one runs a single-row query and returns nil, nil when nothing matched.
func (r *historyRepository) one(ctx context.Context, op, query string, args ...any) (*model.HistoryRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("op", op).Msg("history query failed")
		return nil, fmt.Errorf("failed to %s history record: %w", op, err)
	}

	rec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[model.HistoryRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("op", op).Msg("failed to scan history record")
		return nil, fmt.Errorf("failed to %s history record: %w", op, err)
	}

	return rec, nil
}
