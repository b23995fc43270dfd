package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/microservices/condo/internal/entity"
)

type Repository struct {
	db *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		db: pool,
	}
}

func (r *Repository) SaveStagedImage(ctx context.Context, img entity.StagedImage) error {
	const q = `
	INSERT INTO staged_images (
		id,
		request_id,
		content_type,
		checksum,
		size,
		data,
		created_by,
		created_at,
		expires_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		ctx,
		q,
		img.ID,
		img.RequestID,
		img.ContentType,
		img.Checksum,
		img.Size,
		img.Data,
		img.CreatedBy,
		img.CreatedAt,
		img.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert staged image: %w", err)
	}

	return nil
}

// StagedImage returns a live (not yet expired at now) image.
func (r *Repository) StagedImage(ctx context.Context, id uuid.UUID, now time.Time) (entity.StagedImage, error) {
	q := selectStaged + " WHERE id = $1 AND expires_at > $2"

	return scanStaged(r.db.QueryRow(ctx, q, id, now))
}

// StagedImages lists live images of one wizard request, oldest first.
func (r *Repository) StagedImages(ctx context.Context, f entity.StagedImageFilter, now time.Time) ([]entity.StagedImage, error) {
	stmt := sq.Select(stagedColumns...).
		From("staged_images").
		Where(sq.Gt{"expires_at": now}).
		OrderBy("created_at ASC").
		PlaceholderFormat(sq.Dollar)

	stmt = applyStagedFilter(stmt, f)

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []entity.StagedImage

	for rows.Next() {
		img, err := scanStaged(rows)
		if err != nil {
			return nil, err
		}

		images = append(images, img)
	}

	return images, rows.Err()
}

func (r *Repository) DeleteStagedImage(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM staged_images WHERE id = $1`

	result, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// DeleteExpiredStagedImages removes every row whose expires_at is not after now.
func (r *Repository) DeleteExpiredStagedImages(ctx context.Context, now time.Time) (int64, error) {
	const q = `DELETE FROM staged_images WHERE expires_at <= $1`

	result, err := r.db.Exec(ctx, q, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected(), nil
}

func applyStagedFilter(stmt sq.SelectBuilder, f entity.StagedImageFilter) sq.SelectBuilder {
	if f.RequestID != "" {
		stmt = stmt.Where(sq.Eq{"request_id": f.RequestID})
	}

	if f.CreatedBy != 0 {
		stmt = stmt.Where(sq.Eq{"created_by": f.CreatedBy})
	}

	if f.Limit > 0 {
		stmt = stmt.Limit(f.Limit)
	}

	return stmt
}

func scanStaged(row pgx.Row) (img entity.StagedImage, err error) {
	err = row.Scan(
		&img.ID,
		&img.RequestID,
		&img.ContentType,
		&img.Checksum,
		&img.Size,
		&img.Data,
		&img.CreatedBy,
		&img.CreatedAt,
		&img.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.StagedImage{}, entity.ErrNotFound
		}

		return entity.StagedImage{}, err
	}

	return img, nil
}
