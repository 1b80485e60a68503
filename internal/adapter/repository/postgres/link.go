package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type linkDB struct {
	ID          string         `db:"id"`
	OriginalURL string         `db:"original_url"`
	Slug        string         `db:"slug"`
	CustomSlug  sql.NullString `db:"custom_slug"`
	UserID      sql.NullString `db:"user_id"`
	VisitCount  int64          `db:"visit_count"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (l *linkDB) toEntity() *entity.Link {
	return &entity.Link{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		Slug:        l.Slug,
		CustomSlug:  l.CustomSlug.String,
		UserID:      l.UserID.String,
		VisitCount:  l.VisitCount,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Save(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.Save"
	// The column constraints only keep each slug column unique on its own,
	// so the guard rejects a slug already used in the other column.
	const query = `INSERT INTO links(id, original_url, slug, custom_slug, user_id)
		SELECT $1::uuid, $2::text, $3, $4, $5::uuid
		WHERE NOT EXISTS (SELECT 1 FROM links WHERE custom_slug = $3 OR slug = $4)
		RETURNING *`

	var l linkDB

	err := r.db.GetContext(ctx, &l, query,
		link.ID,
		link.OriginalURL,
		link.Slug,
		nullString(link.CustomSlug),
		nullString(link.UserID),
	)
	if err != nil {
		if isUniqueViolationError(err) || errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugTaken)
		}

		return nil, fmt.Errorf("%s: failed to insert into links table: %w", op, err)
	}

	return l.toEntity(), nil
}

// SlugExists reports whether slug is used as a generated or custom slug by
// any link other than excludeID. An empty excludeID checks all links.
func (r *LinkRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	const op = "adapter.repository.postgres.LinkRepository.SlugExists"
	const query = `SELECT EXISTS(
		SELECT 1 FROM links WHERE (slug = $1 OR custom_slug = $1) AND id::text <> $2
	)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, slug, excludeID); err != nil {
		return false, fmt.Errorf("%s: failed to query links table: %w", op, err)
	}

	return exists, nil
}

func (r *LinkRepository) RetrieveAndCountVisit(ctx context.Context, slug string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveAndCountVisit"
	const query = `UPDATE links SET visit_count = visit_count + 1
		WHERE slug = $1 OR custom_slug = $1 RETURNING *`

	var l linkDB

	if err := r.db.GetContext(ctx, &l, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get and update links table row: %w", op, err)
	}

	return l.toEntity(), nil
}

func (r *LinkRepository) RetrieveByOwner(ctx context.Context, id, userID string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.RetrieveByOwner"
	const query = `SELECT * FROM links WHERE id = $1 AND user_id = $2`

	var l linkDB

	if err := r.db.GetContext(ctx, &l, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from links table: %w", op, err)
	}

	return l.toEntity(), nil
}

func (r *LinkRepository) ListByOwner(ctx context.Context, userID string) ([]*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.ListByOwner"
	const query = `SELECT * FROM links WHERE user_id = $1 ORDER BY created_at DESC`

	var rows []linkDB

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("%s: failed to select from links table: %w", op, err)
	}

	links := make([]*entity.Link, 0, len(rows))
	for i := range rows {
		links = append(links, rows[i].toEntity())
	}

	return links, nil
}

func (r *LinkRepository) UpdateCustomSlug(ctx context.Context, id, userID, customSlug string) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.UpdateCustomSlug"
	const query = `UPDATE links SET custom_slug = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 RETURNING *`

	var l linkDB

	if err := r.db.GetContext(ctx, &l, query, customSlug, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrSlugTaken)
		}

		return nil, fmt.Errorf("%s: failed to update links table row: %w", op, err)
	}

	return l.toEntity(), nil
}

// Remove deletes the link owned by userID and its visits in one transaction.
func (r *LinkRepository) Remove(ctx context.Context, id, userID string) (err error) {
	const op = "adapter.repository.postgres.LinkRepository.Remove"
	const (
		deleteVisits = `DELETE FROM visits WHERE link_id IN (SELECT id FROM links WHERE id = $1 AND user_id = $2)`
		deleteLink   = `DELETE FROM links WHERE id = $1 AND user_id = $2`
	)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteVisits, id, userID); err != nil {
		return fmt.Errorf("%s: failed to delete from visits table: %w", op, err)
	}

	res, err := tx.ExecContext(ctx, deleteLink, id, userID)
	if err != nil {
		return fmt.Errorf("%s: failed to delete from links table: %w", op, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get number of affected rows: %w", op, err)
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}
