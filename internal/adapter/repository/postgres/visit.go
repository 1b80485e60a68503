package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortlink/internal/entity"
)

type visitDB struct {
	ID        string         `db:"id"`
	LinkID    string         `db:"link_id"`
	IPAddress sql.NullString `db:"ip_address"`
	UserAgent sql.NullString `db:"user_agent"`
	VisitedAt time.Time      `db:"visited_at"`
}

func (v *visitDB) toEntity() entity.Visit {
	return entity.Visit{
		ID:        v.ID,
		LinkID:    v.LinkID,
		IP:        v.IPAddress.String,
		UserAgent: v.UserAgent.String,
		VisitedAt: v.VisitedAt,
	}
}

type VisitRepository struct {
	db *sqlx.DB
}

func NewVisitRepository(db *sqlx.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) Save(ctx context.Context, visit *entity.Visit) (*entity.Visit, error) {
	const op = "adapter.repository.postgres.VisitRepository.Save"
	const query = `INSERT INTO visits(id, link_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4) RETURNING *`

	var v visitDB

	err := r.db.GetContext(ctx, &v, query,
		visit.ID,
		visit.LinkID,
		nullString(visit.IP),
		nullString(visit.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to insert into visits table: %w", op, err)
	}

	saved := v.toEntity()
	return &saved, nil
}

// ListByOwner returns the visits of every link owned by userID, newest first.
func (r *VisitRepository) ListByOwner(ctx context.Context, userID string) ([]entity.Visit, error) {
	const op = "adapter.repository.postgres.VisitRepository.ListByOwner"
	const query = `SELECT v.* FROM visits v
		JOIN links l ON l.id = v.link_id
		WHERE l.user_id = $1
		ORDER BY v.visited_at DESC`

	var rows []visitDB

	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("%s: failed to select from visits table: %w", op, err)
	}

	visits := make([]entity.Visit, 0, len(rows))
	for i := range rows {
		visits = append(visits, rows[i].toEntity())
	}

	return visits, nil
}
