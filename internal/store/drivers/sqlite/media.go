package sqlite

import (
	"context"
	"time"

	"github.com/trimline/seatcase/internal/domain"
)

type mediaRepo struct {
	q dbtx
}

func (r *mediaRepo) CreateMedia(ctx context.Context, m domain.Media) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO media (id, case_id, kind, type, url, poster_url, sort_order, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CaseID, string(m.Kind), string(m.Type), m.URL, m.PosterURL,
		m.SortOrder, formatTime(time.Now()))
	return mapConflict(err)
}

func (r *mediaRepo) ListMediaByCase(ctx context.Context, caseID string) ([]domain.Media, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, case_id, kind, type, url, poster_url, sort_order, created_at
		 FROM media WHERE case_id = ? ORDER BY sort_order ASC, id ASC`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Media
	for rows.Next() {
		var m domain.Media
		var kind, typ, createdAt string
		err := rows.Scan(&m.ID, &m.CaseID, &kind, &typ, &m.URL, &m.PosterURL,
			&m.SortOrder, &createdAt)
		if err != nil {
			return nil, err
		}
		m.Kind = domain.MediaKind(kind)
		m.Type = domain.MediaType(typ)
		m.CreatedAt = parseTime(createdAt)
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *mediaRepo) DeleteMediaByCase(ctx context.Context, caseID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM media WHERE case_id = ?`, caseID)
	return err
}
