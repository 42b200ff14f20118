package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/trimline/seatcase/internal/domain"
)

type casesRepo struct {
	q dbtx
}

const caseColumns = `id, title, brand, model, year_start, year_end, sku, published, created_at, updated_at`

func scanCase(row interface{ Scan(...any) error }) (domain.Case, error) {
	var c domain.Case
	var published int
	var createdAt, updatedAt string
	err := row.Scan(&c.ID, &c.Title, &c.Brand, &c.Model, &c.YearStart, &c.YearEnd,
		&c.SKU, &published, &createdAt, &updatedAt)
	if err != nil {
		return domain.Case{}, err
	}
	c.Published = published != 0
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

func (r *casesRepo) GetCaseByID(ctx context.Context, id string) (domain.Case, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if err != nil {
		return domain.Case{}, mapNotFound(err)
	}

	media, err := (&mediaRepo{q: r.q}).ListMediaByCase(ctx, c.ID)
	if err != nil {
		return domain.Case{}, err
	}
	c.Media = media
	return c, nil
}

func (r *casesRepo) ListCases(ctx context.Context, publishedOnly bool) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	media := &mediaRepo{q: r.q}
	for i := range cases {
		m, err := media.ListMediaByCase(ctx, cases[i].ID)
		if err != nil {
			return nil, err
		}
		cases[i].Media = m
	}
	return cases, nil
}

func (r *casesRepo) CreateCase(ctx context.Context, c domain.Case) error {
	now := formatTime(time.Now())
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO cases (id, title, brand, model, year_start, year_end, sku, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Brand, c.Model, c.YearStart, c.YearEnd, c.SKU,
		boolToInt(c.Published), now, now)
	return mapConflict(err)
}

func (r *casesRepo) UpdateCase(ctx context.Context, id string, patch domain.CasePatch) error {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 9)

	appendSet := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.Brand != nil {
		appendSet("brand", *patch.Brand)
	}
	if patch.Model != nil {
		appendSet("model", *patch.Model)
	}
	if patch.YearStart != nil {
		appendSet("year_start", *patch.YearStart)
	}
	if patch.YearEnd != nil {
		appendSet("year_end", *patch.YearEnd)
	}
	if patch.SKU != nil {
		appendSet("sku", *patch.SKU)
	}
	if patch.Published != nil {
		appendSet("published", boolToInt(*patch.Published))
	}

	appendSet("updated_at", formatTime(time.Now()))
	args = append(args, id)

	res, err := r.q.ExecContext(ctx,
		`UPDATE cases SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *casesRepo) DeleteCase(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
