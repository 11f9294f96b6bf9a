// AngelaMos | 2026
// repository.go

package proposal

import (
	"context"
	"fmt"

	"github.com/bythepixel/propixel/internal/core"
)

type Repository interface {
	Create(ctx context.Context, params Params) (*Proposal, error)
	GetByID(ctx context.Context, id int64) (*Proposal, error)
	List(ctx context.Context) ([]Proposal, error)
	Update(ctx context.Context, id int64, params Params) (*Proposal, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// enriched selects a proposal row from relation p with its optional company
// and client summaries.
const enriched = `
	SELECT p.id, p.title, p.slug, p.company_id, p.client_id,
	       p.created_at, p.updated_at,
	       co.name AS company_name, co.slug AS company_slug,
	       cl.first_name AS client_first_name, cl.last_name AS client_last_name`

const joins = `
	LEFT JOIN companies co ON co.id = p.company_id
	LEFT JOIN clients cl ON cl.id = p.client_id`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, params Params) (*Proposal, error) {
	query := `
		WITH p AS (
			INSERT INTO proposals (title, slug, company_id, client_id)
			VALUES ($1, $2, $3, $4)
			RETURNING *
		)` + enriched + `
		FROM p` + joins

	var p Proposal
	err := r.db.GetContext(ctx, &p, query,
		params.Title,
		params.Slug,
		params.CompanyID,
		params.ClientID,
	)
	if err != nil {
		return nil, fmt.Errorf("create proposal: %w", core.TranslateError(err))
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Proposal, error) {
	query := enriched + `
		FROM proposals p` + joins + `
		WHERE p.id = $1`

	var p Proposal
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, fmt.Errorf("get proposal: %w", core.TranslateError(err))
	}

	return &p, nil
}

func (r *repository) List(ctx context.Context) ([]Proposal, error) {
	query := enriched + `
		FROM proposals p` + joins + `
		ORDER BY p.id DESC`

	proposals := []Proposal{}
	if err := r.db.SelectContext(ctx, &proposals, query); err != nil {
		return nil, fmt.Errorf("list proposals: %w", core.TranslateError(err))
	}

	return proposals, nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	params Params,
) (*Proposal, error) {
	query := `
		WITH p AS (
			UPDATE proposals
			SET title = $2,
			    slug = $3,
			    company_id = $4,
			    client_id = $5,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)` + enriched + `
		FROM p` + joins

	var p Proposal
	err := r.db.GetContext(ctx, &p, query,
		id,
		params.Title,
		params.Slug,
		params.CompanyID,
		params.ClientID,
	)
	if err != nil {
		return nil, fmt.Errorf("update proposal: %w", core.TranslateError(err))
	}

	return &p, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete proposal: %w", core.TranslateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete proposal: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete proposal: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM proposals`); err != nil {
		return 0, fmt.Errorf("count proposals: %w", err)
	}
	return n, nil
}
