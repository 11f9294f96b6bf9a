// AngelaMos | 2026
// repository.go

package client

import (
	"context"
	"fmt"

	"github.com/bythepixel/propixel/internal/core"
)

type Repository interface {
	Create(ctx context.Context, params Params) (*Client, error)
	GetByID(ctx context.Context, id int64) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, id int64, params Params) (*Client, error)
	Delete(ctx context.Context, id int64) error
	CompanyIDForClient(ctx context.Context, id int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// enriched selects a client row from relation c joined to its company.
const enriched = `
	SELECT c.id, c.company_id, c.first_name, c.last_name, c.email, c.phone,
	       c.title, c.created_at, c.updated_at,
	       co.name AS company_name, co.slug AS company_slug`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, params Params) (*Client, error) {
	query := `
		WITH c AS (
			INSERT INTO clients (company_id, first_name, last_name, email, phone, title)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''))
			RETURNING *
		)` + enriched + `
		FROM c
		JOIN companies co ON co.id = c.company_id`

	var c Client
	err := r.db.GetContext(ctx, &c, query,
		params.CompanyID,
		params.FirstName,
		params.LastName,
		params.Email,
		params.Phone,
		params.Title,
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", core.TranslateError(err))
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Client, error) {
	query := enriched + `
		FROM clients c
		JOIN companies co ON co.id = c.company_id
		WHERE c.id = $1`

	var c Client
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("get client: %w", core.TranslateError(err))
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Client, error) {
	query := enriched + `
		FROM clients c
		JOIN companies co ON co.id = c.company_id
		ORDER BY c.created_at DESC, c.id DESC`

	clients := []Client{}
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("list clients: %w", core.TranslateError(err))
	}

	return clients, nil
}

func (r *repository) Update(
	ctx context.Context,
	id int64,
	params Params,
) (*Client, error) {
	query := `
		WITH c AS (
			UPDATE clients
			SET company_id = $2,
			    first_name = $3,
			    last_name = $4,
			    email = CASE WHEN $5::text IS NULL THEN email ELSE NULLIF($5, '') END,
			    phone = CASE WHEN $6::text IS NULL THEN phone ELSE NULLIF($6, '') END,
			    title = CASE WHEN $7::text IS NULL THEN title ELSE NULLIF($7, '') END,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)` + enriched + `
		FROM c
		JOIN companies co ON co.id = c.company_id`

	var c Client
	err := r.db.GetContext(ctx, &c, query,
		id,
		params.CompanyID,
		params.FirstName,
		params.LastName,
		params.Email,
		params.Phone,
		params.Title,
	)
	if err != nil {
		return nil, fmt.Errorf("update client: %w", core.TranslateError(err))
	}

	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", core.TranslateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete client: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CompanyIDForClient(ctx context.Context, id int64) (int64, error) {
	var companyID int64
	err := r.db.GetContext(ctx, &companyID, `SELECT company_id FROM clients WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("client company: %w", core.TranslateError(err))
	}
	return companyID, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM clients`); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}
