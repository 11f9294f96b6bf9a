// AngelaMos | 2026
// repository.go

package company

import (
	"context"
	"fmt"

	"github.com/bythepixel/propixel/internal/core"
)

type Repository interface {
	Create(ctx context.Context, params Params) (*Company, error)
	GetByID(ctx context.Context, id int64) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Update(ctx context.Context, id int64, params Params) (*Company, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

const companyColumns = `
	id, name, slug, website, industry, phone, email, address1, address2,
	city, state, postal_code, country, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func profileArgs(p Profile) []any {
	return []any{
		p.Website, p.Industry, p.Phone, p.Email, p.Address1,
		p.Address2, p.City, p.State, p.PostalCode, p.Country,
	}
}

func (r *repository) Create(ctx context.Context, params Params) (*Company, error) {
	query := `
		INSERT INTO companies (
			name, slug, website, industry, phone, email, address1,
			address2, city, state, postal_code, country
		) VALUES (
			$1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''),
			NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''),
			NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, '')
		)
		RETURNING ` + companyColumns

	args := append([]any{params.Name, params.Slug}, profileArgs(params.Profile)...)

	var c Company
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		return nil, fmt.Errorf("create company: %w", core.TranslateError(err))
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	var c Company
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("get company: %w", core.TranslateError(err))
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY created_at DESC, id DESC`

	companies := []Company{}
	if err := r.db.SelectContext(ctx, &companies, query); err != nil {
		return nil, fmt.Errorf("list companies: %w", core.TranslateError(err))
	}

	return companies, nil
}

// Update keeps a profile column when its argument is NULL and clears it when
// the argument is an empty string.
func (r *repository) Update(
	ctx context.Context,
	id int64,
	params Params,
) (*Company, error) {
	query := `
		UPDATE companies
		SET name = $2,
		    slug = $3,
		    website = CASE WHEN $4::text IS NULL THEN website ELSE NULLIF($4, '') END,
		    industry = CASE WHEN $5::text IS NULL THEN industry ELSE NULLIF($5, '') END,
		    phone = CASE WHEN $6::text IS NULL THEN phone ELSE NULLIF($6, '') END,
		    email = CASE WHEN $7::text IS NULL THEN email ELSE NULLIF($7, '') END,
		    address1 = CASE WHEN $8::text IS NULL THEN address1 ELSE NULLIF($8, '') END,
		    address2 = CASE WHEN $9::text IS NULL THEN address2 ELSE NULLIF($9, '') END,
		    city = CASE WHEN $10::text IS NULL THEN city ELSE NULLIF($10, '') END,
		    state = CASE WHEN $11::text IS NULL THEN state ELSE NULLIF($11, '') END,
		    postal_code = CASE WHEN $12::text IS NULL THEN postal_code ELSE NULLIF($12, '') END,
		    country = CASE WHEN $13::text IS NULL THEN country ELSE NULLIF($13, '') END,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + companyColumns

	args := append([]any{id, params.Name, params.Slug}, profileArgs(params.Profile)...)

	var c Company
	if err := r.db.GetContext(ctx, &c, query, args...); err != nil {
		return nil, fmt.Errorf("update company: %w", core.TranslateError(err))
	}

	return &c, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", core.TranslateError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete company: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM companies`); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}
