package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/jackisa-office/internal/core/company"
	pgdb "github.com/ogurasousui/jackisa-office/internal/platform/db/postgres"
)

const companyColumns = `id, name, code, status, country, currency, description, created_at, updated_at`

// CompanyRepository は PostgreSQL を利用した会社永続化の実装です。
type CompanyRepository struct {
	pool pgdb.Queryer
}

// NewCompanyRepository は CompanyRepository を生成します。
func NewCompanyRepository(pool pgdb.Queryer) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

// Create は会社を新規作成します。
func (r *CompanyRepository) Create(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO companies (name, code, status, country, currency, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+companyColumns,
		c.Name, c.Code, string(c.Status), c.Country, c.Currency, nullableString(c.Description), c.CreatedAt, c.UpdatedAt)

	created, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return created, nil
}

// Update は会社情報を更新します。
func (r *CompanyRepository) Update(ctx context.Context, c *company.Company) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE companies
           SET name = $1,
               code = $2,
               status = $3,
               country = $4,
               currency = $5,
               description = $6,
               updated_at = $7
         WHERE id = $8
        RETURNING `+companyColumns,
		c.Name, c.Code, string(c.Status), c.Country, c.Currency, nullableString(c.Description), c.UpdatedAt, c.ID)

	updated, err := scanCompany(row)
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return updated, nil
}

// Delete は会社を削除します。所属が残っている場合は外部キー制約で失敗します。
func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return translateCompanyPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// FindByID は ID で会社を取得します。
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*company.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// FindByCode はコードで会社を取得します。
func (r *CompanyRepository) FindByCode(ctx context.Context, code string) (*company.Company, error) {
	return r.findOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE code = $1`, code)
}

func (r *CompanyRepository) findOne(ctx context.Context, query string, arg any) (*company.Company, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanCompany(exec.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, translateCompanyPgError(err)
	}
	return found, nil
}

// List は会社の一覧を作成日時の降順で取得します。
func (r *CompanyRepository) List(ctx context.Context, filter company.ListCompaniesFilter) ([]*company.Company, string, error) {
	if err := validatePage(filter.Page); err != nil {
		return nil, "", err
	}

	var (
		args       queryArgs
		conditions []string
	)
	if filter.Status != nil {
		conditions = append(conditions, "status = "+args.add(string(*filter.Status)))
	}
	if filter.Country != nil {
		conditions = append(conditions, "country = "+args.add(*filter.Country))
	}
	limit := args.add(filter.Page.Limit + 1)
	offset := args.add(filter.Page.Offset)

	query := `SELECT ` + companyColumns + ` FROM companies` + whereClause(conditions) +
		` ORDER BY created_at DESC, id DESC LIMIT ` + limit + ` OFFSET ` + offset

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args.values...)
	if err != nil {
		return nil, "", translateCompanyPgError(err)
	}
	defer rows.Close()

	companies := make([]*company.Company, 0, filter.Page.Limit+1)
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, "", translateCompanyPgError(err)
		}
		companies = append(companies, found)
	}
	if err := rows.Err(); err != nil {
		return nil, "", translateCompanyPgError(err)
	}

	companies, next := trimPage(companies, filter.Page)
	return companies, next, nil
}

func scanCompany(row pgx.Row) (*company.Company, error) {
	var (
		c           company.Company
		status      string
		description sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
	)

	if err := row.Scan(&c.ID, &c.Name, &c.Code, &status, &c.Country, &c.Currency, &description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, company.ErrCompanyNotFound
		}
		return nil, err
	}

	c.Status = company.Status(status)
	c.CreatedAt = createdAt.UTC()
	c.UpdatedAt = updatedAt.UTC()
	if description.Valid {
		desc := description.String
		c.Description = &desc
	}
	return &c, nil
}

func translateCompanyPgError(err error) error {
	pgErr, ok := asPgError(err)
	if !ok {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return company.ErrCodeAlreadyExists
	case foreignKeyViolationCode:
		return company.ErrCompanyInUse
	case checkViolationCode:
		switch pgErr.ConstraintName {
		case "companies_country_check":
			return company.ErrInvalidCountry
		case "companies_currency_check":
			return company.ErrInvalidCurrency
		case "companies_status_check":
			return company.ErrInvalidStatus
		}
	}
	return err
}
