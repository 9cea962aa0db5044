package postgres

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
)

// queryArgs はプレースホルダ番号と引数を対応させて組み立てます。
type queryArgs struct {
	values []any
}

func (a *queryArgs) add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func validatePage(page shared.Page) error {
	if page.Limit <= 0 {
		return shared.ErrInvalidPageSize
	}
	if page.Offset < 0 {
		return shared.ErrInvalidPageToken
	}
	return nil
}

// trimPage は limit+1 件取得した結果を limit 件に切り詰め、次ページのトークンを返します。
func trimPage[T any](items []T, page shared.Page) ([]T, string) {
	token := shared.NextPageToken(page, len(items))
	if len(items) > page.Limit {
		items = items[:page.Limit]
	}
	return items, token
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func nullableString(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
