package shared

import (
	"errors"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

var (
	// ErrInvalidPageSize は一覧取得時のページサイズが上限を超える場合に返却されます。
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("invalid page token")
)

// Page は一覧取得の件数と開始位置です。
type Page struct {
	Limit  int
	Offset int
}

// ParsePage はページサイズとページトークンを検証します。0 以下のページサイズは既定値になります。
func ParsePage(pageSize int, token string) (Page, error) {
	limit := pageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		return Page{}, ErrInvalidPageSize
	}

	offset := 0
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		parsed, err := strconv.Atoi(trimmed)
		if err != nil || parsed < 0 {
			return Page{}, ErrInvalidPageToken
		}
		offset = parsed
	}

	return Page{Limit: limit, Offset: offset}, nil
}

// NextPageToken は limit+1 件取得した結果から次ページのトークンを求めます。
// fetched が limit 以下であれば空文字を返します。
func NextPageToken(page Page, fetched int) string {
	if fetched <= page.Limit {
		return ""
	}
	return strconv.Itoa(page.Offset + page.Limit)
}
