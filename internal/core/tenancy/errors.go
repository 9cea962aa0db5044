package tenancy

import "errors"

var (
	// ErrUnauthenticated は認証済みの利用者が存在しない場合に返却されます。
	ErrUnauthenticated = errors.New("tenancy: unauthenticated")
	// ErrNoPrincipal は IdentityProvider が利用者を特定できない場合に返却します。
	ErrNoPrincipal = errors.New("tenancy: no principal")
	// ErrProfileNotFound は Store がプロフィールを持たない場合に返却します。
	ErrProfileNotFound = errors.New("tenancy: profile not found")
	// ErrPreferenceNotFound は Store が会社の選択を持たない場合に返却します。
	ErrPreferenceNotFound = errors.New("tenancy: preferred company not found")
	// ErrStoreUnavailable は Store の読み書きに失敗した場合に返却されます。
	ErrStoreUnavailable = errors.New("tenancy: store unavailable")
	// ErrInvalidCompanyID は会社 ID が UUID でない場合に返却されます。
	ErrInvalidCompanyID = errors.New("tenancy: invalid company id")
	// ErrNotAMember は利用者が対象の会社に所属していない場合に返却されます。
	ErrNotAMember = errors.New("tenancy: not a member of company")
)
