package profile

import "errors"

var (
	// ErrProfileNotFound はプロフィールが存在しない場合に返却されます。
	ErrProfileNotFound = errors.New("profile: not found")
	// ErrEmailAlreadyExists は別の利用者が同じメールアドレスを使っている場合に返却されます。
	ErrEmailAlreadyExists = errors.New("profile: email already exists")
	// ErrInvalidEmail はメールアドレスが不正な場合に返却されます。
	ErrInvalidEmail = errors.New("profile: invalid email")
	// ErrInvalidDisplayName は表示名が長すぎる場合に返却されます。
	ErrInvalidDisplayName = errors.New("profile: invalid display name")
	// ErrInvalidUserID は利用者 ID が UUID でない場合に返却されます。
	ErrInvalidUserID = errors.New("profile: invalid user id")
)
