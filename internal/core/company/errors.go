package company

import (
	"errors"

	"github.com/ogurasousui/jackisa-office/internal/core/shared"
)

var (
	// ErrCompanyNotFound は会社が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company: not found")
	// ErrCodeAlreadyExists はコード重複時に返却されます。
	ErrCodeAlreadyExists = errors.New("company: code already exists")
	// ErrInvalidName は会社名が不正な場合に返却されます。
	ErrInvalidName = errors.New("company: invalid name")
	// ErrInvalidCode は会社コードが不正な場合に返却されます。
	ErrInvalidCode = errors.New("company: invalid code")
	// ErrInvalidStatus はステータスが不正な場合に返却されます。
	ErrInvalidStatus = errors.New("company: invalid status")
	// ErrInvalidID は ID が UUID でない場合に返却されます。
	ErrInvalidID = errors.New("company: invalid id")
	// ErrInvalidCountry は国コードが ISO 3166-1 alpha-2 形式でない場合に返却されます。
	ErrInvalidCountry = errors.New("company: invalid country")
	// ErrInvalidCurrency は通貨コードが ISO 4217 形式でない場合に返却されます。
	ErrInvalidCurrency = errors.New("company: invalid currency")
	// ErrCompanyInUse は所属が残っている会社を削除しようとした場合に返却されます。
	ErrCompanyInUse = errors.New("company: still has members")

	ErrInvalidPageSize  = shared.ErrInvalidPageSize
	ErrInvalidPageToken = shared.ErrInvalidPageToken
)
