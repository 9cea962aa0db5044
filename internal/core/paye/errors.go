package paye

import "errors"

var (
	// ErrInvalidGrossSalary は総支給額が負、NaN、または無限大の場合に返却されます。
	ErrInvalidGrossSalary = errors.New("paye: invalid gross salary")
	// ErrInvalidContributionRate は社会保険料率が [0, 1) の範囲外の場合に返却されます。
	ErrInvalidContributionRate = errors.New("paye: invalid contribution rate")
	// ErrInvalidSchedule は税率表が連続性などの条件を満たさない場合に返却されます。
	ErrInvalidSchedule = errors.New("paye: invalid tax band schedule")
)
