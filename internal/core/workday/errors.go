package workday

import "errors"

var (
	// ErrInvalidRange は終了日が開始日より前の場合に返却されます。
	ErrInvalidRange = errors.New("workday: end date before start date")
	// ErrOffsetOutOfRange は稼働日数の加算幅または結果の日付が扱える範囲を超えた場合に返却されます。
	ErrOffsetOutOfRange = errors.New("workday: working day offset out of range")
	// ErrNoWorkingDays は週末の指定で稼働日がなくなる場合に返却されます。
	ErrNoWorkingDays = errors.New("workday: calendar has no working days")
)
