package employee

import (
	"errors"
	"fmt"
)

// 呼び出し側へ返すエラー種別です。個別のエラーはいずれかをラップします。
var (
	ErrNotFound     = errors.New("employee: not found")
	ErrForbidden    = errors.New("employee: forbidden")
	ErrInvalidType  = errors.New("employee: invalid type")
	ErrInvalidInput = errors.New("employee: invalid input")
)

var (
	ErrEmployeeNotFound = fmt.Errorf("%w: no such employee", ErrNotFound)
	ErrNoEmployees      = fmt.Errorf("%w: no employee records found", ErrNotFound)
	ErrNotEmployer      = fmt.Errorf("%w: cannot access an employee you did not employ", ErrNotFound)
	ErrNotOwner         = fmt.Errorf("%w: cannot alter an employee you did not employ", ErrForbidden)
	ErrNotTransferable  = fmt.Errorf("%w: employee is not transferable", ErrForbidden)
	ErrInvalidRating    = fmt.Errorf("%w: rating must be one of excellent, good, average, satisfactory, poor", ErrInvalidType)
	ErrInvalidName      = fmt.Errorf("%w: name is required", ErrInvalidInput)
	ErrInvalidEmail     = fmt.Errorf("%w: email is required", ErrInvalidInput)
	ErrInvalidCaller    = fmt.Errorf("%w: caller principal is required", ErrInvalidInput)
)
