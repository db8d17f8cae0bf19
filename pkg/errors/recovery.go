package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError は recover したパニックをエラーとして表す。
// gonum の mat パッケージは形状エラーを panic で通知するため、公開APIの入口で変換する。
type PanicError struct {
	PanicValue interface{}
	StackTrace string
	Operation  string // パニックを回収した操作名
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("polyfit: panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap はパニック値自体が error の場合にそれを返す
func (e *PanicError) Unwrap() error {
	if err, ok := e.PanicValue.(error); ok {
		return err
	}
	return nil
}

// String はスタックトレースを含む詳細を返す
func (e *PanicError) String() string {
	return fmt.Sprintf("%s\nStack trace:\n%s", e.Error(), e.StackTrace)
}

// NewPanicError は現在のスタックを記録したPanicErrorを作る
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover は defer で使い、パニックを *err に変換する。
//
//	func (f Fitter) Fit(x, t []float64, m int) (res Result, err error) {
//	    defer errors.Recover(&err, "polynomial.Fit")
//	    ...
//	}
//
// 既にエラーが設定されている場合はそれを包む。
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = fmt.Errorf("polyfit: panic in %s: %v (original error: %w)", operation, r, *err)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute は fn を実行し、パニックをエラーとして返す
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
