package bridge

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedMethod = errors.New("unsupported method")

	// ErrCallerCanceled: вызывающий сам отменил запрос или исчерпал свой дедлайн.
	// Это не сбой upstream, предохранитель его не считает.
	ErrCallerCanceled = errors.New("request canceled by caller")
)

// UnreachableError — upstream недоступен: сетевой сбой или открытый предохранитель.
type UnreachableError struct {
	URL   string
	Cause error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("cannot reach %s (cause: %v)", e.URL, e.Cause)
}

func (e *UnreachableError) Unwrap() error {
	return e.Cause
}
