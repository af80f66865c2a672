package bridge

import (
	"fmt"
	"strings"
)

// Method — закрытый набор HTTP-методов, которые bridge умеет проксировать.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
)

// ParseMethod нормализует имя метода. Все прочее — ErrUnsupportedMethod.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodGet, MethodPost, MethodDelete:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMethod, s)
	}
}

// hasBody: тело отправляется только с POST
func (m Method) hasBody() bool {
	return m == MethodPost
}
