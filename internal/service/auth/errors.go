package auth

import (
	"errors"
	"fmt"
)

// Reason причина ошибки аутентификации
type Reason string

const (
	ReasonInvalidCredentials Reason = "invalid_credentials"
	ReasonDuplicateAccount   Reason = "duplicate_account"
	ReasonNetwork            Reason = "network"
	ReasonSessionExpired     Reason = "session_expired"
)

// ErrAuth общий sentinel, errors.Is(err, ErrAuth) для любой AuthError
var ErrAuth = errors.New("auth error")

// AuthError ошибка провайдера аутентификации
type AuthError struct {
	Reason Reason
	Err    error
}

func newAuthError(reason Reason, err error) *AuthError {
	return &AuthError{Reason: reason, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", ErrAuth, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %v", ErrAuth, e.Reason, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// ReasonOf возвращает причину AuthError в цепочке
func ReasonOf(err error) (Reason, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Reason, true
	}
	return "", false
}
