package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/MediTime-BookingService/internal/api/handlers"
	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/auth"
)

const (
	msgMissingToken   = "Bitte melden Sie sich an"
	msgSessionExpired = "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an"
	msgInvalidToken   = "Ungültige Anmeldedaten"
	msgAuthNetwork    = "Verbindungsproblem. Bitte versuchen Sie es erneut"
)

// Authenticator проверяет bearer-токен
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth требует Authorization: Bearer и кладет Principal в контекст
func Auth(authenticator Authenticator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				handlers.RespondErrorCode(w, http.StatusUnauthorized, string(auth.ReasonInvalidCredentials), msgMissingToken)
				return
			}

			principal, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				reason, _ := auth.ReasonOf(err)
				switch reason {
				case auth.ReasonSessionExpired:
					handlers.RespondErrorCode(w, http.StatusUnauthorized, string(reason), msgSessionExpired)
				case auth.ReasonNetwork:
					logger.Error("%s %s - Authentication backend error: %v", r.Method, r.URL.Path, err)
					handlers.RespondErrorCode(w, http.StatusServiceUnavailable, string(reason), msgAuthNetwork)
				default:
					logger.Warn("%s %s - Invalid token: %v", r.Method, r.URL.Path, err)
					handlers.RespondErrorCode(w, http.StatusUnauthorized, string(auth.ReasonInvalidCredentials), msgInvalidToken)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// BearerToken токен из заголовка Authorization
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
