package middleware

import (
	"context"
	"net/http"
	"strings"

	"prize_wheel/internal/model"
	"prize_wheel/pkg/resp"
	"prize_wheel/pkg/token"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// Auth проверяет Bearer access token и кладет пользователя в контекст
func Auth(secretKey []byte, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				resp.WriteError(w, http.StatusUnauthorized, model.ErrUnauthorized.Error())
				return
			}

			claims, err := token.VerifyToken(raw, secretKey)
			if err != nil {
				logger.Debug().Err(err).Msg("access token rejected")
				resp.WriteError(w, http.StatusUnauthorized, model.ErrUnauthorized.Error())
				return
			}

			user, err := token.UserFromClaims(claims)
			if err != nil {
				logger.Debug().Err(err).Msg("access token rejected")
				resp.WriteError(w, http.StatusUnauthorized, model.ErrUnauthorized.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext пользователь, которого положил Auth
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(model.User)
	return user, ok
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
