package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kurochkinivan/video_uploader/internal/domain"
)

type accountKey struct{}

var errMissingSubject = errors.New("token has no subject")

// Authenticate accepts HS256 bearer tokens and puts their subject into the
// request context as the account id.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			accountID, err := subject(raw, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccountID(r.Context(), accountID)))
		})
	}
}

func subject(raw string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", errMissingSubject
	}

	if !domain.ValidAccountID(claims.Subject) {
		return "", domain.ErrInvalidAccount
	}

	return claims.Subject, nil
}

func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountKey{}, accountID)
}

func AccountID(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(accountKey{}).(string)
	return accountID, ok && accountID != ""
}
