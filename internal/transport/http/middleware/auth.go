package httpmw

import (
	"context"
	"net/http"

	"github.com/mobmart/storefront/internal/security"
)

// Имя cookie с токеном — историческое, клиент на него завязан.
const TokenCookie = "userCookie"

type ctxKey string

const ctxKeyUserID ctxKey = "user_id"

// AuthMiddleware достаёт JWT из cookie и кладёт userID в контекст.
func AuthMiddleware(signer *security.JWTSigner) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				http.Error(w, `{"message":"missing auth cookie"}`, http.StatusUnauthorized)
				return
			}

			claims, err := signer.ParseAndValidate(cookie.Value)
			if err != nil {
				http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
				return
			}
			uid, err := security.SubjectAsUserID(claims)
			if err != nil {
				http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUserID, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromCtx(ctx context.Context) int64 {
	if v := ctx.Value(ctxKeyUserID); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
