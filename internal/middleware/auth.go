package middleware

import (
	"net/http"
	"strings"

	"github.com/hospital/internal/logger"
	"github.com/hospital/internal/token"
)

// AuthCookie — имя cookie с токеном сессии.
const AuthCookie = "auth_token"

// Маршруты, доступные без токена. Сравнение точное, без префиксов.
var publicPaths = map[string]struct{}{
	"/login":                        {},
	"/signup":                       {},
	"/api/auth/login":               {},
	"/api/auth/signup":              {},
	"/api/test-db/create-test-user": {},
}

// Gate проверяет cookie auth_token на каждом запросе, кроме публичных
// маршрутов и статики. Страницы без токена уводятся на /signup, API-запросы
// и запросы с невалидным токеном — на /login. Claims валидного токена
// кладутся в контекст.
func Gate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if _, ok := publicPaths[path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if isStatic(path) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(AuthCookie)
			if err != nil || cookie.Value == "" {
				if !strings.HasPrefix(path, "/api/") {
					http.Redirect(w, r, "/signup", http.StatusTemporaryRedirect)
					return
				}
				http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
				return
			}

			claims, err := token.Verify(cookie.Value, secret)
			if err != nil {
				logger.Infof("auth: отклонён токен на %s: %v", path, err)
				http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

func isStatic(path string) bool {
	return path == "/favicon.ico" || path == "/health" || strings.HasPrefix(path, "/assets/")
}
